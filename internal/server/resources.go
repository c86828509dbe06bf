package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"savemylinks/internal/cache"
	"savemylinks/internal/store"
)

const (
	maxTitleLen = 200
	maxURLLen   = 500

	defaultListLimit = 100
	maxListLimit     = 500
)

// resourceKeyPrefix groups every cached listing so a single pattern
// invalidation clears them all after a mutation.
const resourceKeyPrefix = "resources:"

type resourceRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (rr resourceRequest) validate(requireAll bool) (string, bool) {
	if requireAll && rr.Title == "" {
		return "title is required", false
	}
	if len(rr.Title) > maxTitleLen {
		return "title exceeds 200 characters", false
	}
	if requireAll && rr.URL == "" {
		return "url is required", false
	}
	if rr.URL != "" {
		if len(rr.URL) > maxURLLen {
			return "url exceeds 500 characters", false
		}
		u, err := url.Parse(rr.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "url must be a valid http or https URL", false
		}
	}
	return "", true
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}
	if msg, ok := req.validate(true); !ok {
		writeError(w, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}

	res, err := s.store.Create(req.Title, req.URL, req.Description, req.Category)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateURL) {
			writeError(w, http.StatusConflict, "duplicate_url",
				"a resource with this url already exists",
				map[string]any{"url": req.URL})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to save resource", nil)
		return
	}

	s.invalidate(resourceKeyPrefix)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := store.ListQuery{
		Q:        q.Get("q"),
		Category: q.Get("category"),
		Limit:    parseIntParam(q.Get("limit"), defaultListLimit),
		Offset:   parseIntParam(q.Get("offset"), 0),
	}
	if query.Limit < 1 || query.Limit > maxListLimit {
		query.Limit = defaultListLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	key := cache.Key("resources", "list", query.Q, query.Category, query.Limit, query.Offset)
	if v, ok := s.cacheGet(key); ok {
		if result, ok := v.(store.ListResult); ok {
			writeJSON(w, http.StatusOK, result)
			return
		}
	}

	result := s.store.List(query)
	s.cacheSet(key, result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	res, err := s.store.Get(id)
	if err != nil {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}
	if msg, ok := req.validate(false); !ok {
		writeError(w, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}

	res, err := s.store.Update(id, req.Title, req.URL, req.Description, req.Category)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeNotFound(w, id)
		return
	case errors.Is(err, store.ErrDuplicateURL):
		writeError(w, http.StatusConflict, "duplicate_url",
			"a resource with this url already exists",
			map[string]any{"url": req.URL})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update resource", nil)
		return
	}

	s.invalidate(resourceKeyPrefix)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeNotFound(w, id)
		return
	}

	s.invalidate(resourceKeyPrefix)
	writeJSON(w, http.StatusOK, map[string]string{"message": "resource deleted"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories(r.Context(), struct{}{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list categories", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func resourceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "validation_error", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func writeNotFound(w http.ResponseWriter, id int64) {
	writeError(w, http.StatusNotFound, "not_found", "resource not found",
		map[string]any{"resource": "resource", "identifier": strconv.FormatInt(id, 10)})
}

func parseIntParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
