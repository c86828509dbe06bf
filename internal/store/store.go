// Package store holds saved link resources in memory. It stands in for
// a database layer: the service's contract with it is only "create,
// look up, list, mutate", so handlers and the cache can be exercised
// without external storage. Nothing persists across restarts.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no resource has the requested ID.
	ErrNotFound = errors.New("store: resource not found")
	// ErrDuplicateURL is returned when a resource with the same URL
	// already exists.
	ErrDuplicateURL = errors.New("store: resource url already exists")
)

// Resource is a saved link.
type Resource struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListQuery filters and pages a listing.
type ListQuery struct {
	Q        string // substring match over title, description, and URL
	Category string // exact category match
	Limit    int
	Offset   int
}

// ListResult is one page of resources plus the unpaged total.
type ListResult struct {
	Items  []Resource `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// Store is an in-memory resource collection safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Resource
	byURL  map[string]int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:  make(map[int64]Resource),
		byURL: make(map[string]int64),
	}
}

// Create saves a new resource. URLs are unique across the store.
func (s *Store) Create(title, url, description, category string) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byURL[url]; exists {
		return Resource{}, ErrDuplicateURL
	}

	s.nextID++
	now := time.Now().UTC()
	r := Resource{
		ID:          s.nextID,
		Title:       title,
		URL:         url,
		Description: description,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.byID[r.ID] = r
	s.byURL[url] = r.ID
	return r, nil
}

// Get returns the resource with the given ID.
func (s *Store) Get(id int64) (Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return r, nil
}

// GetByURL returns the resource saved under url.
func (s *Store) GetByURL(url string) (Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byURL[url]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return s.byID[id], nil
}

// List returns a filtered, newest-first page of resources along with
// the total number of matches.
func (s *Store) List(q ListQuery) ListResult {
	s.mu.RLock()
	matched := make([]Resource, 0, len(s.byID))
	needle := strings.ToLower(q.Q)
	for _, r := range s.byID {
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		if needle != "" && !matchesQuery(r, needle) {
			continue
		}
		matched = append(matched, r)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	limit := q.Limit
	if limit <= 0 {
		limit = total
	}
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return ListResult{
		Items:  matched[start:end],
		Total:  total,
		Limit:  limit,
		Offset: q.Offset,
	}
}

func matchesQuery(r Resource, needle string) bool {
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle) ||
		strings.Contains(strings.ToLower(r.URL), needle)
}

// Categories returns the sorted set of distinct non-empty categories.
func (s *Store) Categories() []string {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, r := range s.byID {
		if r.Category != "" {
			seen[r.Category] = struct{}{}
		}
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Update overwrites the mutable fields of a resource. Empty fields in
// the update keep their current value; changing the URL to one that
// belongs to another resource fails with ErrDuplicateURL.
func (s *Store) Update(id int64, title, url, description, category string) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return Resource{}, ErrNotFound
	}

	if url != "" && url != r.URL {
		if other, exists := s.byURL[url]; exists && other != id {
			return Resource{}, ErrDuplicateURL
		}
		delete(s.byURL, r.URL)
		s.byURL[url] = id
		r.URL = url
	}
	if title != "" {
		r.Title = title
	}
	if description != "" {
		r.Description = description
	}
	if category != "" {
		r.Category = category
	}
	r.UpdatedAt = time.Now().UTC()

	s.byID[id] = r
	return r, nil
}

// Delete removes a resource by ID.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byURL, r.URL)
	return nil
}

// Len returns the number of stored resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
