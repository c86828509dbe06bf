package store

import (
	"errors"
	"testing"
)

func TestCreateAndDuplicateURL(t *testing.T) {
	s := New()

	r, err := s.Create("Go blog", "https://go.dev/blog", "official blog", "go")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID != 1 {
		t.Fatalf("expected id 1, got %d", r.ID)
	}

	if _, err := s.Create("Dup", "https://go.dev/blog", "", ""); !errors.Is(err, ErrDuplicateURL) {
		t.Fatalf("expected ErrDuplicateURL, got %v", err)
	}

	got, err := s.GetByURL("https://go.dev/blog")
	if err != nil || got.ID != r.ID {
		t.Fatalf("get by url: %+v (err=%v)", got, err)
	}
}

func TestListFilteringAndPaging(t *testing.T) {
	s := New()
	mustCreate(t, s, "Go blog", "https://go.dev/blog", "release notes", "go")
	mustCreate(t, s, "Rust book", "https://doc.rust-lang.org/book", "learning rust", "rust")
	mustCreate(t, s, "Go spec", "https://go.dev/ref/spec", "language spec", "go")

	res := s.List(ListQuery{Category: "go"})
	if res.Total != 2 {
		t.Fatalf("expected 2 go resources, got %d", res.Total)
	}
	// Newest first.
	if res.Items[0].Title != "Go spec" {
		t.Fatalf("expected newest first, got %q", res.Items[0].Title)
	}

	res = s.List(ListQuery{Q: "spec"})
	if res.Total != 1 || res.Items[0].Title != "Go spec" {
		t.Fatalf("expected substring match on 'spec', got %+v", res)
	}

	res = s.List(ListQuery{Limit: 1, Offset: 1})
	if res.Total != 3 || len(res.Items) != 1 {
		t.Fatalf("expected page of 1 with total 3, got %+v", res)
	}

	res = s.List(ListQuery{Offset: 99})
	if len(res.Items) != 0 {
		t.Fatalf("expected empty page past the end, got %d items", len(res.Items))
	}
}

func TestCategories(t *testing.T) {
	s := New()
	mustCreate(t, s, "a", "https://a.example", "", "tools")
	mustCreate(t, s, "b", "https://b.example", "", "go")
	mustCreate(t, s, "c", "https://c.example", "", "go")
	mustCreate(t, s, "d", "https://d.example", "", "")

	got := s.Categories()
	want := []string{"go", "tools"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	a := mustCreate(t, s, "a", "https://a.example", "", "")
	mustCreate(t, s, "b", "https://b.example", "", "")

	if _, err := s.Update(a.ID, "", "https://b.example", "", ""); !errors.Is(err, ErrDuplicateURL) {
		t.Fatalf("expected ErrDuplicateURL, got %v", err)
	}

	upd, err := s.Update(a.ID, "renamed", "https://a2.example", "desc", "cat")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Title != "renamed" || upd.URL != "https://a2.example" || upd.Category != "cat" {
		t.Fatalf("unexpected update result: %+v", upd)
	}

	// The old URL is released.
	if _, err := s.GetByURL("https://a.example"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old url to be gone, got %v", err)
	}

	if _, err := s.Update(999, "x", "", "", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	r := mustCreate(t, s, "a", "https://a.example", "", "")

	if err := s.Delete(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// URL can be reused after delete.
	if _, err := s.Create("again", "https://a.example", "", ""); err != nil {
		t.Fatalf("recreate: %v", err)
	}
}

func mustCreate(t *testing.T, s *Store, title, url, desc, cat string) Resource {
	t.Helper()
	r, err := s.Create(title, url, desc, cat)
	if err != nil {
		t.Fatalf("create %s: %v", url, err)
	}
	return r
}
