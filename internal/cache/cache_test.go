package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/overcite/overcite/internal/match"
	"github.com/overcite/overcite/internal/resolve"
)

// countingLookup counts upstream calls and serves fixed answers.
type countingLookup struct {
	doiCalls    int
	searchCalls int
	doc         *resolve.Document
	err         error
}

func (c *countingLookup) LookupByID(ctx context.Context, id string) (*resolve.Document, error) {
	return c.doc, c.err
}

func (c *countingLookup) LookupByDOI(ctx context.Context, doi string) (*resolve.Document, error) {
	c.doiCalls++
	return c.doc, c.err
}

func (c *countingLookup) LookupByArxiv(ctx context.Context, id string) (*resolve.Document, error) {
	return c.doc, c.err
}

func (c *countingLookup) Search(ctx context.Context, q match.Query, limit int) (*resolve.SearchResult, error) {
	c.searchCalls++
	if c.err != nil {
		return nil, c.err
	}
	return &resolve.SearchResult{NumFound: 1, Documents: []resolve.Document{{ID: "s"}}}, nil
}

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lookups.db"), ttl)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWrap_CachesHits(t *testing.T) {
	s := openTestStore(t, time.Hour)
	up := &countingLookup{doc: &resolve.Document{ID: "B1", Title: "T", Year: 2020}}
	lk := s.Wrap(up)

	for i := 0; i < 3; i++ {
		doc, err := lk.LookupByDOI(context.Background(), "10.1/x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc == nil || doc.ID != "B1" || doc.Year != 2020 {
			t.Fatalf("doc = %+v", doc)
		}
	}

	if up.doiCalls != 1 {
		t.Errorf("upstream called %d times, want 1", up.doiCalls)
	}
}

func TestWrap_CachesMisses(t *testing.T) {
	s := openTestStore(t, time.Hour)
	up := &countingLookup{doc: nil}
	lk := s.Wrap(up)

	for i := 0; i < 2; i++ {
		doc, err := lk.LookupByDOI(context.Background(), "10.1/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc != nil {
			t.Fatalf("doc = %+v, want nil", doc)
		}
	}

	if up.doiCalls != 1 {
		t.Errorf("upstream called %d times, want 1 (miss should be cached)", up.doiCalls)
	}
}

func TestWrap_ErrorsNotCached(t *testing.T) {
	s := openTestStore(t, time.Hour)
	up := &countingLookup{err: errors.New("down")}
	lk := s.Wrap(up)

	for i := 0; i < 2; i++ {
		if _, err := lk.LookupByDOI(context.Background(), "10.1/x"); err == nil {
			t.Fatal("expected error")
		}
	}

	if up.doiCalls != 2 {
		t.Errorf("upstream called %d times, want 2 (errors must pass through)", up.doiCalls)
	}
}

func TestWrap_ExpiryEvicts(t *testing.T) {
	s := openTestStore(t, time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	up := &countingLookup{doc: &resolve.Document{ID: "B1"}}
	lk := s.Wrap(up)

	if _, err := lk.LookupByDOI(context.Background(), "10.1/x"); err != nil {
		t.Fatal(err)
	}

	// Jump past the TTL; the cached row must not be served.
	now = now.Add(2 * time.Hour)
	if _, err := lk.LookupByDOI(context.Background(), "10.1/x"); err != nil {
		t.Fatal(err)
	}

	if up.doiCalls != 2 {
		t.Errorf("upstream called %d times, want 2 after expiry", up.doiCalls)
	}
}

func TestWrap_SearchKeyedByQueryAndLimit(t *testing.T) {
	s := openTestStore(t, time.Hour)
	up := &countingLookup{}
	lk := s.Wrap(up)

	q := match.Query{TitleTerms: []string{"higgs"}, Author: "Aaboud"}
	if _, err := lk.Search(context.Background(), q, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := lk.Search(context.Background(), q, 5); err != nil {
		t.Fatal(err)
	}
	if up.searchCalls != 1 {
		t.Errorf("same query searched upstream %d times, want 1", up.searchCalls)
	}

	// Different limit is a different key.
	if _, err := lk.Search(context.Background(), q, 10); err != nil {
		t.Fatal(err)
	}
	if up.searchCalls != 2 {
		t.Errorf("searchCalls = %d, want 2", up.searchCalls)
	}
}

func TestStatAndClear(t *testing.T) {
	s := openTestStore(t, time.Hour)
	up := &countingLookup{doc: &resolve.Document{ID: "B1"}}
	lk := s.Wrap(up)

	if _, err := lk.LookupByDOI(context.Background(), "10.1/x"); err != nil {
		t.Fatal(err)
	}
	if _, err := lk.LookupByArxiv(context.Background(), "2301.00001"); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Entries != 2 {
		t.Errorf("entries = %d, want 2", st.Entries)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, err = s.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Entries != 0 {
		t.Errorf("entries after clear = %d, want 0", st.Entries)
	}
}

func TestOpen_ZeroTTLUsesDefault(t *testing.T) {
	s := openTestStore(t, 0)
	if s.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, DefaultTTL)
	}
}
