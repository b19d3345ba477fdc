// Package cache provides a TTL-based lookup cache backed by SQLite. It
// wraps any resolve.Lookup so repeated resolutions of the same .bib file
// stop hitting the remote API.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/overcite/overcite/internal/match"
	"github.com/overcite/overcite/internal/resolve"
)

// DefaultTTL is how long cached lookups stay valid. Bibliographic records
// change rarely; a day keeps interactive sessions snappy without going
// stale in any way that matters.
const DefaultTTL = 24 * time.Hour

// Store is a SQLite-backed TTL cache of lookup results.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time // injectable for tests
}

// Open opens or creates the cache database at path. A ttl of zero means
// DefaultTTL.
func Open(path string, ttl time.Duration) (*Store, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS lookups (
			cache_key  TEXT PRIMARY KEY,
			hit        INTEGER NOT NULL,   -- 0 = cached miss
			payload    TEXT,               -- JSON, shape depends on key kind
			created_at INTEGER NOT NULL    -- unix seconds
		);
		CREATE INDEX IF NOT EXISTS idx_lookups_created ON lookups(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// get returns the cached payload for key, whether it was a hit, and
// whether a live row existed. Expired rows are deleted on read.
func (s *Store) get(key string) (payload []byte, hit, ok bool) {
	var p sql.NullString
	var hitInt int
	var created int64
	err := s.db.QueryRow(
		`SELECT payload, hit, created_at FROM lookups WHERE cache_key = ?`, key,
	).Scan(&p, &hitInt, &created)
	if err != nil {
		return nil, false, false
	}

	if s.now().Unix()-created > int64(s.ttl/time.Second) {
		s.db.Exec(`DELETE FROM lookups WHERE cache_key = ?`, key)
		return nil, false, false
	}

	return []byte(p.String), hitInt != 0, true
}

func (s *Store) put(key string, hit bool, payload []byte) {
	hitInt := 0
	if hit {
		hitInt = 1
	}
	// Cache failures are not worth surfacing; the upstream result stands.
	s.db.Exec(
		`INSERT OR REPLACE INTO lookups (cache_key, hit, payload, created_at) VALUES (?, ?, ?, ?)`,
		key, hitInt, string(payload), s.now().Unix(),
	)
}

// Stats reports the number of live and expired rows in the cache.
type Stats struct {
	Entries int   `json:"entries"`
	Expired int   `json:"expired"`
	Bytes   int64 `json:"bytes"`
}

// Stat summarizes cache contents without purging anything.
func (s *Store) Stat() (Stats, error) {
	cutoff := s.now().Unix() - int64(s.ttl/time.Second)
	var st Stats
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(created_at <= ?), 0),
		        COALESCE(SUM(LENGTH(payload)), 0)
		 FROM lookups`, cutoff,
	).Scan(&st.Entries, &st.Expired, &st.Bytes)
	return st, err
}

// Clear removes all cached lookups.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM lookups`)
	return err
}

// Wrap returns a Lookup that consults the cache before upstream. Upstream
// errors pass through uncached; hits and definitive misses are stored.
func (s *Store) Wrap(upstream resolve.Lookup) resolve.Lookup {
	return &cachingLookup{store: s, upstream: upstream}
}

type cachingLookup struct {
	store    *Store
	upstream resolve.Lookup
}

// lookupThrough implements the read-through pattern shared by the three
// identifier lookups.
func (c *cachingLookup) lookupThrough(key string, fetch func() (*resolve.Document, error)) (*resolve.Document, error) {
	if payload, hit, ok := c.store.get(key); ok {
		if !hit {
			return nil, nil
		}
		var doc resolve.Document
		if err := json.Unmarshal(payload, &doc); err == nil {
			return &doc, nil
		}
		// Corrupt row: fall through to upstream and overwrite.
	}

	doc, err := fetch()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		c.store.put(key, false, nil)
		return nil, nil
	}
	payload, err := json.Marshal(doc)
	if err == nil {
		c.store.put(key, true, payload)
	}
	return doc, nil
}

func (c *cachingLookup) LookupByID(ctx context.Context, id string) (*resolve.Document, error) {
	return c.lookupThrough("id:"+id, func() (*resolve.Document, error) {
		return c.upstream.LookupByID(ctx, id)
	})
}

func (c *cachingLookup) LookupByDOI(ctx context.Context, doi string) (*resolve.Document, error) {
	return c.lookupThrough("doi:"+doi, func() (*resolve.Document, error) {
		return c.upstream.LookupByDOI(ctx, doi)
	})
}

func (c *cachingLookup) LookupByArxiv(ctx context.Context, arxivID string) (*resolve.Document, error) {
	return c.lookupThrough("arxiv:"+arxivID, func() (*resolve.Document, error) {
		return c.upstream.LookupByArxiv(ctx, arxivID)
	})
}

func (c *cachingLookup) Search(ctx context.Context, q match.Query, limit int) (*resolve.SearchResult, error) {
	key := "search:" + strconv.Itoa(limit) + ":" + q.String()
	if payload, hit, ok := c.store.get(key); ok && hit {
		var page resolve.SearchResult
		if err := json.Unmarshal(payload, &page); err == nil {
			return &page, nil
		}
	}

	page, err := c.upstream.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	if page != nil {
		if payload, err := json.Marshal(page); err == nil {
			c.store.put(key, true, payload)
		}
	}
	return page, nil
}
