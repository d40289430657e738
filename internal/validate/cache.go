package validate

import (
	"database/sql"
	"encoding/json"
	"os"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ivycast/curator/internal/catalog"
)

// entry is one cached reachability verdict.
type entry struct {
	Result    Result    `json:"result"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Cache stores reachability verdicts keyed by stream URL as given, with
// a TTL and an optional size bound (LRU-ish: oldest entries evicted first
// by CheckedAt). Grounded on the removed indexer/smoketest_cache.go's
// TTL'd map; persistence backend is pluggable (JSON file by default, or
// sqlite when ReachabilityCachePath ends in ".db").
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int

	path string
	db   *sql.DB
}

// NewCache builds an in-memory cache, optionally persisted. path may be
// empty (memory only), a path ending in ".db" (opened as a
// modernc.org/sqlite database), or any other path (a JSON file).
func NewCache(ttl time.Duration, maxSize int, path string) (*Cache, error) {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		path:    path,
	}
	if path == "" {
		return c, nil
	}
	if isSQLitePath(path) {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS reachability (
			url TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			checked_at INTEGER NOT NULL
		)`); err != nil {
			db.Close()
			return nil, err
		}
		c.db = db
		if err := c.loadFromSQLite(); err != nil {
			db.Close()
			return nil, err
		}
		return c, nil
	}
	if err := c.loadFromJSON(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return c, nil
}

func isSQLitePath(path string) bool {
	return len(path) > 3 && path[len(path)-3:] == ".db"
}

func (c *Cache) loadFromJSON() error {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	var raw map[string]entry
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.entries = raw
	return nil
}

func (c *Cache) loadFromSQLite() error {
	rows, err := c.db.Query(`SELECT url, status, checked_at FROM reachability`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var url, status string
		var checkedAt int64
		if err := rows.Scan(&url, &status, &checkedAt); err != nil {
			return err
		}
		c.entries[url] = entry{
			Result:    Result{Status: Status(status)},
			CheckedAt: time.Unix(checkedAt, 0),
		}
	}
	return rows.Err()
}

// Get returns a cached, non-expired verdict for url.
func (c *Cache) Get(url string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[url]
	if !ok {
		return Result{}, false
	}
	if c.ttl > 0 && time.Since(e.CheckedAt) > c.ttl {
		return Result{}, false
	}
	return e.Result, true
}

// Put records a verdict, evicting the single oldest entry if maxSize is
// exceeded.
func (c *Cache) Put(url string, r Result, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry{Result: r, CheckedAt: at}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evictOldestLocked()
	}
	if c.db != nil {
		c.db.Exec(`INSERT INTO reachability(url, status, checked_at) VALUES(?, ?, ?)
			ON CONFLICT(url) DO UPDATE SET status=excluded.status, checked_at=excluded.checked_at`,
			url, string(r.Status), at.Unix())
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.CheckedAt.Before(oldestAt) {
			oldestKey, oldestAt, first = k, e.CheckedAt, false
		}
	}
	delete(c.entries, oldestKey)
}

// Flush persists the cache to its JSON file, if configured that way. A
// sqlite-backed cache persists incrementally in Put and needs no flush.
func (c *Cache) Flush() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db != nil || c.path == "" {
		return nil
	}
	b, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	return catalog.WriteFileAtomic(c.path, b, "reachability-*.json.tmp")
}

// Close releases any backing database handle.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
