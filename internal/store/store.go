// CLAUDE:SUMMARY Per-thread JSON snapshot cache with mtime-based TTL and atomic rename writes.
// Package store persists scraped postings as per-thread JSON snapshots.
//
// One file per thread, hn_jobs_<thread>.json, holding the postings as an
// indented JSON array. A snapshot is fresh while its age (by modification
// time) is strictly below the TTL; a missing, stale, or unreadable
// snapshot is a miss, never an error the pipeline has to special-case.
// Writes go through a temp file and rename so a concurrent reader never
// sees a partial snapshot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hazyhaar/embauche/horosafe"
	"github.com/hazyhaar/embauche/internal/thread"
)

// Config configures the snapshot store.
type Config struct {
	// Dir is the snapshot directory, created on first save. Default: "cache".
	Dir string `yaml:"dir"`
	// TTL is the freshness window. Default: 1h.
	TTL time.Duration `yaml:"ttl"`
	// Disabled turns the store into a pass-through: loads always miss,
	// saves are dropped.
	Disabled bool `yaml:"disabled"`
}

func (c *Config) defaults() {
	if c.Dir == "" {
		c.Dir = "cache"
	}
	if c.TTL <= 0 {
		c.TTL = time.Hour
	}
}

// Info describes one thread's snapshot state.
type Info struct {
	Path    string
	ModTime time.Time
	Fresh   bool
}

// Store reads and writes posting snapshots.
type Store struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time
}

// New creates a Store.
func New(cfg Config) *Store {
	cfg.defaults()
	return &Store{cfg: cfg, now: time.Now}
}

// path returns the snapshot path for a thread, guarding against IDs that
// would escape the snapshot directory.
func (s *Store) path(threadID string) (string, error) {
	return horosafe.SafePath(s.cfg.Dir, "hn_jobs_"+threadID+".json")
}

// Load returns the cached postings for a thread and whether the snapshot
// was fresh. A missing, expired, or corrupt snapshot is (nil, false, nil);
// only genuine read failures produce an error.
func (s *Store) Load(ctx context.Context, threadID string) ([]thread.Posting, bool, error) {
	if s.cfg.Disabled {
		return nil, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.path(threadID)
	if err != nil {
		return nil, false, fmt.Errorf("store: %w", err)
	}

	fi, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: stat %s: %w", target, err)
	}
	if s.now().Sub(fi.ModTime()) >= s.cfg.TTL {
		return nil, false, nil
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, false, fmt.Errorf("store: read %s: %w", target, err)
	}

	var postings []thread.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		// A corrupt snapshot is treated as a miss; the next save overwrites it.
		return nil, false, nil
	}
	if postings == nil {
		postings = []thread.Posting{}
	}
	return postings, true, nil
}

// Save writes the postings snapshot for a thread atomically.
// A disabled store drops the write. An empty slice is a valid snapshot:
// a thread with no qualifying postings is still a successful scrape.
func (s *Store) Save(ctx context.Context, threadID string, postings []thread.Posting) error {
	if s.cfg.Disabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", s.cfg.Dir, err)
	}

	target, err := s.path(threadID)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if postings == nil {
		postings = []thread.Posting{}
	}
	data, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write tmp: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}

// Invalidate removes every snapshot in the store directory. A store that
// was never written to invalidates cleanly.
func (s *Store) Invalidate(ctx context.Context) error {
	if s.cfg.Disabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.cfg.Dir, "*.json"))
	if err != nil {
		return fmt.Errorf("store: glob: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: remove %s: %w", m, err)
		}
	}
	return nil
}

// Stat reports the snapshot state for a thread without reading it.
func (s *Store) Stat(threadID string) (Info, error) {
	target, err := s.path(threadID)
	if err != nil {
		return Info{}, fmt.Errorf("store: %w", err)
	}
	info := Info{Path: target}
	if s.cfg.Disabled {
		return info, nil
	}

	fi, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return Info{}, fmt.Errorf("store: stat %s: %w", target, err)
	}
	info.ModTime = fi.ModTime()
	info.Fresh = s.now().Sub(fi.ModTime()) < s.cfg.TTL
	return info, nil
}
