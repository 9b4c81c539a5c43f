// Package cache keeps the last known result of each data source on disk so
// widgets can show something useful before the first fetch completes and
// after a fetch fails.
package cache

import (
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const fileSuffix = ".entry"

// Options configures a Store.
type Options struct {
	// Dir is where entry files live. Created if missing.
	Dir string

	// MaxSizeMB bounds the total payload size. Default: 10.
	MaxSizeMB int

	// TTL is how long an entry counts as fresh. Stale entries are still
	// returned, flagged as such. 0 means entries never go stale.
	TTL time.Duration

	Logger zerolog.Logger
}

// Entry is a cached payload with its age.
type Entry struct {
	Key      string
	Data     []byte
	StoredAt time.Time
	Fresh    bool
}

// Age returns how long ago the entry was stored.
func (e Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}

// envelope is the on-disk form of one entry.
type envelope struct {
	Key      string          `json:"key"`
	StoredAt time.Time       `json:"stored_at"`
	TTL      time.Duration   `json:"ttl_ns"`
	Data     json.RawMessage `json:"data"`
}

type lruEntry struct {
	hash string
	key  string
	size int64
}

// Store is a disk-backed key/value store with an LRU size bound. Each entry
// is one JSON file written atomically via temp file and rename.
type Store struct {
	opts   Options
	logger zerolog.Logger

	mu      sync.Mutex
	lru     *list.List // front = most recently used
	items   map[string]*list.Element
	curSize int64
}

// NewStore opens the store in opts.Dir, indexing the entries already there.
// Unreadable entry files are removed.
func NewStore(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("cache: empty directory")
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", opts.Dir, err)
	}

	s := &Store{
		opts:   opts,
		logger: opts.Logger,
		lru:    list.New(),
		items:  make(map[string]*list.Element),
	}
	if err := s.scanDir(); err != nil {
		return nil, fmt.Errorf("cache: scan directory: %w", err)
	}
	return s, nil
}

// Put stores data under key. data must be valid JSON.
func (s *Store) Put(key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("cache: value for %q is not valid JSON", key)
	}
	h := entryStem(key)
	raw, err := json.Marshal(envelope{
		Key:      key,
		StoredAt: time.Now(),
		TTL:      s.opts.TTL,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("cache: marshal %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicWrite(s.path(h), raw, s.opts.Dir); err != nil {
		return fmt.Errorf("cache: write %q: %w", key, err)
	}

	size := int64(len(data))
	if elem, ok := s.items[h]; ok {
		entry := elem.Value.(*lruEntry)
		s.curSize += size - entry.size
		entry.size = size
		s.lru.MoveToFront(elem)
	} else {
		s.items[h] = s.lru.PushFront(&lruEntry{hash: h, key: key, size: size})
		s.curSize += size
	}
	s.evictLocked()
	return nil
}

// Get returns the entry for key, fresh or stale.
func (s *Store) Get(key string) (Entry, bool) {
	h := entryStem(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[h]
	if !ok {
		return Entry{}, false
	}
	env, err := readEnvelope(s.path(h))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("dropping unreadable cache entry")
		s.removeLocked(elem)
		return Entry{}, false
	}
	s.lru.MoveToFront(elem)
	return Entry{
		Key:      env.Key,
		Data:     env.Data,
		StoredAt: env.StoredAt,
		Fresh:    env.TTL <= 0 || time.Since(env.StoredAt) <= env.TTL,
	}, true
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[entryStem(key)]; ok {
		s.removeLocked(elem)
	}
}

// Keys returns every stored key, most recently used first.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, s.lru.Len())
	for e := s.lru.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*lruEntry).key)
	}
	return keys
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Size returns the total payload size in bytes.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curSize
}

// Prune removes entries stored longer ago than maxAge and reports how many
// were removed.
func (s *Store) Prune(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for e := s.lru.Front(); e != nil; {
		next := e.Next()
		env, err := readEnvelope(s.path(e.Value.(*lruEntry).hash))
		if err != nil || time.Since(env.StoredAt) > maxAge {
			s.removeLocked(e)
			removed++
		}
		e = next
	}
	return removed
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e := s.lru.Front(); e != nil; {
		next := e.Next()
		s.removeLocked(e)
		e = next
	}
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.opts.Dir, hash+fileSuffix)
}

func (s *Store) maxBytes() int64 {
	return int64(s.opts.MaxSizeMB) * 1024 * 1024
}

// removeLocked drops an entry from the index and disk.
func (s *Store) removeLocked(elem *list.Element) {
	entry := elem.Value.(*lruEntry)
	s.curSize -= entry.size
	s.lru.Remove(elem)
	delete(s.items, entry.hash)
	_ = os.Remove(s.path(entry.hash))
}

// evictLocked removes least recently used entries until the store fits.
// The newest entry is always kept.
func (s *Store) evictLocked() {
	for s.curSize > s.maxBytes() && s.lru.Len() > 1 {
		back := s.lru.Back()
		s.logger.Debug().Str("key", back.Value.(*lruEntry).key).Msg("evicting cache entry")
		s.removeLocked(back)
	}
}

// scanDir rebuilds the index from entry files, oldest at the back.
func (s *Store) scanDir() error {
	dirents, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		return err
	}

	type found struct {
		hash string
		env  envelope
	}
	var all []found
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		hash := strings.TrimSuffix(name, fileSuffix)
		env, err := readEnvelope(filepath.Join(s.opts.Dir, name))
		if err != nil || entryStem(env.Key) != hash {
			_ = os.Remove(filepath.Join(s.opts.Dir, name))
			continue
		}
		all = append(all, found{hash, env})
	}

	for _, f := range all {
		size := int64(len(f.env.Data))
		elem := s.insertByAge(&lruEntry{hash: f.hash, key: f.env.Key, size: size}, f.env.StoredAt)
		s.items[f.hash] = elem
		s.curSize += size
	}
	s.evictLocked()
	return nil
}

// insertByAge keeps the scan order newest-first, so eviction after a restart
// still removes the oldest entries.
func (s *Store) insertByAge(entry *lruEntry, storedAt time.Time) *list.Element {
	for e := s.lru.Front(); e != nil; e = e.Next() {
		env, err := readEnvelope(s.path(e.Value.(*lruEntry).hash))
		if err == nil && storedAt.After(env.StoredAt) {
			return s.lru.InsertBefore(entry, e)
		}
	}
	return s.lru.PushBack(entry)
}

func readEnvelope(path string) (envelope, error) {
	var env envelope
	data, err := os.ReadFile(path)
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, err
	}
	return env, nil
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}
