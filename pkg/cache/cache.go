package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"docharvest/pkg/document"
	"docharvest/pkg/logger"
	"docharvest/pkg/storage"
)

const entryVersion = 1

// Entry is one cached analysis response
type Entry struct {
	Key       string        `json:"key"`
	Source    string        `json:"source"`
	Page      document.Page `json:"page"`
	CreatedAt time.Time     `json:"created_at"`
	Version   int           `json:"version"`
}

// Store keeps analysis responses on disk so that re-running a pipeline on
// the same document does not call the remote service again
type Store struct {
	dir    string
	logger logger.Logger
	now    func() time.Time
}

// NewStore creates a store under dir. An empty dir selects the platform
// data directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dataDir, err := storage.DataDirectory("cache", 0755)
		if err != nil {
			return nil, err
		}
		dir = dataDir
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Store{
		dir:    dir,
		logger: logger.GetLogger(),
		now:    time.Now,
	}, nil
}

// Key derives a cache key from the document bytes and the request options
// that change the response
func Key(content []byte, options ...string) string {
	h := sha256.New()
	h.Write(content)
	for _, opt := range options {
		h.Write([]byte{0})
		h.Write([]byte(opt))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load returns the cached entry for key, or nil if there is none
func (s *Store) Load(key string) (*Entry, error) {
	file, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open cache entry: %w", err)
	}
	defer file.Close()

	var entry Entry
	if err := json.NewDecoder(file).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	if entry.Version != entryVersion {
		s.logger.DebugWithFields("ignoring cache entry with old version", map[string]interface{}{
			"key":     key,
			"version": entry.Version,
		})
		return nil, nil
	}

	s.logger.DebugWithFields("cache hit", map[string]interface{}{
		"key":    key,
		"source": entry.Source,
		"blocks": len(entry.Page.Blocks),
	})
	return &entry, nil
}

// Save stores page under key atomically
func (s *Store) Save(key, source string, page document.Page) error {
	entry := Entry{
		Key:       key,
		Source:    source,
		Page:      page,
		CreatedAt: s.now().UTC(),
		Version:   entryVersion,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := storage.WriteAtomic(s.path(key), bytes.NewReader(data), 0644); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}

	s.logger.DebugWithFields("cache entry saved", map[string]interface{}{
		"key":    key,
		"source": source,
	})
	return nil
}

// Exists checks if an entry for key is on disk
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// Delete removes the entry for key
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and reports how many were deleted
func (s *Store) Clear() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to delete cache entry: %w", err)
		}
		removed++
	}
	s.logger.InfoWithFields("cache cleared", map[string]interface{}{
		"dir":     s.dir,
		"removed": removed,
	})
	return removed, nil
}
