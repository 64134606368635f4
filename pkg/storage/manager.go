package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"docharvest/pkg/logger"
)

// EventOutputSaved is emitted after SaveJSON writes a file
const EventOutputSaved = "OUTPUT_SAVED"

// Counter is implemented by reports that know how many records they hold
type Counter interface {
	Count() int
}

// Manager writes report files into one output directory
type Manager struct {
	outputDir string
	written   map[string]bool
	events    logger.EventSink
	mu        sync.RWMutex
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		written:   make(map[string]bool),
		events:    logger.NopEvents(),
	}, nil
}

// WithEvents sets the sink receiving OUTPUT_SAVED events
func (m *Manager) WithEvents(sink logger.EventSink) *Manager {
	if sink != nil {
		m.events = sink
	}
	return m
}

// Dir returns the output directory
func (m *Manager) Dir() string {
	return m.outputDir
}

// Path resolves name inside the output directory. Absolute names are kept.
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.outputDir, name)
}

// Exists checks whether name is already present on disk
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// WriteFile saves the content of r as name, replacing any previous version
// atomically
func (m *Manager) WriteFile(name string, r io.Reader) (string, error) {
	path := m.Path(name)
	if err := WriteAtomic(path, r, 0644); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.written[path] = true
	m.mu.Unlock()

	return path, nil
}

// SaveJSON writes v as indented JSON. HTML characters are not escaped so
// post bodies stay readable. When v is a Counter its count is reported as
// the event's total.
func (m *Manager) SaveJSON(name string, v interface{}) (string, error) {
	data, err := EncodeJSON(v)
	if err != nil {
		return "", err
	}
	path, err := m.WriteFile(name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	fields := map[string]interface{}{"path": path, "bytes": len(data)}
	if c, ok := v.(Counter); ok {
		fields["total"] = c.Count()
	}
	m.events.Event(EventOutputSaved, fields)
	return path, nil
}

// Written lists the files saved through this manager, sorted
func (m *Manager) Written() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.written))
	for path := range m.written {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// EncodeJSON renders v with two-space indentation and a trailing newline
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAtomic copies r into a temporary file next to path, syncs it and
// renames it over path
func WriteAtomic(path string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile := path + ".tmp"
	out, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	if err == nil {
		err = out.Sync()
	}
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write file data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
