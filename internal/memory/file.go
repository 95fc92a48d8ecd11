package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/debatelab/arena/internal/logging"
)

// FileStore persists one JSON document per record under a base directory.
// Record files are written atomically, so concurrent appends from unrelated
// runs never observe partial documents and need no shared lock beyond the
// per-process mutex.
type FileStore struct {
	baseDir string
	logger  *logging.Logger
	mu      sync.RWMutex
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used for degraded-retrieval warnings.
func WithFileLogger(logger *logging.Logger) FileOption {
	return func(fs *FileStore) {
		fs.logger = logger
	}
}

// NewFileStore creates a FileStore rooted at the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(baseDir string, opts ...FileOption) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory: %w", err)
	}

	fs := &FileStore{
		baseDir: baseDir,
		logger:  logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs, nil
}

// Retrieve loads all records and returns the documents of up to k records
// ranked by similarity to the query. Any failure degrades to an empty
// result.
func (fs *FileStore) Retrieve(ctx context.Context, query string, k int) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		fs.logger.Warn("memory retrieval degraded to empty", "error", err)
		return nil
	}

	var records []Record
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fs.baseDir, entry.Name()))
		if err != nil {
			fs.logger.Warn("skipping unreadable memory record", "file", entry.Name(), "error", err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			fs.logger.Warn("skipping corrupt memory record", "file", entry.Name(), "error", err)
			continue
		}
		records = append(records, rec)
	}

	return rankRecords(query, records, k)
}

// Save writes the record to its own file. Empty records are dropped.
func (fs *FileStore) Save(_ context.Context, rec Record) error {
	if rec.Empty() {
		return nil
	}
	if rec.ID == "" {
		return fmt.Errorf("memory: record requires an id")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := filepath.Join(fs.baseDir, rec.ID+".json")
	return atomicWriteFile(path, data, 0644)
}

// Close is a no-op for the file store.
func (fs *FileStore) Close() error {
	return nil
}

// atomicWriteFile writes data to path via a temp file and rename so readers
// never observe a partially written record.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Create temp file in same directory to ensure atomic rename
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on any error
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
