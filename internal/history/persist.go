package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"zencalc/internal/calculator"
)

const snapshotVersion = 1

type snapshot struct {
	Version   int                      `json:"version"`
	MaxSize   int                      `json:"max_size"`
	Entries   []calculator.Calculation `json:"entries"` // newest first
	UpdatedAt string                   `json:"updated_at,omitempty"`
}

// FileStore is a Log that commits a JSON snapshot to disk on every change.
// Memory only changes once the snapshot is on disk, so List after a restart
// returns what the last successful Append or Clear committed.
type FileStore struct {
	*Log
	path string
	mu   sync.Mutex // serialises compute+save+swap
}

// Open loads the snapshot at path, or starts empty if it does not exist yet.
func Open(path string, maxSize int) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}

	log, err := load(path, maxSize)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", path, err)
	}

	return &FileStore{Log: log, path: path}, nil
}

func load(path string, maxSize int) (*Log, error) {
	log := NewLog(maxSize)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return log, nil
		}
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Version != 0 && snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported history snapshot version %d", snap.Version)
	}

	// Replay oldest first so the newest ends up at the head and the cap
	// keeps the most recent entries.
	for i := len(snap.Entries) - 1; i >= 0; i-- {
		log.prepend(snap.Entries[i])
	}

	return log, nil
}

// Path returns the snapshot location.
func (f *FileStore) Path() string {
	return f.path
}

// Append commits the log with c prepended. On error the log is unchanged.
func (f *FileStore) Append(c calculator.Calculation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.prepended(c)
	if err := f.save(next); err != nil {
		return err
	}
	f.replace(next)
	return nil
}

// Clear commits an empty log. On error the log is unchanged.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make([]calculator.Calculation, 0, f.MaxSize())
	if err := f.save(next); err != nil {
		return err
	}
	f.replace(next)
	return nil
}

// save writes entries through a temp file + rename.
func (f *FileStore) save(entries []calculator.Calculation) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	snap := snapshot{
		Version:   snapshotVersion,
		MaxSize:   f.MaxSize(),
		Entries:   entries,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}
