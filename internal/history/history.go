// Package history keeps the calculation log: newest first, capped, and
// optionally persisted to a JSON snapshot file.
package history

import (
	"sync"

	"zencalc/internal/calculator"
)

// MaxEntries is the most calculations the log keeps.
const MaxEntries = 50

// Store is the history contract shared by the in-memory and file-backed logs.
type Store interface {
	// Append puts c at the head of the log, evicting from the tail past the cap.
	Append(c calculator.Calculation) error
	// List returns the log newest first.
	List() []calculator.Calculation
	// Get looks up a calculation by id.
	Get(id string) (calculator.Calculation, bool)
	// Clear empties the log.
	Clear() error
	// Len returns the number of stored calculations.
	Len() int
}

// Log is an in-memory, capped, newest-first calculation log.
type Log struct {
	entries []calculator.Calculation // newest first
	maxSize int
	mu      sync.RWMutex
}

// NewLog creates a log holding at most maxSize entries. A maxSize outside
// 1..MaxEntries is clamped to MaxEntries.
func NewLog(maxSize int) *Log {
	if maxSize <= 0 || maxSize > MaxEntries {
		maxSize = MaxEntries
	}
	return &Log{
		entries: make([]calculator.Calculation, 0, maxSize),
		maxSize: maxSize,
	}
}

// Append prepends c and drops whatever falls past the cap.
func (l *Log) Append(c calculator.Calculation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prepend(c)
	return nil
}

func (l *Log) prepend(c calculator.Calculation) {
	if len(l.entries) < l.maxSize {
		l.entries = append(l.entries, calculator.Calculation{})
	}
	copy(l.entries[1:], l.entries)
	l.entries[0] = c
}

// prepended returns the entries as they would be after prepending c,
// without changing the log.
func (l *Log) prepended(c calculator.Calculation) []calculator.Calculation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]calculator.Calculation, min(len(l.entries)+1, l.maxSize), l.maxSize)
	out[0] = c
	copy(out[1:], l.entries)
	return out
}

// replace swaps in entries, newest first.
func (l *Log) replace(entries []calculator.Calculation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
}

// List returns a copy of the log, newest first.
func (l *Log) List() []calculator.Calculation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]calculator.Calculation, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get returns the calculation with the given id.
func (l *Log) Get(id string) (calculator.Calculation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range l.entries {
		if c.ID == id {
			return c, true
		}
	}
	return calculator.Calculation{}, false
}

// Clear removes every entry.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]calculator.Calculation, 0, l.maxSize)
	return nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// MaxSize returns the cap.
func (l *Log) MaxSize() int {
	return l.maxSize
}
