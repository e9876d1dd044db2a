package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultNamespace is the storage slot that holds checklist progress.
const DefaultNamespace = "atomic-checklist-state-v1"

// ErrSlotMissing is returned by Backend.Read when the slot does not exist.
var ErrSlotMissing = errors.New("storage slot missing")

// Backend is a durable key/value area holding opaque slot payloads.
// Each namespace maps to exactly one slot.
type Backend interface {
	Name() string
	Read(ctx context.Context, ns string) ([]byte, error)
	Write(ctx context.Context, ns string, b []byte) error
	Remove(ctx context.Context, ns string) error
}

// Backend kinds accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend of the given kind rooted at dir.
func Open(kind string, dir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return FileBackend{Dir: dir}, nil
	case BackendSQLite:
		return SQLiteBackend{Path: filepath.Join(dir, sqliteFileName)}, nil
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", kind)
	}
}

// DefaultDir is where progress lives when no directory is configured:
// $XDG_STATE_HOME/atomic-checklist, else ~/.atomic-checklist.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); v != "" {
		return filepath.Join(v, "atomic-checklist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(home, ".atomic-checklist"), nil
}

// slotFileName maps a namespace to a safe file name.
func slotFileName(ns string) string {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		ns = DefaultNamespace
	}
	var b strings.Builder
	for _, r := range ns {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + ".json"
}
