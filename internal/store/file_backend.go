package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend keeps each slot in <Dir>/<namespace>.json.
//
// Writes go through a temp file + rename so a slot is either the old payload or
// the new one, never a partial write.
type FileBackend struct {
	Dir string
}

func (FileBackend) Name() string { return BackendFile }

func (f FileBackend) ensure() error {
	return os.MkdirAll(f.Dir, 0o755)
}

func (f FileBackend) slotPath(ns string) string {
	return filepath.Join(f.Dir, slotFileName(ns))
}

func (f FileBackend) Read(_ context.Context, ns string) ([]byte, error) {
	if strings.TrimSpace(f.Dir) == "" {
		return nil, ErrSlotMissing
	}
	b, err := os.ReadFile(f.slotPath(ns))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSlotMissing
		}
		return nil, err
	}
	return b, nil
}

func (f FileBackend) Write(_ context.Context, ns string, b []byte) error {
	if strings.TrimSpace(f.Dir) == "" {
		return errors.New("file backend: missing dir")
	}
	if err := f.ensure(); err != nil {
		return err
	}
	path := f.slotPath(ns)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (f FileBackend) Remove(_ context.Context, ns string) error {
	if strings.TrimSpace(f.Dir) == "" {
		return nil
	}
	if err := os.Remove(f.slotPath(ns)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
