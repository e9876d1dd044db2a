package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"atomic-checklist/internal/model"

	"github.com/charmbracelet/log"
)

// Progress persists a ProgressState in one namespaced slot of a Backend.
//
// Load/Save/Clear are best effort: failures are logged and swallowed, and a
// missing or corrupt slot loads as an empty state. The *Strict variants return
// the typed errors instead, for diagnostics.
type Progress struct {
	backend Backend
	ns      string
	log     *log.Logger
}

func NewProgress(b Backend, namespace string, logger *log.Logger) *Progress {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Progress{backend: b, ns: namespace, log: logger}
}

func (p *Progress) Namespace() string { return p.ns }

func (p *Progress) BackendName() string { return p.backend.Name() }

// Encode serializes the completed entries as a JSON object of key -> true.
func Encode(st model.ProgressState) ([]byte, error) {
	out := make(map[string]bool, len(st))
	for k, v := range st {
		if v {
			out[string(k)] = true
		}
	}
	return json.Marshal(out)
}

// Decode parses a slot payload. Entries whose value is not boolean true are dropped.
func Decode(b []byte) (model.ProgressState, error) {
	st := model.NewProgressState()
	if len(strings.TrimSpace(string(b))) == 0 {
		return st, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		if done, ok := v.(bool); ok && done {
			st[model.ItemKey(k)] = true
		}
	}
	return st, nil
}

func (p *Progress) LoadStrict(ctx context.Context) (model.ProgressState, error) {
	b, err := p.backend.Read(ctx, p.ns)
	if errors.Is(err, ErrSlotMissing) {
		return model.NewProgressState(), nil
	}
	if err != nil {
		return model.NewProgressState(), &ReadError{Backend: p.backend.Name(), Namespace: p.ns, Err: err}
	}
	st, err := Decode(b)
	if err != nil {
		return model.NewProgressState(), &ReadError{Backend: p.backend.Name(), Namespace: p.ns, Err: err}
	}
	return st, nil
}

// Load never fails; see LoadStrict for the error.
func (p *Progress) Load(ctx context.Context) model.ProgressState {
	st, err := p.LoadStrict(ctx)
	if err != nil {
		p.log.Warn("unable to load checklist progress; starting empty", "err", err)
	}
	return st
}

func (p *Progress) SaveStrict(ctx context.Context, st model.ProgressState) error {
	b, err := Encode(st)
	if err != nil {
		return &WriteError{Op: "save", Backend: p.backend.Name(), Namespace: p.ns, Err: err}
	}
	if err := p.backend.Write(ctx, p.ns, b); err != nil {
		return &WriteError{Op: "save", Backend: p.backend.Name(), Namespace: p.ns, Err: err}
	}
	return nil
}

func (p *Progress) Save(ctx context.Context, st model.ProgressState) {
	if err := p.SaveStrict(ctx, st); err != nil {
		p.log.Warn("unable to save checklist progress", "err", err)
	}
}

func (p *Progress) ClearStrict(ctx context.Context) error {
	if err := p.backend.Remove(ctx, p.ns); err != nil {
		return &WriteError{Op: "clear", Backend: p.backend.Name(), Namespace: p.ns, Err: err}
	}
	return nil
}

func (p *Progress) Clear(ctx context.Context) {
	if err := p.ClearStrict(ctx); err != nil {
		p.log.Warn("unable to clear checklist progress", "err", err)
	}
}

// Exists reports whether the slot is present.
func (p *Progress) Exists(ctx context.Context) (bool, error) {
	_, err := p.backend.Read(ctx, p.ns)
	if errors.Is(err, ErrSlotMissing) {
		return false, nil
	}
	if err != nil {
		return false, &ReadError{Backend: p.backend.Name(), Namespace: p.ns, Err: err}
	}
	return true, nil
}
