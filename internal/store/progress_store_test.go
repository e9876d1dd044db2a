package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"atomic-checklist/internal/model"

	"github.com/charmbracelet/log"
)

func backendsUnderTest(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()
	return map[string]Backend{
		"file":   FileBackend{Dir: filepath.Join(dir, "file")},
		"sqlite": SQLiteBackend{Path: filepath.Join(dir, "sqlite", sqliteFileName)},
		"memory": NewMemoryBackend(),
	}
}

func TestProgress_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backendsUnderTest(t) {
		b := b
		t.Run(name, func(t *testing.T) {
			p := NewProgress(b, "", nil)

			// Missing slot => empty state.
			st0, err := p.LoadStrict(ctx)
			if err != nil {
				t.Fatalf("LoadStrict (missing): %v", err)
			}
			if len(st0) != 0 {
				t.Fatalf("expected empty state, got %v", st0)
			}

			want := model.ProgressState{"a::b::c": true, "a::b::d": true}
			in := want.Clone()
			in["a::b::e"] = false // never persisted

			if err := p.SaveStrict(ctx, in); err != nil {
				t.Fatalf("SaveStrict: %v", err)
			}
			got, err := p.LoadStrict(ctx)
			if err != nil {
				t.Fatalf("LoadStrict: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
			}

			// Overwrite, not merge.
			if err := p.SaveStrict(ctx, model.ProgressState{"x::y::z": true}); err != nil {
				t.Fatalf("SaveStrict (overwrite): %v", err)
			}
			got = p.Load(ctx)
			if !reflect.DeepEqual(model.ProgressState{"x::y::z": true}, got) {
				t.Fatalf("expected overwrite, got %#v", got)
			}

			if err := p.ClearStrict(ctx); err != nil {
				t.Fatalf("ClearStrict: %v", err)
			}
			ok, err := p.Exists(ctx)
			if err != nil || ok {
				t.Fatalf("expected slot absent after clear; ok=%v err=%v", ok, err)
			}
			// Clearing twice is fine.
			if err := p.ClearStrict(ctx); err != nil {
				t.Fatalf("ClearStrict (again): %v", err)
			}
		})
	}
}

func TestProgress_CorruptSlotLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fb := FileBackend{Dir: dir}
	if err := os.WriteFile(filepath.Join(dir, slotFileName(DefaultNamespace)), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var logs bytes.Buffer
	p := NewProgress(fb, DefaultNamespace, log.New(&logs))

	_, err := p.LoadStrict(ctx)
	var rerr *ReadError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}

	st := p.Load(ctx)
	if len(st) != 0 {
		t.Fatalf("expected empty state for corrupt slot, got %v", st)
	}
	if !strings.Contains(logs.String(), "unable to load checklist progress") {
		t.Fatalf("expected a warning to be logged, got %q", logs.String())
	}
}

func TestProgress_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	mb := NewMemoryBackend()
	mb.WriteErr = errors.New("quota exceeded")

	var logs bytes.Buffer
	p := NewProgress(mb, "ns", log.New(&logs))

	p.Save(ctx, model.ProgressState{"k": true})
	p.Clear(ctx)

	var werr *WriteError
	if err := p.SaveStrict(ctx, model.ProgressState{"k": true}); !errors.As(err, &werr) || werr.Op != "save" {
		t.Fatalf("expected save WriteError, got %v", err)
	}
	if err := p.ClearStrict(ctx); !errors.As(err, &werr) || werr.Op != "clear" {
		t.Fatalf("expected clear WriteError, got %v", err)
	}
	if got := strings.Count(logs.String(), "unable to"); got != 2 {
		t.Fatalf("expected 2 logged warnings, got %d: %q", got, logs.String())
	}
}

func TestDecode_DropsNonTrueValues(t *testing.T) {
	t.Parallel()

	st, err := Decode([]byte(`{"a":true,"b":false,"c":1,"d":"true","e":null}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(model.ProgressState{"a": true}, st) {
		t.Fatalf("unexpected state %#v", st)
	}

	st, err = Decode([]byte("null"))
	if err != nil || len(st) != 0 {
		t.Fatalf("null payload should decode empty; st=%v err=%v", st, err)
	}
	if _, err := Decode([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error for non-object payload")
	}
}

func TestEncode_MatchesSlotFormat(t *testing.T) {
	t.Parallel()

	b, err := Encode(model.ProgressState{"b::b::b": true, "a::a::a": true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, want := string(b), `{"a::a::a":true,"b::b::b":true}`; got != want {
		t.Fatalf("Encode=%s want %s", got, want)
	}
}

func TestFileBackend_NoTempLeftBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fb := FileBackend{Dir: dir}
	if err := fb.Write(context.Background(), "my/ns", []byte(`{}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "my_ns.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files: %v", names)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, kind := range []string{"", "file", "sqlite", "memory", "SQLite"} {
		b, err := Open(kind, dir)
		if err != nil {
			t.Fatalf("Open(%q): %v", kind, err)
		}
		if b == nil {
			t.Fatalf("Open(%q) returned nil", kind)
		}
	}
	if _, err := Open("redis", dir); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
