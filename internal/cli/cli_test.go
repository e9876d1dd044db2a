package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"atomic-checklist/internal/checklist"
)

const testContent = `[
  {
    "chapter": "Chapter 1: Atoms",
    "summary": "The atom.",
    "sections": [
      {
        "title": "Basics",
        "items": [
          { "label": "Nucleus", "detail": "protons and neutrons" },
          { "type": "equation", "label": "Binding", "detail": "E = mc^2",
            "derivation": [
              { "type": "heading", "text": "Start here" },
              { "type": "equation", "tex": "x = 1", "display": true }
            ]
          }
        ]
      }
    ]
  },
  {
    "chapter": "Chapter 2: Decay",
    "summary": "Decay.",
    "sections": [
      { "title": "Modes", "items": [ { "text": "Alpha decay" } ] }
    ]
  }
]`

const (
	keyNucleus = "chapter-1-atoms::basics::nucleus"
	keyBinding = "chapter-1-atoms::basics::binding"
	keyAlpha   = "chapter-2-decay::modes::alpha-decay"
)

type cliEnv struct {
	t        *testing.T
	dir      string
	stateDir string
	base     []string
}

func newCLIEnv(t *testing.T, extra ...string) cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHECKLIST_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("CHECKLIST_FORMAT", "")

	contentPath := filepath.Join(dir, "content.json")
	if err := os.WriteFile(contentPath, []byte(testContent), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}
	stateDir := filepath.Join(dir, "state")
	base := append([]string{"--content", contentPath, "--state-dir", stateDir}, extra...)
	return cliEnv{t: t, dir: dir, stateDir: stateDir, base: base}
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func (c cliEnv) run(args ...string) ([]byte, []byte, error) {
	c.t.Helper()
	return runCLI(c.t, append(append([]string{}, c.base...), args...))
}

// mustData runs args and returns the envelope's data object.
func (c cliEnv) mustData(args ...string) map[string]any {
	c.t.Helper()
	stdout, stderr, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("checklist %v: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		c.t.Fatalf("unmarshal envelope: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		c.t.Fatalf("expected data object; got %#v", env["data"])
	}
	return data
}

func overallOf(t *testing.T, data map[string]any) (percent, completed, total int) {
	t.Helper()
	o, ok := data["overall"].(map[string]any)
	if !ok {
		t.Fatalf("expected overall object; got %#v", data["overall"])
	}
	return int(o["percent"].(float64)), int(o["completed"].(float64)), int(o["total"].(float64))
}

func TestStatus_Empty(t *testing.T) {
	c := newCLIEnv(t)

	data := c.mustData("status")
	p, done, total := overallOf(t, data)
	if p != 0 || done != 0 || total != 3 {
		t.Fatalf("overall = %d%% %d/%d, want 0%% 0/3", p, done, total)
	}
	if got := data["backend"]; got != "file" {
		t.Fatalf("backend = %v, want file", got)
	}
	if got := data["namespace"]; got != "atomic-checklist-state-v1" {
		t.Fatalf("namespace = %v", got)
	}
	if chs, _ := data["chapters"].([]any); len(chs) != 2 {
		t.Fatalf("expected 2 chapters; got %#v", data["chapters"])
	}
}

func TestCheckPersistsAcrossRuns(t *testing.T) {
	c := newCLIEnv(t)

	res := c.mustData("check", keyNucleus)
	if res["checked"] != true {
		t.Fatalf("check result = %#v", res)
	}
	ch := res["chapter"].(map[string]any)
	if ch["percent"].(float64) != 50 {
		t.Fatalf("chapter percent = %v, want 50", ch["percent"])
	}

	b, err := os.ReadFile(filepath.Join(c.stateDir, "atomic-checklist-state-v1.json"))
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	var slot map[string]bool
	if err := json.Unmarshal(b, &slot); err != nil {
		t.Fatalf("slot json: %v\n%s", err, b)
	}
	if !slot[keyNucleus] || len(slot) != 1 {
		t.Fatalf("slot = %#v", slot)
	}

	_, done, _ := overallOf(t, c.mustData("status"))
	if done != 1 {
		t.Fatalf("completed after reload = %d, want 1", done)
	}

	c.mustData("uncheck", keyNucleus)
	_, done, _ = overallOf(t, c.mustData("status"))
	if done != 0 {
		t.Fatalf("completed after uncheck = %d, want 0", done)
	}
}

func TestToggle(t *testing.T) {
	c := newCLIEnv(t)

	if got := c.mustData("toggle", keyAlpha)["checked"]; got != true {
		t.Fatalf("first toggle = %v, want true", got)
	}
	if got := c.mustData("toggle", keyAlpha)["checked"]; got != false {
		t.Fatalf("second toggle = %v, want false", got)
	}
}

func TestCheck_UnknownKey(t *testing.T) {
	c := newCLIEnv(t)

	_, stderr, err := c.run("check", "nope::nope::nope")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, checklist.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem; got %v", err)
	}
	if !strings.Contains(string(stderr), "item not found: nope::nope::nope") {
		t.Fatalf("stderr = %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(c.stateDir, "atomic-checklist-state-v1.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no slot written; stat err = %v", err)
	}
}

func TestItems_ListAndQuery(t *testing.T) {
	c := newCLIEnv(t)

	all := c.mustData("items")
	if items, _ := all["items"].([]any); len(items) != 3 {
		t.Fatalf("expected 3 items; got %#v", all["items"])
	}

	// Derivation text is searchable.
	got := c.mustData("items", "--query", "START HERE")
	items, _ := got["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 match; got %#v", got["items"])
	}
	if k := items[0].(map[string]any)["key"]; k != keyBinding {
		t.Fatalf("key = %v, want %s", k, keyBinding)
	}

	none := c.mustData("items", "-q", "zzz")
	if items, ok := none["items"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty items array; got %#v", none["items"])
	}
}

func TestItemsShow(t *testing.T) {
	c := newCLIEnv(t)

	d := c.mustData("items", "show", keyBinding)
	if d["chapter"] != "Chapter 1: Atoms" || d["section"] != "Basics" {
		t.Fatalf("unexpected location: %#v", d)
	}
	if d["text"] != `Binding: \(E = mc^2\)` {
		t.Fatalf("text = %q", d["text"])
	}
	deriv, _ := d["derivation"].(string)
	if !strings.Contains(deriv, "#### Start here") || !strings.Contains(deriv, "x = 1") {
		t.Fatalf("derivation = %q", deriv)
	}

	_, _, err := c.run("items", "show", "missing::key::x")
	if !errors.Is(err, checklist.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem; got %v", err)
	}
}

func TestReset(t *testing.T) {
	c := newCLIEnv(t)
	for _, k := range []string{keyNucleus, keyBinding, keyAlpha} {
		c.mustData("check", k)
	}

	// Piped stdin cannot confirm.
	_, _, err := c.run("reset")
	if !errors.Is(err, errNeedsConfirm) {
		t.Fatalf("expected errNeedsConfirm; got %v", err)
	}
	if _, done, _ := overallOf(t, c.mustData("status")); done != 3 {
		t.Fatalf("reset without confirmation changed progress: %d", done)
	}

	p, done, _ := overallOf(t, c.mustData("reset", "--yes"))
	if p != 0 || done != 0 {
		t.Fatalf("after reset: %d%% %d done", p, done)
	}
	if _, err := os.Stat(filepath.Join(c.stateDir, "atomic-checklist-state-v1.json")); !os.IsNotExist(err) {
		t.Fatalf("expected slot removed; stat err = %v", err)
	}

	// Idempotent.
	c.mustData("reset", "--yes")
}

func TestExport(t *testing.T) {
	c := newCLIEnv(t)
	old := now
	now = func() time.Time { return time.Date(2024, 3, 5, 6, 7, 8, 9_000_000, time.UTC) }
	t.Cleanup(func() { now = old })

	c.mustData("check", keyAlpha)

	outDir := t.TempDir()
	d := c.mustData("export", "--out", outDir)
	wantPath := filepath.Join(outDir, "atomic-checklist-progress-2024-03-05.json")
	if d["path"] != wantPath {
		t.Fatalf("path = %v, want %s", d["path"], wantPath)
	}

	b, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var r checklist.Report
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("export json: %v", err)
	}
	if r.Date != "2024-03-05T06:07:08.009Z" || r.Overall != 33 {
		t.Fatalf("report = %#v", r)
	}
	if len(r.Chapters) != 2 || r.Chapters[1].Title != "chapter-2-decay" || r.Chapters[1].Progress != 100 {
		t.Fatalf("chapters = %#v", r.Chapters)
	}
	if !strings.Contains(string(b), "\n  \"date\"") {
		t.Fatalf("expected two-space indented json:\n%s", b)
	}
}

func TestDoctor(t *testing.T) {
	c := newCLIEnv(t)

	d := c.mustData("doctor")
	st := d["storage"].(map[string]any)
	if st["readable"] != true || st["exists"] != false {
		t.Fatalf("storage = %#v", st)
	}

	if err := os.MkdirAll(c.stateDir, 0o755); err != nil {
		t.Fatal(err)
	}
	slot := filepath.Join(c.stateDir, "atomic-checklist-state-v1.json")
	if err := os.WriteFile(slot, []byte(`{"old::key::gone":true,`), 0o644); err != nil {
		t.Fatal(err)
	}
	d = c.mustData("doctor")
	st = d["storage"].(map[string]any)
	if st["readable"] != false || st["error"] == "" {
		t.Fatalf("expected unreadable storage; got %#v", st)
	}

	_, _, err := c.run("doctor", "--fail")
	if !errors.Is(err, errDoctorIssues) {
		t.Fatalf("expected errDoctorIssues; got %v", err)
	}
}

func TestDoctor_Orphans(t *testing.T) {
	c := newCLIEnv(t)
	if err := os.MkdirAll(c.stateDir, 0o755); err != nil {
		t.Fatal(err)
	}
	slot := filepath.Join(c.stateDir, "atomic-checklist-state-v1.json")
	if err := os.WriteFile(slot, []byte(`{"old::key::gone":true,"`+keyAlpha+`":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	d := c.mustData("doctor")
	orphans, _ := d["orphans"].([]any)
	if len(orphans) != 1 || orphans[0] != "old::key::gone" {
		t.Fatalf("orphans = %#v", d["orphans"])
	}
}

func TestSQLiteBackend(t *testing.T) {
	c := newCLIEnv(t, "--backend", "sqlite")

	c.mustData("check", keyBinding)
	_, done, _ := overallOf(t, c.mustData("status"))
	if done != 1 {
		t.Fatalf("completed = %d, want 1", done)
	}
	if _, err := os.Stat(filepath.Join(c.stateDir, "checklist.sqlite")); err != nil {
		t.Fatalf("expected sqlite db: %v", err)
	}
}

func TestFormats(t *testing.T) {
	c := newCLIEnv(t)

	stdout, stderr, err := c.run("--format", "edn", "status")
	if err != nil {
		t.Fatalf("edn status: %v\n%s", err, stderr)
	}
	if !strings.HasPrefix(string(stdout), "{") || !strings.Contains(string(stdout), ":data {") {
		t.Fatalf("edn output = %q", stdout)
	}

	stdout, stderr, err = c.run("--format", "text", "status")
	if err != nil {
		t.Fatalf("text status: %v\n%s", err, stderr)
	}
	out := string(stdout)
	if !strings.Contains(out, "Overall 0%") || !strings.Contains(out, "Chapter 2: Decay") {
		t.Fatalf("text output:\n%s", out)
	}

	_, _, err = c.run("--format", "xml", "status")
	if err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestContentLoadFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHECKLIST_CONFIG_DIR", dir)

	_, stderr, err := runCLI(t, []string{"--content", filepath.Join(dir, "missing.json"), "--state-dir", dir, "status"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(string(stderr), "unable to load checklist content") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	c := newCLIEnv(t)
	path := filepath.Join(c.dir, "cfg", "checklist.yml")

	d := c.mustData("--config", path, "config", "init")
	if d["path"] != path {
		t.Fatalf("path = %v", d["path"])
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, _, err := c.run("--config", path, "config", "init"); err == nil {
		t.Fatalf("expected error for existing config without --force")
	}
	c.mustData("--config", path, "config", "init", "--force")
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Fatalf("expected .bak after --force: %v", err)
	}

	t.Setenv("CHECKLIST_STORAGE__BACKEND", "memory")
	shown := c.mustData("--config", path, "config", "show")
	storage := shown["storage"].(map[string]any)
	if storage["backend"] != "memory" {
		t.Fatalf("env override not applied: %#v", storage)
	}
	if storage["dir"] != c.stateDir {
		t.Fatalf("flag override not applied: %#v", storage)
	}

	_, _, err := c.run("--config", path, "--backend", "postgres", "config", "show")
	if err == nil {
		t.Fatalf("expected validation error for unknown backend")
	}
}

func TestDocs(t *testing.T) {
	t.Setenv("CHECKLIST_CONFIG_DIR", t.TempDir())

	stdout, _, err := runCLI(t, []string{"docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(string(stdout), `"topic":"keys"`) {
		t.Fatalf("docs list:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, []string{"docs", "keys", "--raw"})
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Keyboard shortcuts") {
		t.Fatalf("docs keys --raw:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
