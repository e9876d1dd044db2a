package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"atomic-checklist/internal/itemkey"
	"atomic-checklist/internal/model"
	"atomic-checklist/internal/store"
)

func textItem(s string) model.Item {
	return model.Item{Content: model.Prose{Text: s}}
}

func oneChapterDoc(items ...model.Item) *model.Document {
	return &model.Document{Chapters: []model.Chapter{{
		Title:   "Chapter One",
		Summary: "s",
		Sections: []model.Section{{
			Title: "Basics",
			Items: items,
		}},
	}}}
}

func newTestController(t *testing.T, doc *model.Document) (*Controller, *store.MemoryBackend, *store.Progress) {
	t.Helper()
	mb := store.NewMemoryBackend()
	p := store.NewProgress(mb, store.DefaultNamespace, nil)
	return New(context.Background(), doc, p, nil), mb, p
}

func TestScenario_CheckUncheck_OverallProgress(t *testing.T) {
	ctx := context.Background()
	c, _, p := newTestController(t, oneChapterDoc(textItem("first"), textItem("second")))

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	k1, k2 := entries[0].Key, entries[1].Key

	snap, err := c.SetChecked(ctx, k1, true)
	if err != nil {
		t.Fatalf("check item 1: %v", err)
	}
	if got := snap.Overall.PercentLabel(); got != "50%" {
		t.Fatalf("after checking item 1 expected 50%%, got %s", got)
	}

	snap, _ = c.SetChecked(ctx, k2, true)
	if got := snap.Overall.PercentLabel(); got != "100%" {
		t.Fatalf("after checking item 2 expected 100%%, got %s", got)
	}

	snap, _ = c.SetChecked(ctx, k1, false)
	if got := snap.Overall.PercentLabel(); got != "50%" {
		t.Fatalf("after unchecking item 1 expected 50%%, got %s", got)
	}

	// Durable copy converges after every save.
	persisted := p.Load(ctx)
	if !reflect.DeepEqual(persisted, model.ProgressState{k2: true}) {
		t.Fatalf("persisted state mismatch: %#v", persisted)
	}
}

func TestScenario_PreloadedStatePrechecksItem(t *testing.T) {
	ctx := context.Background()
	doc := oneChapterDoc(textItem("first"), textItem("second"))
	k2 := itemkey.Derive("Chapter One", "Basics", "second")

	mb := store.NewMemoryBackend()
	p := store.NewProgress(mb, store.DefaultNamespace, nil)
	p.Save(ctx, model.ProgressState{k2: true})

	c := New(ctx, doc, p, nil)
	if !c.Checked(k2) {
		t.Fatalf("expected item 2 to render pre-checked")
	}
	if c.Checked(c.Entries()[0].Key) {
		t.Fatalf("expected item 1 unchecked")
	}
	if got := c.ChapterProgress(0).CountLabel(); got != "1 of 2 complete" {
		t.Fatalf("chapter progress = %q", got)
	}
}

func TestScenario_ResetAll(t *testing.T) {
	ctx := context.Background()
	c, mb, _ := newTestController(t, oneChapterDoc(textItem("a"), textItem("b"), textItem("c")))

	for _, e := range c.Entries() {
		if _, err := c.SetChecked(ctx, e.Key, true); err != nil {
			t.Fatalf("check %s: %v", e.Key, err)
		}
	}
	if c.Overall().Percent != 100 {
		t.Fatalf("expected 100%% before reset")
	}

	snap := c.ResetAll(ctx)
	for _, e := range c.Entries() {
		if c.Checked(e.Key) {
			t.Fatalf("expected %s unchecked after reset", e.Key)
		}
	}
	if snap.Overall.Percent != 0 || snap.Chapters[0].Percent != 0 {
		t.Fatalf("expected 0%% after reset, got %+v", snap)
	}
	if mb.Has(store.DefaultNamespace) {
		t.Fatalf("expected durable slot to be absent after reset")
	}

	// Idempotent.
	again := c.ResetAll(ctx)
	if !reflect.DeepEqual(snap, again) || len(c.State()) != 0 {
		t.Fatalf("second reset changed state: %+v vs %+v", snap, again)
	}
}

func TestScenario_SearchHidesAndRestores(t *testing.T) {
	c, _, _ := newTestController(t, &model.Document{Chapters: []model.Chapter{
		{Title: "A", Sections: []model.Section{{Title: "S1", Items: []model.Item{textItem("alpha")}}}},
		{Title: "B", Sections: []model.Section{{Title: "S2", Items: []model.Item{textItem("bravo")}}}},
	}})

	v := c.Filter("zzz-no-match")
	if v.VisibleChapters() != 0 || v.Matches() != 0 {
		t.Fatalf("expected all chapters hidden, got chapters=%d matches=%d", v.VisibleChapters(), v.Matches())
	}

	v = c.Filter("")
	if v.VisibleChapters() != 2 || v.Matches() != 2 {
		t.Fatalf("expected everything visible after clearing, got chapters=%d matches=%d", v.VisibleChapters(), v.Matches())
	}
	if v.Active() {
		t.Fatalf("blank query should not be active")
	}
}

func TestFilter_PropagatesUpward(t *testing.T) {
	c, _, _ := newTestController(t, &model.Document{Chapters: []model.Chapter{
		{Title: "A", Sections: []model.Section{
			{Title: "S1", Items: []model.Item{textItem("Alpha particle"), textItem("beta")}},
			{Title: "S2", Items: []model.Item{textItem("gamma")}},
		}},
		{Title: "B", Sections: []model.Section{{Title: "S3", Items: []model.Item{textItem("delta")}}}},
	}})

	v := c.Filter("  ALPHA ")
	if !v.ItemVisible(0) || v.ItemVisible(1) || v.ItemVisible(2) || v.ItemVisible(3) {
		t.Fatalf("unexpected item visibility")
	}
	if !v.SectionVisible(0, 0) || v.SectionVisible(0, 1) || v.SectionVisible(1, 0) {
		t.Fatalf("unexpected section visibility")
	}
	if !v.ChapterVisible(0) || v.ChapterVisible(1) {
		t.Fatalf("unexpected chapter visibility")
	}
}

func TestFilter_MatchesDerivationText(t *testing.T) {
	it := textItem("item")
	it.Derivation = []model.DerivationEntry{model.DerivText{Text: "Coulomb balance"}}
	c, _, _ := newTestController(t, oneChapterDoc(it, textItem("other")))

	v := c.Filter("coulomb")
	if v.Matches() != 1 || !v.ItemVisible(0) {
		t.Fatalf("expected derivation text to match")
	}
}

func TestSetChecked_UnknownKey(t *testing.T) {
	c, mb, _ := newTestController(t, oneChapterDoc(textItem("a")))

	_, err := c.SetChecked(context.Background(), "nope::nope::nope", true)
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if len(c.State()) != 0 || mb.Has(store.DefaultNamespace) {
		t.Fatalf("unknown key must not change state")
	}
}

func TestSaveFailureDoesNotRollBack(t *testing.T) {
	c, mb, _ := newTestController(t, oneChapterDoc(textItem("a"), textItem("b")))
	mb.WriteErr = errors.New("storage disabled")

	k := c.Entries()[0].Key
	checked, snap, err := c.Toggle(context.Background(), k)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !checked || !c.Checked(k) || snap.Overall.Percent != 50 {
		t.Fatalf("expected optimistic state to stick; checked=%v snap=%+v", checked, snap)
	}
}

func TestEmptyChapterReportsZero(t *testing.T) {
	c, _, _ := newTestController(t, &model.Document{Chapters: []model.Chapter{
		{Title: "Empty"},
		{Title: "Full", Sections: []model.Section{{Title: "S", Items: []model.Item{textItem("x")}}}},
	}})

	snap := c.Snapshot()
	if snap.Chapters[0].Percent != 0 || snap.Chapters[0].Total != 0 {
		t.Fatalf("empty chapter: %+v", snap.Chapters[0])
	}
	if snap.Overall.Total != 1 {
		t.Fatalf("overall total = %d", snap.Overall.Total)
	}
}

func TestCollisionsShareState(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, oneChapterDoc(textItem("Mass & Energy"), textItem("mass energy"), textItem("other")))

	col := c.Collisions()
	if len(col) != 1 {
		t.Fatalf("expected one colliding key, got %v", col)
	}
	k := c.Entries()[0].Key
	if col[k] != 2 {
		t.Fatalf("expected 2 items on %s, got %d", k, col[k])
	}

	snap, _ := c.SetChecked(ctx, k, true)
	if snap.Overall.Completed != 2 {
		t.Fatalf("colliding items should complete together, got %+v", snap.Overall)
	}
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	doc := oneChapterDoc(textItem("a"))
	mb := store.NewMemoryBackend()
	p := store.NewProgress(mb, "", nil)
	p.Save(ctx, model.ProgressState{"old::gone::item": true})

	c := New(ctx, doc, p, nil)
	if got := c.Orphans(); len(got) != 1 || got[0] != "old::gone::item" {
		t.Fatalf("Orphans=%v", got)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestController(t, &model.Document{Chapters: []model.Chapter{
		{Title: "Chapter 1: Atoms", Sections: []model.Section{{Title: "S", Items: []model.Item{textItem("a"), textItem("b"), textItem("c")}}}},
		{Title: "Appendix"},
	}})
	_, _ = c.SetChecked(ctx, c.Entries()[0].Key, true)

	now := time.Date(2024, 3, 5, 6, 7, 8, 9_000_000, time.FixedZone("X", 3600))
	r := c.Export(now)
	if r.Date != "2024-03-05T05:07:08.009Z" {
		t.Fatalf("Date=%q", r.Date)
	}
	if r.Overall != 33 {
		t.Fatalf("Overall=%d", r.Overall)
	}
	want := []ReportChapter{
		{Title: "chapter-1-atoms", Progress: 33, Completed: 1, Total: 3},
		{Title: "appendix", Progress: 0, Completed: 0, Total: 0},
	}
	if !reflect.DeepEqual(want, r.Chapters) {
		t.Fatalf("chapters mismatch:\nwant %#v\ngot  %#v", want, r.Chapters)
	}

	b, err := r.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"date", "overall", "chapters"} {
		if _, ok := back[k]; !ok {
			t.Fatalf("missing %q in export: %s", k, string(b))
		}
	}
	if !strings.Contains(string(b), "\n  \"overall\": 33") {
		t.Fatalf("expected indented output, got %s", string(b))
	}

	if got := ReportFileName(now); got != "atomic-checklist-progress-2024-03-05.json" {
		t.Fatalf("ReportFileName=%q", got)
	}
}
