// Package checklist owns the progress state of a loaded document and keeps
// persistence and derived progress consistent with it.
//
// The Controller is the single source of truth: renderers project its state
// and call back into it on user input. It is not safe for concurrent use;
// callers serialize access (the TUI update loop does so naturally, the web
// server holds a mutex).
package checklist

import (
	"context"
	"errors"
	"fmt"
	"io"

	"atomic-checklist/internal/content"
	"atomic-checklist/internal/itemkey"
	"atomic-checklist/internal/model"

	"github.com/charmbracelet/log"
)

// ErrUnknownItem is returned when a key does not belong to any item of the document.
var ErrUnknownItem = errors.New("unknown checklist item")

// Persister is the durable side of the progress state.
type Persister interface {
	Load(ctx context.Context) model.ProgressState
	Save(ctx context.Context, st model.ProgressState)
	Clear(ctx context.Context)
}

// Entry is one rendered item with its position and derived key.
type Entry struct {
	Chapter int
	Section int
	Index   int
	Key     model.ItemKey
	Item    model.Item

	searchText string
}

// Controller is the interaction controller for one document.
type Controller struct {
	doc   *model.Document
	store Persister
	log   *log.Logger

	state model.ProgressState

	entries []Entry
	// byChapter[c] lists entry indexes belonging to chapter c.
	byChapter [][]int
	byKey     map[model.ItemKey][]int
	slugs     []string
}

// New builds the entry index and loads the persisted state once.
func New(ctx context.Context, doc *model.Document, store Persister, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if doc == nil {
		doc = &model.Document{}
	}
	c := &Controller{
		doc:       doc,
		store:     store,
		log:       logger,
		byChapter: make([][]int, len(doc.Chapters)),
		byKey:     map[model.ItemKey][]int{},
		slugs:     make([]string, len(doc.Chapters)),
	}

	for ci, ch := range doc.Chapters {
		c.slugs[ci] = itemkey.Normalize(ch.Title)
		for si, sec := range ch.Sections {
			for ii, it := range sec.Items {
				e := Entry{
					Chapter:    ci,
					Section:    si,
					Index:      ii,
					Key:        itemkey.ForItem(ch.Title, sec.Title, it),
					Item:       it,
					searchText: content.SearchText(it),
				}
				idx := len(c.entries)
				c.entries = append(c.entries, e)
				c.byChapter[ci] = append(c.byChapter[ci], idx)
				c.byKey[e.Key] = append(c.byKey[e.Key], idx)
			}
		}
	}

	if n := len(c.Collisions()); n > 0 {
		c.log.Warn("checklist items share keys; they will share completion state", "keys", n)
	}

	c.state = model.NewProgressState()
	if store != nil {
		if st := store.Load(ctx); st != nil {
			c.state = st
		}
	}
	return c
}

func (c *Controller) Document() *model.Document { return c.doc }

// Entries returns every item in document order.
func (c *Controller) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// ChapterEntries returns the items of chapter ci in document order.
func (c *Controller) ChapterEntries(ci int) []Entry {
	if ci < 0 || ci >= len(c.byChapter) {
		return nil
	}
	out := make([]Entry, 0, len(c.byChapter[ci]))
	for _, idx := range c.byChapter[ci] {
		out = append(out, c.entries[idx])
	}
	return out
}

// Entry returns the first item with key k.
func (c *Controller) Entry(k model.ItemKey) (Entry, bool) {
	idxs := c.byKey[k]
	if len(idxs) == 0 {
		return Entry{}, false
	}
	return c.entries[idxs[0]], true
}

// Has reports whether k belongs to the document.
func (c *Controller) Has(k model.ItemKey) bool {
	return len(c.byKey[k]) > 0
}

// Checked reports the current state of k.
func (c *Controller) Checked(k model.ItemKey) bool {
	return c.state.Completed(k)
}

// State returns a copy of the current progress state.
func (c *Controller) State() model.ProgressState {
	return c.state.Clone()
}

// ChapterSlug is the normalized chapter title used in keys and exports.
func (c *Controller) ChapterSlug(ci int) string {
	if ci < 0 || ci >= len(c.slugs) {
		return ""
	}
	return c.slugs[ci]
}

// SetChecked applies toggleOn/toggleOff for k, persists the full state and
// returns the recomputed progress. A failed save does not roll back.
func (c *Controller) SetChecked(ctx context.Context, k model.ItemKey, checked bool) (Snapshot, error) {
	if !c.Has(k) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownItem, k)
	}
	c.state.Set(k, checked)
	if c.store != nil {
		c.store.Save(ctx, c.state)
	}
	c.log.Debug("item toggled", "key", k, "checked", checked)
	return c.Snapshot(), nil
}

// Toggle flips the state of k and returns the new checked value.
func (c *Controller) Toggle(ctx context.Context, k model.ItemKey) (bool, Snapshot, error) {
	next := !c.Checked(k)
	snap, err := c.SetChecked(ctx, k, next)
	if err != nil {
		return false, Snapshot{}, err
	}
	return next, snap, nil
}

// ResetAll unchecks every item and clears durable storage. Confirmation is the
// caller's job. Calling it repeatedly is harmless.
func (c *Controller) ResetAll(ctx context.Context) Snapshot {
	c.state.Clear()
	if c.store != nil {
		c.store.Clear(ctx)
	}
	c.log.Info("checklist progress reset")
	return c.Snapshot()
}

// Collisions returns keys shared by more than one item, with their item counts.
func (c *Controller) Collisions() map[model.ItemKey]int {
	out := map[model.ItemKey]int{}
	for k, idxs := range c.byKey {
		if len(idxs) > 1 {
			out[k] = len(idxs)
		}
	}
	return out
}

// Orphans returns persisted keys that match no item of the document.
func (c *Controller) Orphans() []model.ItemKey {
	var out []model.ItemKey
	for _, k := range c.state.Keys() {
		if !c.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
