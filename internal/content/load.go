// Package content loads the checklist document and turns its items into text.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"atomic-checklist/internal/model"
)

// DefaultSource is the content file name used when nothing is configured.
const DefaultSource = "nm_data.json"

// maxDocumentBytes bounds how much of a remote document is read.
const maxDocumentBytes = 32 << 20

// LoadError is fatal for the caller: nothing should be rendered without content.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load checklist content from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fetches content documents. The zero value uses http.DefaultClient and os.Stdin.
type Loader struct {
	Client *http.Client
	Stdin  io.Reader
}

// Load reads a document from a file path, "-" (stdin) or an http(s) URL.
func Load(ctx context.Context, source string) (*model.Document, error) {
	return Loader{}.Load(ctx, source)
}

func (l Loader) Load(ctx context.Context, source string) (*model.Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = DefaultSource
	}

	var (
		b   []byte
		err error
	)
	switch {
	case source == "-":
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		b, err = io.ReadAll(in)
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		b, err = l.fetch(ctx, source)
	default:
		b, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	doc, err := Parse(b)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return doc, nil
}

func (l Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected response %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

// Parse decodes the content JSON: an array of chapters.
func Parse(b []byte) (*model.Document, error) {
	var chapters []model.Chapter
	if err := json.Unmarshal(b, &chapters); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if chapters == nil {
		return nil, errors.New("parse content: expected an array of chapters")
	}
	return &model.Document{Chapters: chapters}, nil
}

// Issue is a non-fatal content problem reported by Validate.
type Issue struct {
	Chapter int    `json:"chapter"`
	Section int    `json:"section"`
	Item    int    `json:"item"`
	Message string `json:"message"`
}

// Validate reports empty titles and items with no identifying text.
func Validate(doc *model.Document) []Issue {
	var out []Issue
	for ci, ch := range doc.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			out = append(out, Issue{Chapter: ci, Section: -1, Item: -1, Message: "chapter has no title"})
		}
		if len(ch.Sections) == 0 {
			out = append(out, Issue{Chapter: ci, Section: -1, Item: -1, Message: "chapter has no sections"})
		}
		for si, sec := range ch.Sections {
			if strings.TrimSpace(sec.Title) == "" {
				out = append(out, Issue{Chapter: ci, Section: si, Item: -1, Message: "section has no title"})
			}
			for ii, it := range sec.Items {
				if strings.TrimSpace(ItemText(it)) == "" {
					out = append(out, Issue{Chapter: ci, Section: si, Item: ii, Message: "item has no text"})
				}
			}
		}
	}
	return out
}
