package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/content"
	"atomic-checklist/internal/model"
	"atomic-checklist/internal/progress"

	"github.com/go-chi/chi/v5"
)

type pageVM struct {
	Title    string
	CSS      template.CSS
	Query    string
	Matches  int
	Empty    bool
	Overall  progress.Progress
	Chapters []chapterVM
}

type chapterVM struct {
	Title    string
	Slug     string
	Summary  template.HTML
	Progress progress.Progress
	Sections []sectionVM
}

type sectionVM struct {
	Title string
	Items []itemVM
}

type itemVM struct {
	Key               string
	Anchor            string
	Label             string
	Body              string
	Checked           bool
	DerivationSummary string
	Derivation        []derivVM
}

type derivVM struct {
	Kind  string
	Text  string
	Items []string
}

type progressResponse struct {
	Overall  progress.Progress           `json:"overall"`
	Chapters []checklist.ChapterProgress `json:"chapters"`
	Checked  []model.ItemKey             `json:"checked"`
}

type setItemRequest struct {
	Checked *bool `json:"checked"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	s.mu.Lock()
	vm := s.buildPage(q)
	s.mu.Unlock()

	s.renderHTML(w, s.page, vm)
}

// buildPage projects controller state; callers hold s.mu.
func (s *Server) buildPage(query string) pageVM {
	snap := s.ctl.Snapshot()
	vis := s.ctl.Filter(query)
	doc := s.ctl.Document()

	vm := pageVM{
		Title:   s.cfg.Title,
		CSS:     template.CSS(baseCSS),
		Query:   query,
		Matches: vis.Matches(),
		Empty:   vis.Active() && vis.VisibleChapters() == 0,
		Overall: snap.Overall,
	}

	entries := s.ctl.Entries()
	pos := 0
	for ci, ch := range doc.Chapters {
		cvm := chapterVM{
			Title:    ch.Title,
			Slug:     s.ctl.ChapterSlug(ci),
			Summary:  s.summaries[ci],
			Progress: snap.Chapters[ci].Progress,
		}
		for si, sec := range ch.Sections {
			svm := sectionVM{Title: sec.Title}
			for range sec.Items {
				idx := pos
				pos++
				if !vis.ItemVisible(idx) {
					continue
				}
				svm.Items = append(svm.Items, s.itemView(entries[idx]))
			}
			if vis.SectionVisible(ci, si) {
				cvm.Sections = append(cvm.Sections, svm)
			}
		}
		if vis.ChapterVisible(ci) {
			vm.Chapters = append(vm.Chapters, cvm)
		}
	}
	return vm
}

func (s *Server) itemView(e checklist.Entry) itemVM {
	it := e.Item
	label, body := content.Parts(it)
	vm := itemVM{
		Key:               string(e.Key),
		Anchor:            anchorFor(e.Key),
		Label:             label,
		Body:              body,
		Checked:           s.ctl.Checked(e.Key),
		DerivationSummary: it.DerivationSummary,
	}
	for _, d := range it.Derivation {
		switch v := d.(type) {
		case model.DerivHeading:
			vm.Derivation = append(vm.Derivation, derivVM{Kind: "heading", Text: v.Text})
		case model.DerivEquation:
			tex := content.InlineMath(v.Tex)
			if v.Display {
				tex = content.DisplayMath(v.Tex)
			}
			vm.Derivation = append(vm.Derivation, derivVM{Kind: "equation", Text: tex})
		case model.DerivList:
			vm.Derivation = append(vm.Derivation, derivVM{Kind: "list", Items: v.Items})
		case model.DerivText:
			vm.Derivation = append(vm.Derivation, derivVM{Kind: "text", Text: v.Text})
		}
	}
	return vm
}

func (s *Server) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	k := model.ItemKey(strings.TrimSpace(r.PostFormValue("key")))
	checked, err := strconv.ParseBool(strings.TrimSpace(r.PostFormValue("checked")))
	if err != nil {
		http.Error(w, "checked must be true or false", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, err = s.ctl.SetChecked(r.Context(), k, checked)
	s.mu.Unlock()

	if errors.Is(err, checklist.ErrUnknownItem) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	target := "/"
	if q := strings.TrimSpace(r.PostFormValue("q")); q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	http.Redirect(w, r, target+"#"+anchorFor(k), http.StatusSeeOther)
}

// anchorFor turns a key into an HTML id. Colliding keys share an anchor.
func anchorFor(k model.ItemKey) string {
	return "item-" + strings.ReplaceAll(string(k), "::", "--")
}

func (s *Server) handleResetGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	vm := pageVM{Title: s.cfg.Title, CSS: template.CSS(baseCSS), Overall: s.ctl.Overall()}
	s.mu.Unlock()
	s.renderHTML(w, s.reset, vm)
}

func (s *Server) handleResetPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.PostFormValue("confirm") != "yes" {
		http.Error(w, "reset requires confirm=yes", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.ctl.ResetAll(r.Context())
	s.mu.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	now := s.cfg.Now()
	s.mu.Lock()
	report := s.ctl.Export(now)
	s.mu.Unlock()

	b, err := report.JSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+checklist.ReportFileName(now)+`"`)
	_, _ = w.Write(b)
}

func (s *Server) handleAPIProgress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.progressResponse(s.ctl.Snapshot())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) progressResponse(snap checklist.Snapshot) progressResponse {
	checked := s.ctl.State().Keys()
	if checked == nil {
		checked = []model.ItemKey{}
	}
	return progressResponse{Overall: snap.Overall, Chapters: snap.Chapters, Checked: checked}
}

func (s *Server) handleAPISetItem(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "key")
	k, err := url.PathUnescape(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid key")
		return
	}
	var req setItemRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil || req.Checked == nil {
		writeJSONError(w, http.StatusBadRequest, `body must be {"checked": true|false}`)
		return
	}

	s.mu.Lock()
	snap, err := s.ctl.SetChecked(r.Context(), model.ItemKey(k), *req.Checked)
	var resp progressResponse
	if err == nil {
		resp = s.progressResponse(snap)
	}
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, checklist.ErrUnknownItem) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.progressResponse(s.ctl.ResetAll(r.Context()))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := s.ctl.Export(s.cfg.Now())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) renderHTML(w http.ResponseWriter, t *template.Template, vm any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, vm); err != nil {
		s.log.Error("template render failed", "template", t.Name(), "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
