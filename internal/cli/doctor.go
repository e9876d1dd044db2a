package cli

import (
	"sort"

	"atomic-checklist/internal/content"
	"atomic-checklist/internal/format"
	"atomic-checklist/internal/model"

	"github.com/spf13/cobra"
)

type collision struct {
	Key   model.ItemKey `json:"key"`
	Items int           `json:"items"`
}

type storageHealth struct {
	Backend   string `json:"backend"`
	Namespace string `json:"namespace"`
	Exists    bool   `json:"exists"`
	Readable  bool   `json:"readable"`
	Error     string `json:"error,omitempty"`
}

type doctorReport struct {
	Issues     []content.Issue `json:"issues"`
	Collisions []collision     `json:"collisions"`
	Orphans    []model.ItemKey `json:"orphans"`
	Storage    storageHealth   `json:"storage"`
}

func (r doctorReport) HasErrors() bool {
	return len(r.Issues) > 0 || !r.Storage.Readable
}

func (r doctorReport) WriteText(p *format.Printer) error {
	if len(r.Issues) == 0 {
		p.Success("content ok")
	}
	for _, is := range r.Issues {
		p.Warn("content: chapter %d section %d item %d: %s", is.Chapter, is.Section, is.Item, is.Message)
	}
	for _, c := range r.Collisions {
		p.Warn("shared key %s (%d items)", c.Key, c.Items)
	}
	if len(r.Orphans) > 0 {
		p.Muted("%d saved keys match no item", len(r.Orphans))
	}
	if r.Storage.Readable {
		p.Success("storage ok (%s, %s)", r.Storage.Backend, r.Storage.Namespace)
	} else {
		p.Warn("storage unreadable (%s, %s): %s", r.Storage.Backend, r.Storage.Namespace, r.Storage.Error)
	}
	return p.Err()
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate content, key collisions and saved progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()
			ctx := cmd.Context()

			report := doctorReport{
				Issues:     content.Validate(s.doc),
				Collisions: []collision{},
				Orphans:    s.ctl.Orphans(),
				Storage: storageHealth{
					Backend:   s.progress.BackendName(),
					Namespace: s.progress.Namespace(),
				},
			}
			if report.Issues == nil {
				report.Issues = []content.Issue{}
			}
			if report.Orphans == nil {
				report.Orphans = []model.ItemKey{}
			}
			for k, n := range s.ctl.Collisions() {
				report.Collisions = append(report.Collisions, collision{Key: k, Items: n})
			}
			sort.Slice(report.Collisions, func(i, j int) bool { return report.Collisions[i].Key < report.Collisions[j].Key })

			report.Storage.Exists, err = s.progress.Exists(ctx)
			if err == nil {
				_, err = s.progress.LoadStrict(ctx)
			}
			report.Storage.Readable = err == nil
			if err != nil {
				report.Storage.Error = err.Error()
			}

			if err := writeOut(cmd, app, format.Envelope{
				Data: report,
				Meta: map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
				},
				Hints: []string{"checklist status"},
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return errDoctorIssues
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
