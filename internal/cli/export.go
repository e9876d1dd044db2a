package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/format"

	"github.com/spf13/cobra"
)

// now is swapped in tests.
var now = time.Now

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a progress report",
		Long: strings.TrimSpace(`
Export a progress report as JSON: {date, overall, chapters[{title, progress, completed, total}]}.

Without --out the report is written to stdout inside the usual envelope.
With --out pointing at a directory, the file is named atomic-checklist-progress-YYYY-MM-DD.json.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t := now()
			report := s.ctl.Export(t)
			res := exportResult{Report: report}

			if dest := strings.TrimSpace(out); dest != "" {
				path, err := writeReport(dest, report, t)
				if err != nil {
					return writeErr(cmd, err)
				}
				res.Path = path
			}
			return writeOut(cmd, app, format.Envelope{Data: res})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to this file or directory")
	return cmd
}

func writeReport(dest string, r checklist.Report, t time.Time) (string, error) {
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, checklist.ReportFileName(t))
	}
	b, err := r.JSON()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, b, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return dest, nil
}
