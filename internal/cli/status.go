package cli

import (
	"atomic-checklist/internal/format"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show overall and per-chapter progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			snap := s.ctl.Snapshot()
			return writeOut(cmd, app, format.Envelope{
				Data: statusView{
					Content:    s.cfg.Content,
					Backend:    s.progress.BackendName(),
					Namespace:  s.progress.Namespace(),
					StateDir:   s.stateDir,
					Items:      len(s.ctl.Entries()),
					Collisions: len(s.ctl.Collisions()),
					Overall:    snap.Overall,
					Chapters:   snap.Chapters,
				},
				Hints: []string{"checklist items --query <text>"},
			})
		},
	}
	return cmd
}
