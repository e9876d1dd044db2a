package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"atomic-checklist/internal/format"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Uncheck every item and clear saved progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if !yes {
				overall := s.ctl.Overall()
				label := fmt.Sprintf("Reset all progress (%d of %d complete)", overall.Completed, overall.Total)
				if err := confirm(cmd, label); err != nil {
					return writeErr(cmd, err)
				}
			}

			snap := s.ctl.ResetAll(cmd.Context())
			if s.persist.err != nil {
				return writeErr(cmd, fmt.Errorf("saved progress not cleared: %w", s.persist.err))
			}
			return writeOut(cmd, app, format.Envelope{
				Data: statusView{
					Content:   s.cfg.Content,
					Backend:   s.progress.BackendName(),
					Namespace: s.progress.Namespace(),
					StateDir:  s.stateDir,
					Items:     len(s.ctl.Entries()),
					Overall:   snap.Overall,
					Chapters:  snap.Chapters,
				},
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the command's terminal. Non-terminal
// input never counts as consent.
func confirm(cmd *cobra.Command, label string) error {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isatty.IsTerminal(in.Fd()) {
		return errNeedsConfirm
	}
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     in,
		Stdout:    nopWriteCloser{cmd.ErrOrStderr()},
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return errResetDeclined
		}
		return fmt.Errorf("confirm: %w", err)
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
