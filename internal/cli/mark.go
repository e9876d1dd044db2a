package cli

import (
	"fmt"
	"strings"

	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/format"
	"atomic-checklist/internal/model"

	"github.com/spf13/cobra"
)

// newMarkCmd builds check, uncheck and toggle; verb picks the behavior.
func newMarkCmd(app *App, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <item-key>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			ctx := cmd.Context()
			k := model.ItemKey(strings.TrimSpace(args[0]))
			var (
				checked bool
				snap    checklist.Snapshot
			)
			switch verb {
			case "check", "uncheck":
				checked = verb == "check"
				snap, err = s.ctl.SetChecked(ctx, k, checked)
			case "toggle":
				checked, snap, err = s.ctl.Toggle(ctx, k)
			default:
				err = fmt.Errorf("unknown verb: %s", verb)
			}
			if err != nil {
				return writeErr(cmd, itemErr(k, err))
			}
			if s.persist.err != nil {
				return writeErr(cmd, fmt.Errorf("progress not saved: %w", s.persist.err))
			}

			e, _ := s.ctl.Entry(k)
			res := markResult{
				Key:     k,
				Checked: checked,
				Chapter: snap.Chapters[e.Chapter],
				Overall: snap.Overall,
			}
			var hints []string
			if n := s.ctl.Collisions()[k]; n > 1 {
				hints = append(hints, fmt.Sprintf("this key is shared by %d items; all of them changed", n))
			}
			return writeOut(cmd, app, format.Envelope{Data: res, Hints: hints})
		},
	}
}
