package cli

import (
	"strings"

	"atomic-checklist/internal/content"
	"atomic-checklist/internal/format"
	"atomic-checklist/internal/model"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List checklist items and their keys",
		Example: strings.TrimSpace(`
  checklist items
  checklist items --query "half-life"
  checklist items show "chapter-1-atoms::basics::nucleus"
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			q := strings.TrimSpace(query)
			vis := s.ctl.Filter(q)
			rows := []itemRow{}
			for idx, e := range s.ctl.Entries() {
				if !vis.ItemVisible(idx) {
					continue
				}
				rows = append(rows, newItemRow(s.ctl, e))
			}

			var hints []string
			if len(rows) > 0 {
				hints = append(hints, "checklist check <key>")
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  itemsView{Query: q, Items: rows},
				Meta:  map[string]any{"count": len(rows), "total": len(s.ctl.Entries())},
				Hints: hints,
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive substring filter over item text and derivations")
	cmd.AddCommand(newItemsShowCmd(app))
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-key>",
		Short: "Show one item with its derivation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			k := model.ItemKey(strings.TrimSpace(args[0]))
			e, ok := s.ctl.Entry(k)
			if !ok {
				return writeErr(cmd, errNotFound("item", string(k)))
			}

			d := itemDetail{
				itemRow:           newItemRow(s.ctl, e),
				DerivationSummary: e.Item.DerivationSummary,
				Derivation:        strings.TrimSpace(content.Markdown(e.Item.Derivation)),
				Shared:            s.ctl.Collisions()[k],
			}
			verb := "check"
			if d.Checked {
				verb = "uncheck"
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  d,
				Hints: []string{"checklist " + verb + " " + string(k)},
			})
		},
	}
}
