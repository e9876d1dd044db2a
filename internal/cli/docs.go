package cli

import (
	"fmt"

	"atomic-checklist/internal/docs"
	"atomic-checklist/internal/format"

	"github.com/spf13/cobra"
)

type docsTopic struct {
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Markdown string `json:"markdown,omitempty"`
}

type docsList struct {
	Topics []docsTopic `json:"topics"`
}

func (l docsList) WriteText(p *format.Printer) error {
	for _, t := range l.Topics {
		p.Plain("%-10s %s", t.Topic, t.Title)
	}
	return p.Err()
}

func (t docsTopic) WriteText(p *format.Printer) error {
	p.Plain("%s", t.Markdown)
	return p.Err()
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				list := docsList{Topics: []docsTopic{}}
				for _, t := range docs.Topics() {
					list.Topics = append(list.Topics, docsTopic{Topic: t, Title: docs.Title(t)})
				}
				return writeOut(cmd, app, format.Envelope{Data: list, Hints: []string{"checklist docs <topic>"}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `checklist docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, format.Envelope{Data: docsTopic{Topic: topic, Title: docs.Title(topic), Markdown: body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	return cmd
}
