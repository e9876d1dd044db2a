package cli

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"atomic-checklist/internal/format"
	"atomic-checklist/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the checklist as a local web page",
		Long: strings.TrimSpace(`
Serve the checklist from a local HTTP server.

The page is server-rendered HTML with forms (MathJax typesets equations when
the browser can reach its CDN). A small JSON API lives under /api.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (default 127.0.0.1:8787)
checklist web

# Serve on another port with a SQLite backend
checklist --backend sqlite web --addr 127.0.0.1:9000
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = s.cfg.Web.Addr
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			srv, err := web.New(web.Config{
				Addr:            listenAddr,
				AllowAllOrigins: s.cfg.Web.AllowAllOrigins,
				Logger:          s.log,
			}, s.ctl)
			if err != nil {
				return writeErr(cmd, err)
			}

			url := "http://" + listenAddr + "/"
			_ = writeOut(cmd, app, format.Envelope{
				Data:  map[string]any{"addr": srv.Addr(), "url": url},
				Hints: []string{"open " + url, "Ctrl+C to stop"},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ListenAndServe(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: web.addr from config)")
	return cmd
}
