package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

const (
	defaultPreviewAddr  = "localhost:8233"
	previewReadTimeout  = 5 * time.Second
	previewWriteTimeout = 10 * time.Second
	previewIdleTimeout  = time.Minute
	shutdownTimeout     = 5 * time.Second
)

// previewCommand creates the preview command, a read-only local server
// for inspecting generated cards in a browser.
func (c *CLI) previewCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Serve generated cards over HTTP",
		Long: `Serve a directory of generated cards over HTTP.

The index page embeds every SVG in the directory, so cards can be checked
in a browser exactly as GitHub will render them. Refreshing the page picks
up newly generated files. The server is a localhost convenience, not a
deployment target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "dist"
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runPreview(cmd.Context(), dir, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultPreviewAddr, "listen address")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, dir, addr string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w (run 'statsmith generate' first)", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(c.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/", handleIndex(dir))
	router.Get("/cards/*", handleCard(dir))

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  previewReadTimeout,
		WriteTimeout: previewWriteTimeout,
		IdleTimeout:  previewIdleTimeout,
	}

	printSuccess("Serving %s on http://%s", dir, addr)
	printDetail("Press Ctrl+C to stop")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		printNewline()
		printInfo("Server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// requestLogger attaches a request-scoped logger to the context and logs
// each request with its duration once served.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With("request_id", middleware.GetReqID(r.Context()))
			prog := newProgress(reqLogger)
			next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), reqLogger)))
			prog.done(fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		})
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>statsmith preview</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; background: #f6f8fa; margin: 2rem; }
  h1 { font-size: 1.2rem; color: #24292f; }
  main { display: flex; flex-wrap: wrap; gap: 1.5rem; }
  figure { margin: 0; }
  figcaption { font-size: 0.8rem; color: #57606a; padding-top: 0.4rem; font-family: monospace; }
  img { display: block; box-shadow: 0 1px 4px rgba(0,0,0,0.15); border-radius: 6px; }
</style>
</head>
<body>
<h1>statsmith preview</h1>
<main>
{{- range .Cards}}
<figure>
  <img src="/cards/{{.}}" alt="{{.}}">
  <figcaption>{{.}}</figcaption>
</figure>
{{- end}}
{{- if not .Cards}}
<p>No SVG files found. Run 'statsmith generate' and refresh.</p>
{{- end}}
</main>
</body>
</html>
`))

// handleIndex renders an HTML page embedding every SVG in dir. The
// directory is re-read per request so a refresh shows new cards.
func handleIndex(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := listCards(dir)
		if err != nil {
			loggerFromContext(r.Context()).Error("list cards", "error", err)
			http.Error(w, "cannot read card directory", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, struct{ Cards []string }{cards}); err != nil {
			loggerFromContext(r.Context()).Error("render index", "error", err)
		}
	}
}

// handleCard serves a single SVG from dir. Only plain filenames are
// accepted; anything with a path separator is rejected.
func handleCard(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".svg") {
			http.NotFound(w, r)
			return
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			loggerFromContext(r.Context()).Debug("card not found", "name", name)
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(data)
	}
}

// listCards returns the SVG filenames in dir, sorted.
func listCards(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var cards []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".svg") {
			cards = append(cards, entry.Name())
		}
	}
	sort.Strings(cards)
	return cards, nil
}
