package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/internal/server"
	"github.com/matzehuels/timelane/pkg/cache"
	"github.com/matzehuels/timelane/pkg/pipeline"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second

	// serveKeyScope prefixes the preview server's cache keys.
	serveKeyScope = "serve:"
)

// serveCommand creates the serve command: an HTTP server rendering charts
// from the items on every request.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags chartFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [items-file]",
		Short: "Serve live charts over HTTP",
		Long: `Serve live charts over HTTP.

Items are reloaded on every request, so edits to the item file show up on
the next refresh. Query parameters override chart flags:

  /chart.svg?start=2024-03-01&end=2024-03-31&unit=day
  /chart.json?viewport=400&scroll=0.5
  /chart.txt?columns=120&color=true
  /layout.json
  /items`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), args, opts, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

// runServe serves until ctx is cancelled, then drains open requests.
func (c *CLI) runServe(ctx context.Context, args []string, opts pipeline.Options, addr string) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	src, err := newSource(ctx, args, opts)
	if err != nil {
		return err
	}
	defer closeSource(context.Background(), src)

	// Preview renders get their own key namespace.
	runner, err := c.newRunner(ctx, opts.Cache, cache.NewScopedKeyer(nil, serveKeyScope))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           server.New(runner, src, opts, c.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	printSuccess("Serving %s", src.Ref())
	printKeyValue("Chart", fmt.Sprintf("http://%s/chart.svg", ln.Addr()))
	printKeyValue("Layout", fmt.Sprintf("http://%s/layout.json", ln.Addr()))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
