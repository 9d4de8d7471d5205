package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/proaptus/tanklab/internal/api"
)

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

The server exposes design management and analysis endpoints:

  GET    /healthz
  POST   /designs
  GET    /designs
  GET    /designs/{id}
  DELETE /designs/{id}
  GET    /designs/{id}/stress
  GET    /designs/{id}/reliability

The design store backend, listen address, and engine parameters come from
the configuration file and TANKLAB_* environment variables. The server
shuts down gracefully on SIGINT and SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides configuration)")

	return cmd
}

// runServe starts the server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	st, err := c.openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := c.newRunner(cfg.Engine)
	srv := api.NewServer(st, runner, c.Logger)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("server listening", "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
