// Package serve runs the HTTP API.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/contentiq/contentiq/internal/app"
	"github.com/contentiq/contentiq/internal/server"
)

const shutdownGrace = 10 * time.Second

// ServeAction starts the API server and blocks until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	a, err := app.Build(c.String("config"), c.Bool("quiet"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer a.Close()

	addr := a.Config.ListenAddr
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	srv := server.New(a.Config, a.Logger, a.Fetcher, a.Extractor, a.AI, a.Cache)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", "addr", addr, "ai_enabled", a.AI != nil)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("server failed", "error", err)
			return cli.Exit(err.Error(), 1)
		}
	case sig := <-stop:
		a.Logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			a.Logger.Error("shutdown failed", "error", err)
			return cli.Exit(err.Error(), 1)
		}
	}

	return nil
}
