package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/0x0BSoD/newsApp/internal/api"
	"github.com/0x0BSoD/newsApp/internal/connectivity"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the connectivity monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.app.cfg.HTTPAddr
			}
			return c.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *cli) serve(ctx context.Context, addr string) error {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	rep := c.app.reporter()

	monitor := connectivity.New(
		c.app.cfg.ConnectivityURL,
		c.app.cfg.ConnectivityInterval,
		connectivity.OnChange(func(from, to connectivity.State) {
			if from != connectivity.Unknown {
				rep.Notify(fmt.Sprintf("connectivity changed: %s -> %s", from, to))
			}
		}),
	)

	server := api.New(c.app.catalog, c.app.sources(),
		api.WithMonitor(monitor),
		api.WithReporter(rep),
		api.WithIdleTimeout(c.app.cfg.SessionIdleTimeout),
	)
	defer server.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := monitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to run connectivity monitor: %w", err)
		}
		log.Printf("[INFO] connectivity monitor stopped")
		return nil
	})

	g.Go(func() error {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to run session sweeper: %w", err)
		}
		log.Printf("[INFO] feed session sweeper stopped")
		return nil
	})

	g.Go(func() error {
		log.Printf("[INFO] http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to run http server: %w", err)
		}
		log.Printf("[INFO] http server stopped")
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
