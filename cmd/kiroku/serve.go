// Serve command: runs the webhook HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/internal/compose"
	"github.com/okonomi-dev/kiroku/internal/destination"
	"github.com/okonomi-dev/kiroku/internal/kv"
	"github.com/okonomi-dev/kiroku/internal/line"
	"github.com/okonomi-dev/kiroku/internal/notion"
	"github.com/okonomi-dev/kiroku/internal/preview"
	"github.com/okonomi-dev/kiroku/internal/webhook"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := kv.OpenSQLite(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	svc := notion.NewClient(notionBaseURL(), cfg.NotionAPIKey, logger)
	replier := line.NewClient(lineBaseURL(), cfg.LineChannelToken, logger)
	resolver := destination.New(svc, store, cfg.Destinations, logger)
	handler := webhook.New(resolver, svc, compose.New(logger), preview.New(store), replier, store, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("listening", zap.String("addr", cfg.Addr))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func notionBaseURL() string {
	if cfg.NotionBaseURL != "" {
		return cfg.NotionBaseURL
	}
	return notion.DefaultBaseURL
}

func lineBaseURL() string {
	if cfg.LineBaseURL != "" {
		return cfg.LineBaseURL
	}
	return line.DefaultBaseURL
}
