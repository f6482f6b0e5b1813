package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/db"
	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/server"
)

var (
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server exposing the scoring endpoints, cache administration, /healthz and " +
		"/metrics. When a database URL is configured, results are persisted to PostgreSQL.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	var (
		database *db.DB
		extra    []hybrid.Option
	)
	if cfg.DatabaseURL != "" {
		database, err = connectDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		extra = append(extra, hybrid.WithSink(database))
	}

	e, err := newEngine(ctx, cfg, extra...)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := server.Deps{
		Aggregator: e.aggregator,
		Matcher:    e.matcher,
		Cache:      e.cache,
		Metrics:    e.metrics,
		Gatherer:   e.registry,
		Logger:     e.logger,
	}
	if database != nil {
		deps.Store = database
	} else {
		e.logger.Info("no database configured, results will not be persisted")
	}

	srv, err := server.New(cfg.Server, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	e.logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
	return srv.Start(ctx)
}

// connectDatabase opens the pool and applies the schema migrations.
func connectDatabase(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}
