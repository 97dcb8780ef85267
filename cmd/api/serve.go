package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pet-household/internal/adapters/storage/memory"
	"pet-household/internal/adapters/storage/sqldb"
	"pet-household/internal/config"
	"pet-household/internal/platform/logger"
	"pet-household/internal/platform/metrics"
	"pet-household/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  c.runServe,
	}

	cmd.Flags().String("address", "", "Address to listen on (default :8080)")
	cmd.Flags().Bool("auto-migrate", true, "Apply pending migrations before serving")
	c.bind("http.address", cmd.Flags().Lookup("address"))
	c.bind("db.auto_migrate", cmd.Flags().Lookup("auto-migrate"))
	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := c.load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store, closeStore, err := openStore(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr: cfg.HTTP.Address,
		Handler: router.NewRouter(router.Options{
			Store:          store,
			Logger:         log,
			Metrics:        m,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{
			"addr":   cfg.HTTP.Address,
			"driver": cfg.DB.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down server", nil)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", map[string]any{"error": err})
		return err
	}
	log.Info("server stopped", nil)
	return nil
}

// openStore picks the backend from cfg. For SQL it connects and, if
// enabled, applies pending migrations.
func openStore(ctx context.Context, cfg config.Config, log logger.Logger, m *metrics.Metrics) (router.Store, func(), error) {
	if cfg.DB.InMemory() {
		log.Warn("using in-memory store, data is lost on restart", nil)
		return memory.NewStore(), func() {}, nil
	}

	db, err := openDB(ctx, cfg, log, m)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = db.Close() }

	if cfg.DB.AutoMigrate {
		if err := db.MigrateUp(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	return sqldb.NewStore(db), closeDB, nil
}
