package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	api "github.com/evalworks/evalboard/internal/api/http"
	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/config"
	"github.com/evalworks/evalboard/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Dev)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(ctx, cfg.CatalogDir, logger)
	if err != nil {
		logger.Fatal("catalog load failed", zap.Error(err))
	}
	store := catalog.NewStore(cat)

	sessions := session.NewMemoryStore(cfg.SessionTTL, cfg.SweepEvery)
	defer sessions.Close()

	if cfg.Watch {
		w, err := catalog.NewWatcher(cfg.CatalogDir, store, logger)
		if err != nil {
			logger.Warn("catalog watcher unavailable", zap.Error(err))
		} else {
			w.Start(ctx)
			defer w.Stop()
		}
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Options{
			Catalog:     store,
			Sessions:    sessions,
			Logger:      logger,
			CORSOrigins: cfg.CORSOrigins,
			ReportTitle: cfg.ReportTitle,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("questions", cfg.CatalogDir),
			zap.Int("questionnaires", len(cat)))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shut down cleanly")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
