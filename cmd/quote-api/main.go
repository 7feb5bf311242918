// README: Entry point; loads config, wires the tariff engine and adapters, serves HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farequote/internal/config"
	httptransport "farequote/internal/http"
	"farequote/internal/infra"
	"farequote/internal/maps"
	"farequote/internal/migrations"
	"farequote/internal/modules/history"
	"farequote/internal/modules/pricing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("quote-api stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tariff, err := pricing.NewTariff(cfg.Tariff)
	if err != nil {
		return err
	}
	pricingSvc := pricing.NewService(tariff)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	planner, closeCache, err := buildPlanner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	deps := httptransport.RouterDeps{
		Pricing:     pricingSvc,
		Routes:      planner,
		Logger:      logger,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		if err := migrations.Up(dbPool); err != nil {
			return err
		}
		deps.History = history.NewService(history.NewStore(dbPool))
		logger.Info("quote history enabled")
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildPlanner prefers Google Directions, falls back to coordinates, and
// caches both through Redis when configured.
func buildPlanner(ctx context.Context, cfg config.Config, logger *slog.Logger) (maps.Planner, func(), error) {
	var chain maps.Chain
	if cfg.Maps.APIKey != "" {
		google, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, google)
	}
	chain = append(chain, maps.SyntheticPlanner{})

	if cfg.Redis.Addr == "" {
		return chain, func() {}, nil
	}
	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("route cache enabled", "ttl", cfg.Maps.CacheTTL)
	return maps.NewCachedPlanner(chain, rdb, cfg.Maps.CacheTTL, logger), func() { _ = rdb.Close() }, nil
}
