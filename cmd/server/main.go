package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"forecourt/internal/platform/config"
	"forecourt/internal/platform/httpserver"
	"forecourt/internal/platform/logger"
	"forecourt/internal/platform/metrics"
	platformredis "forecourt/internal/platform/redis"
	"forecourt/internal/provider"
	"forecourt/internal/retailcheck"
	"forecourt/internal/retailcheck/resultstore"
	"forecourt/internal/storecfg"
	httptransport "forecourt/internal/transport/http"
	"forecourt/internal/trend"
	"forecourt/pkg/platform/circuit"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.ParseLevel("info")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	m := metrics.New(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	breaker := circuit.New("vehicle-data",
		circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
		circuit.WithResetTimeout(cfg.Breaker.ResetTimeout),
		circuit.WithCallTimeout(cfg.Breaker.CallTimeout),
		circuit.WithStateChangeHook(func(name string, _, to circuit.State) {
			m.IncCircuitTransition(name, to.String())
			log.Warn("circuit state changed", "breaker", name, "state", to.String())
		}),
	)

	client := provider.NewClient(cfg.Provider.BaseURL,
		provider.WithLogger(log),
		provider.WithMetrics(m),
	)

	entries := make([]storecfg.StoreConfig, 0, len(cfg.Stores))
	for _, s := range cfg.Stores {
		entries = append(entries, storecfg.StoreConfig{
			OperatorID:   s.OperatorID,
			AdvertiserID: s.AdvertiserID,
		})
	}
	stores := storecfg.NewMemorySource(entries...)

	opts := []retailcheck.Option{
		retailcheck.WithLogger(log),
		retailcheck.WithMetrics(m),
		retailcheck.WithTTLs(retailcheck.TTLs{
			AuthToken:     cfg.TTL.AuthToken,
			StoreConfig:   cfg.TTL.StoreConfig,
			Results:       cfg.TTL.Results,
			Trend:         cfg.TTL.Trend,
			TrendFallback: cfg.TTL.TrendFallback,
		}),
	}
	if redisClient != nil {
		opts = append(opts, retailcheck.WithResultStore(resultstore.NewRedis(redisClient.Client)))
	}

	service := retailcheck.New(client, stores, trend.New(), breaker,
		cfg.Provider.Key, cfg.Provider.Secret, opts...)

	var pinger httptransport.Pinger
	if redisClient != nil {
		pinger = redisClient
	}
	handler := httptransport.New(service, log, pinger)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	log.Info("starting forecourt", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
