package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/reload/os2display-middleware/internal/config"
	"github.com/reload/os2display-middleware/internal/dispatch"
	"github.com/reload/os2display-middleware/internal/logging"
	"github.com/reload/os2display-middleware/internal/redis"
	"github.com/reload/os2display-middleware/internal/server"
	"github.com/reload/os2display-middleware/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

// setupStore selects the entity store: redis when REDIS_URL is configured,
// otherwise the in-memory single-instance store.
func setupStore(cfg *config.Config, clock clockwork.Clock) (store.Store, func()) {
	if cfg.RedisURL == "" {
		slog.Info("No REDIS_URL configured, using in-memory store")
		return store.NewInMemoryStore(clock), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := setupRedis(ctx, cfg)
	return redis.NewStore(client), func() { _ = client.Close() }
}

func runGracefulShutdown(srv *server.Server, dispatcher *dispatch.Dispatcher) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		dispatcher.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	st, closeStore := setupStore(cfg, clock)
	defer closeStore()

	dispatcher := dispatch.NewDispatcher(clock)

	srv := server.NewServer(cfg, st, dispatcher)

	done := runGracefulShutdown(srv, dispatcher)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
