package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/webinar-seats/internal/adapters/redis"
	"github.com/robertarktes/webinar-seats/internal/config"
	httphandler "github.com/robertarktes/webinar-seats/internal/http"
	"github.com/robertarktes/webinar-seats/internal/idempotency"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/robertarktes/webinar-seats/internal/rateLimit"
	"github.com/robertarktes/webinar-seats/internal/storage"
	"github.com/robertarktes/webinar-seats/internal/usecase"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.SetupOTel(ctx, cfg, "webinars-api")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger(cfg.LogLevel)

	webinars, closeStore, err := storage.OpenWebinars(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closeStore()

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	cached := storage.WithCache(webinars, redisClient, cfg, logger)
	redisCache := redisadapter.NewCache(redisClient)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
	rl := rateLimit.NewRateLimiter(redisCache)

	changeSeats := usecase.NewChangeSeats(cached.Uncached(), logger)
	handlers := httphandler.NewHandlers(changeSeats, cached, idemp, logger)
	r := httphandler.SetupRouter(handlers, logger, rl, httphandler.RateLimit{Rate: cfg.RateLimit, Period: cfg.RateLimitPeriod}, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", cfg.HTTPAddr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown Server ...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		return
	}
	logger.Info("Server exiting")
}
