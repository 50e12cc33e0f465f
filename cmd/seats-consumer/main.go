package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/webinar-seats/internal/adapters/rabbit"
	"github.com/robertarktes/webinar-seats/internal/config"
	"github.com/robertarktes/webinar-seats/internal/observability"
	"github.com/robertarktes/webinar-seats/internal/storage"
	"github.com/robertarktes/webinar-seats/internal/usecase"
	"github.com/robertarktes/webinar-seats/internal/worker"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := observability.SetupOTel(ctx, cfg, "webinars-seats-consumer")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger(cfg.LogLevel)

	webinars, closeStore, err := storage.OpenWebinars(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closeStore()

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	cached := storage.WithCache(webinars, redisClient, cfg, logger)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, cfg.SeatsQueue, 10, worker.RoutingKeyChangeSeats)
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to consume %s: %v", cfg.SeatsQueue, err)
	}

	handler := worker.NewSeatsHandler(usecase.NewChangeSeats(cached.Uncached(), logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	g.Go(func() error {
		return handler.Run(gctx, deliveries)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case amqpErr := <-closed:
			return errors.Newf("rabbitmq connection closed: %v", amqpErr)
		}
	})

	logger.WithField("queue", cfg.SeatsQueue).Info("Seats consumer started")
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("seats consumer stopped")
		return
	}
	logger.Info("Shutdown seats consumer")
}
