package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodspot/internal/app"
	"foodspot/internal/cache"
	"foodspot/internal/config"
	"foodspot/internal/database"
	"foodspot/internal/notifier"
	"foodspot/internal/repositories"
	"foodspot/internal/tracking"
	"foodspot/pkg/logger"
	"foodspot/pkg/rabbitmq"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	notifyTimeout   = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "foodspot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			lg.Warn("failed to close database", zap.Error(err))
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.SeedData {
		if err := database.Seed(ctx, repositories.NewGORMRepositories(db), lg); err != nil {
			return err
		}
	}

	deps := app.Deps{
		DB:     db,
		Config: cfg,
		Logger: lg,
		Checks: map[string]func(context.Context) error{},
	}

	// --- Notifications ---
	transport, closeTransport, err := newTransport(cfg, lg)
	if err != nil {
		return err
	}
	defer closeTransport()
	async := notifier.NewAsync(transport, lg, notifyTimeout)
	deps.Notifier = async

	// --- Checkout guard ---
	if cfg.RedisAddr != "" {
		client := cache.NewClient(cfg.RedisAddr)
		defer client.Close()
		guard := cache.NewCheckoutGuard(client, cfg.CheckoutLockTTL)
		deps.Guard = guard
		deps.Checks["redis"] = guard.Ping
		lg.Info("checkout guard enabled", zap.String("redis", cfg.RedisAddr))
	}

	if cfg.TrackingScheme == config.TrackingRandom {
		deps.Tracking = tracking.NewRandomGenerator(cfg.TrackingPrefix, nil)
	}

	// --- HTTP ---
	server := app.New(deps, app.NewServices(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("starting server", zap.String("addr", cfg.AppPort))
		return server.Listen(cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down server")
		return server.ShutdownWithTimeout(shutdownTimeout)
	})

	err = g.Wait()
	async.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	lg.Info("server gracefully stopped")
	return nil
}

// newTransport builds the configured notification transport and a function
// releasing it. The RabbitMQ transport also consumes its own queue and logs
// each message, standing in for the mail relay.
func newTransport(cfg *config.Config, lg *zap.Logger) (notifier.Notifier, func(), error) {
	switch cfg.Notifier {
	case config.NotifierRabbitMQ:
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{cfg.NotificationQueue},
		})
		if err != nil {
			return nil, nil, err
		}
		relay := notifier.DeliveryHandler(lg, notifier.NewLog(lg))
		onError := func(tag uint64, err error) {
			lg.Warn("notification delivery failed", zap.Uint64("delivery_tag", tag), zap.Error(err))
		}
		if err := mqClient.Consume(cfg.NotificationQueue, relay, onError); err != nil {
			_ = mqClient.Close()
			return nil, nil, err
		}
		lg.Info("notifications via RabbitMQ", zap.String("queue", cfg.NotificationQueue))
		return notifier.NewAMQP(mqClient, cfg.NotificationQueue), func() {
			if err := mqClient.Close(); err != nil {
				lg.Warn("failed to close RabbitMQ client", zap.Error(err))
			}
		}, nil

	case config.NotifierKafka:
		writer := notifier.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		lg.Info("notifications via Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return notifier.NewKafka(writer), func() {
			if err := writer.Close(); err != nil {
				lg.Warn("failed to close Kafka writer", zap.Error(err))
			}
		}, nil

	default:
		return notifier.NewLog(lg), func() {}, nil
	}
}
