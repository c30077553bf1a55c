package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fernwehr/salesloop/adapter/api"
	"github.com/fernwehr/salesloop/internal/app"
	"github.com/fernwehr/salesloop/internal/outreach/application/subscribers"
	"github.com/fernwehr/salesloop/internal/shared/infrastructure/eventbus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	container, err := app.NewContainer(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to initialize application: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer container.Close()

	logger := container.Logger
	logger.Info("starting salesloop worker")

	if err := container.OutboxProcessor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}
	defer container.OutboxProcessor.Stop()

	// Old published messages are purged on a slow cadence.
	retention := time.Duration(container.Config.OutboxRetentionDays) * 24 * time.Hour
	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				deleted, err := container.OutboxRepo.DeleteOld(ctx, retention)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed", "deleted", deleted)
				}
			}
		}
	}()

	// With a broker configured the worker consumes domain events from the
	// shared queue; otherwise the in-process bus already dispatched them.
	if container.Config.RabbitMQURL != "" {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       container.Config.RabbitMQURL,
			QueueName: eventbus.DefaultConsumerQueueName,
			Logger:    logger,
		}, eventbus.NewConsumerRegistry(logger))
		if err != nil {
			logger.Error("failed to connect event consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()
		consumer.RegisterConsumer(subscribers.NewMeetingConfirmation(container.Outreach, logger))
		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("event consumer stopped", "error", err)
				cancel()
			}
		}()
	}

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = container.Config.WebhookAddr
	handler := api.NewWebhookHandler(container.Outreach, container.Config.WebhookAuthToken, logger)
	server := api.NewServer(serverCfg, handler, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("webhook server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("webhook server shutdown error", "error", err)
	}
	logger.Info("worker stopped")
}
