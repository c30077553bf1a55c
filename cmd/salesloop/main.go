package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fernwehr/salesloop/adapter/cli"
	"github.com/fernwehr/salesloop/internal/app"
	"github.com/fernwehr/salesloop/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

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
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetLogger(container.Logger)
	cli.SetApp(&cli.App{
		Licensing:     container.Licensing,
		Factory:       container.Factory,
		Agency:        container.Agency,
		Composer:      container.Composer,
		Leads:         container.Leads,
		Outreach:      container.Outreach,
		Scheduler:     container.Scheduler,
		Marketing:     container.Marketing,
		Forecaster:    container.Forecaster,
		Workflow:      container.Workflow,
		CurrentUserID: cli.CurrentUser(),
	})

	cli.Execute(ctx)
}
