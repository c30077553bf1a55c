package cli

import (
	"errors"
	"os"

	"github.com/fernwehr/salesloop/internal/agency"
	agentsApp "github.com/fernwehr/salesloop/internal/agents/application"
	forecastingApp "github.com/fernwehr/salesloop/internal/forecasting/application"
	leadsApp "github.com/fernwehr/salesloop/internal/leads/application"
	licensingApp "github.com/fernwehr/salesloop/internal/licensing/application"
	marketingApp "github.com/fernwehr/salesloop/internal/marketing/application"
	meetingsApp "github.com/fernwehr/salesloop/internal/meetings/application"
	messagingApp "github.com/fernwehr/salesloop/internal/messaging/application"
	outreachApp "github.com/fernwehr/salesloop/internal/outreach/application"
	"github.com/fernwehr/salesloop/internal/workflow"
)

// App holds the CLI application dependencies.
type App struct {
	Licensing  *licensingApp.Service
	Factory    *agentsApp.Factory
	Agency     *agency.Agency
	Composer   *messagingApp.Composer
	Leads      *leadsApp.Service
	Outreach   *outreachApp.Service
	Scheduler  *meetingsApp.Scheduler
	Marketing  *marketingApp.Assistant
	Forecaster *forecastingApp.Forecaster
	Workflow   *workflow.SalesWorkflow

	// CurrentUserID scopes license checks. Single-operator installs run as
	// one fixed user.
	CurrentUserID string
}

// CurrentUser resolves the acting user from the environment.
func CurrentUser() string {
	if user := os.Getenv("SALESLOOP_USER"); user != "" {
		return user
	}
	return "local"
}

// errNotWired is returned when a command runs before SetApp.
var errNotWired = errors.New("application not initialized; check configuration")

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
