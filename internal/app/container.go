// Package app wires the application together from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"

	"github.com/fernwehr/salesloop/internal/agency"
	agentsApp "github.com/fernwehr/salesloop/internal/agents/application"
	agentsDomain "github.com/fernwehr/salesloop/internal/agents/domain"
	"github.com/fernwehr/salesloop/internal/agents/infrastructure/runtime"
	"github.com/fernwehr/salesloop/internal/agents/infrastructure/tools"
	forecastingApp "github.com/fernwehr/salesloop/internal/forecasting/application"
	leadsApp "github.com/fernwehr/salesloop/internal/leads/application"
	"github.com/fernwehr/salesloop/internal/leads/infrastructure/apollo"
	leadsCache "github.com/fernwehr/salesloop/internal/leads/infrastructure/cache"
	"github.com/fernwehr/salesloop/internal/leads/infrastructure/clearbit"
	licensingApp "github.com/fernwehr/salesloop/internal/licensing/application"
	licensingDomain "github.com/fernwehr/salesloop/internal/licensing/domain"
	licensingPersistence "github.com/fernwehr/salesloop/internal/licensing/infrastructure/persistence"
	marketingApp "github.com/fernwehr/salesloop/internal/marketing/application"
	meetingsApp "github.com/fernwehr/salesloop/internal/meetings/application"
	meetingsDomain "github.com/fernwehr/salesloop/internal/meetings/domain"
	"github.com/fernwehr/salesloop/internal/meetings/infrastructure/calendly"
	"github.com/fernwehr/salesloop/internal/meetings/infrastructure/google"
	meetingsPersistence "github.com/fernwehr/salesloop/internal/meetings/infrastructure/persistence"
	messagingApp "github.com/fernwehr/salesloop/internal/messaging/application"
	outreachApp "github.com/fernwehr/salesloop/internal/outreach/application"
	outreachDomain "github.com/fernwehr/salesloop/internal/outreach/domain"
	"github.com/fernwehr/salesloop/internal/outreach/application/subscribers"
	outreachPersistence "github.com/fernwehr/salesloop/internal/outreach/infrastructure/persistence"
	"github.com/fernwehr/salesloop/internal/outreach/infrastructure/sendgrid"
	"github.com/fernwehr/salesloop/internal/shared/infrastructure/database"
	"github.com/fernwehr/salesloop/internal/shared/infrastructure/eventbus"
	"github.com/fernwehr/salesloop/internal/shared/infrastructure/outbox"
	"github.com/fernwehr/salesloop/internal/workflow"
	"github.com/fernwehr/salesloop/pkg/config"
	"github.com/fernwehr/salesloop/pkg/llm"
	"github.com/fernwehr/salesloop/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	SQLiteDB    *sql.DB
	PostgresDB  *pgxpool.Pool
	RedisClient *redis.Client

	// Repositories
	GrantRepo   licensingDomain.GrantRepository
	MeetingRepo meetingsDomain.MeetingRepository
	EventRepo   outreachDomain.EmailEventRepository
	OutboxRepo  outbox.Repository

	// eventHistory exposes the time-ranged event query the forecaster needs.
	eventHistory forecastingApp.EventHistory

	// Services
	Licensing  *licensingApp.Service
	Model      llm.Client
	Factory    *agentsApp.Factory
	Agency     *agency.Agency
	Composer   *messagingApp.Composer
	Leads      *leadsApp.Service
	Outreach   *outreachApp.Service
	Scheduler  *meetingsApp.Scheduler
	Marketing  *marketingApp.Assistant
	Forecaster *forecastingApp.Forecaster
	Workflow   *workflow.SalesWorkflow

	// Events
	EventBus        *eventbus.InProcessEventBus
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
}

// NewContainer builds the full dependency graph. Optional integrations
// (Redis, RabbitMQ, Calendly) are wired only when configured.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      logFormat(cfg),
		ServiceName: "salesloop",
	})

	c := &Container{Config: cfg, Logger: logger}

	if err := c.initStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.initEvents(); err != nil {
		return nil, err
	}
	if err := c.initServices(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func logFormat(cfg *config.Config) observability.LogFormat {
	if cfg.IsDevelopment() {
		return observability.LogFormatText
	}
	return observability.LogFormatJSON
}

func (c *Container) initStorage(ctx context.Context) error {
	if c.Config.UsePostgres() {
		pool, err := database.OpenPostgres(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		c.PostgresDB = pool
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
	}

	// SQLite backs the per-host repositories even when Postgres holds the
	// outbox, so the CLI works offline.
	db, err := database.OpenSQLite(ctx, c.Config.SQLitePath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	c.SQLiteDB = db
	if c.OutboxRepo == nil {
		c.OutboxRepo = outbox.NewSQLiteRepository(db)
	}

	c.GrantRepo = licensingPersistence.NewSQLiteGrantRepository(db)
	c.MeetingRepo = meetingsPersistence.NewSQLiteMeetingRepository(db)
	eventRepo := outreachPersistence.NewSQLiteEventRepository(db)
	c.EventRepo = eventRepo
	c.eventHistory = eventRepo

	if c.Config.RedisURL != "" {
		opts, err := redis.ParseURL(c.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		c.RedisClient = redis.NewClient(opts)
	}
	return nil
}

func (c *Container) initEvents() error {
	c.EventBus = eventbus.NewInProcessEventBus(c.Logger)

	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.EventPublisher = publisher
	} else {
		c.EventPublisher = c.EventBus
	}

	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = c.Config.OutboxPollInterval
	processorCfg.BatchSize = c.Config.OutboxBatchSize
	processorCfg.MaxRetries = c.Config.OutboxMaxRetries
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, c.Logger)
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	cfg := c.Config

	c.Licensing = licensingApp.NewService(c.GrantRepo, c.Logger)

	model, err := llm.New(llm.Config{
		Provider:    cfg.ModelProvider,
		BaseURL:     cfg.ModelAPIURL,
		Model:       cfg.ModelName,
		APIKey:      cfg.ModelAPIKey,
		Temperature: cfg.ModelTemperature,
	})
	if err != nil {
		return fmt.Errorf("init model client: %w", err)
	}
	c.Model = model

	var resolver agentsDomain.ToolResolver
	if cfg.ToolsAPIURL != "" {
		resolver = tools.NewHTTPResolver(cfg.ToolsAPIURL, cfg.ToolsAPIToken)
	}
	c.Factory = agentsApp.NewFactory(c.Licensing, model, resolver, c.Logger)
	for _, def := range agency.Builtins(runtime.Constructor()) {
		c.Factory.Register(def)
	}
	c.Agency = agency.New(c.Factory, c.Logger)

	c.Composer = messagingApp.NewComposer(model, c.Logger)

	var enrichmentCache leadsApp.EnrichmentCache
	if c.RedisClient != nil {
		enrichmentCache = leadsCache.NewRedisEnrichmentCache(c.RedisClient, cfg.LeadCacheTTL)
	}
	c.Leads = leadsApp.NewService(
		apollo.NewClient(cfg.ApolloAPIKey),
		clearbit.NewClient(cfg.ClearbitAPIKey),
		enrichmentCache,
		c.Logger,
	)

	c.Outreach = outreachApp.NewService(
		sendgrid.NewClient(cfg.SendGridAPIKey, cfg.FromEmail),
		c.EventRepo,
		c.Logger,
	)
	c.EventBus.RegisterConsumer(subscribers.NewMeetingConfirmation(c.Outreach, c.Logger))

	calendar := google.NewCalendarClient(ctx, googleTokenSource(ctx, cfg), cfg.CalendarID)
	var links meetingsApp.LinkProvider
	if cfg.CalendlyToken != "" {
		links = calendly.NewClient(cfg.CalendlyToken)
	}
	c.Scheduler = meetingsApp.NewScheduler(
		c.MeetingRepo, calendar, links,
		cfg.FromEmail, cfg.CalendlyEventType, c.Logger,
	)

	c.Marketing = marketingApp.NewAssistant(c.Licensing, model, c.Logger)
	c.Forecaster = forecastingApp.NewForecaster(c.eventHistory, model, c.Logger)

	policy := workflow.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.WorkflowMaxAttempts
	runner := workflow.NewRunner(policy, cfg.WorkflowRunTimeout, c.Logger)
	c.Workflow = workflow.NewSalesWorkflow(c.Agency, runner, outbox.NewDomainPublisher(c.OutboxRepo), c.Logger)
	return nil
}

func googleTokenSource(ctx context.Context, cfg *config.Config) oauth2.TokenSource {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     googleOAuth.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
	}
	return oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})
}

// Close releases held connections.
func (c *Container) Close() error {
	var firstErr error
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.PostgresDB != nil {
		c.PostgresDB.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
