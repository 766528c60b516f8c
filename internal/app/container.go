// Package app wires the application's dependencies.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/tracker/internal/analytics/application/queries"
	"github.com/felixgeelhaar/tracker/internal/analytics/application/services"
	identityApp "github.com/felixgeelhaar/tracker/internal/identity/application"
	identityDomain "github.com/felixgeelhaar/tracker/internal/identity/domain"
	"github.com/felixgeelhaar/tracker/internal/identity/infrastructure/tokenstore"
	sharedApplication "github.com/felixgeelhaar/tracker/internal/shared/application"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tracker/internal/tracker/application/commands"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/pkg/config"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	EmployeeRepo   domain.EmployeeRepository
	TaskRepo       domain.TaskRepository
	DependencyRepo domain.DependencyRepository
	TaskGraph      domain.TaskGraph

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Events
	Broker          eventbus.Publisher
	Outbox          *outbox.Writer
	OutboxProcessor *outbox.Processor

	// Analytics
	WorkloadAggregator    *services.WorkloadAggregator
	ImportantTaskSelector *services.ImportantTaskSelector
	BusyEmployeesHandler  *queries.GetBusyEmployeesHandler
	ImportantTasksHandler *queries.GetImportantTasksHandler
	ImportantListHandler  *queries.ListImportantTasksHandler

	// Tracker commands
	SeedHandler             *commands.SeedHandler
	ChangeTaskStatusHandler *commands.ChangeTaskStatusHandler

	// Identity
	TokenStore    identityDomain.TokenStore
	Authenticator *identityApp.Authenticator
	TokenIssuer   *identityApp.TokenIssuer
}

// NewContainer connects to the configured backends and wires all
// dependencies. An empty DATABASE_URL runs on a local SQLite file.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	logger.Info("connected to database", "driver", c.DBDriver)

	// Local mode has no separate deploy step, so the schema is kept current
	// on start. PostgreSQL is migrated explicitly.
	if c.DBDriver == database.DriverSQLite {
		if _, err := c.Migrate(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.connectBroker(); err != nil {
		c.Close()
		return nil, err
	}

	repos := NewRepositoryFactory(conn)
	c.EmployeeRepo = repos.EmployeeRepository()
	c.TaskRepo = repos.TaskRepository()
	c.DependencyRepo = repos.DependencyRepository()
	c.TaskGraph = repos.TaskGraph(cfg, logger)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	outboxRepo := outbox.NewSQLRepository(conn)
	relayCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		relayCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxMaxRetries > 0 {
		relayCfg.MaxRetries = cfg.OutboxMaxRetries
	}
	c.Outbox = outbox.NewWriter(outboxRepo)
	c.OutboxProcessor = outbox.NewProcessor(outboxRepo, c.Broker, relayCfg, c.Metrics, logger)

	active := domain.ActiveStatuses()
	c.WorkloadAggregator = services.NewWorkloadAggregator(c.TaskGraph, active, logger)
	c.ImportantTaskSelector = services.NewImportantTaskSelector(c.TaskGraph, active, logger)
	recommender := services.NewAssignmentRecommender(services.DefaultSlack)
	c.BusyEmployeesHandler = queries.NewGetBusyEmployeesHandler(c.WorkloadAggregator, c.Metrics, logger)
	c.ImportantTasksHandler = queries.NewGetImportantTasksHandler(c.WorkloadAggregator, c.ImportantTaskSelector, recommender, c.Metrics, logger)
	c.ImportantListHandler = queries.NewListImportantTasksHandler(c.ImportantTaskSelector, c.Metrics, logger)

	c.SeedHandler = commands.NewSeedHandler(c.EmployeeRepo, c.TaskRepo, c.DependencyRepo, c.UnitOfWork, c.Outbox, logger)
	c.ChangeTaskStatusHandler = commands.NewChangeTaskStatusHandler(c.TaskRepo, c.UnitOfWork, c.Outbox)

	if err := c.wireIdentity(); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// Migrate applies pending schema migrations and returns their versions.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	applied, err := migrations.Run(ctx, c.DBConn)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("migrations applied", "versions", applied)
	}
	return applied, nil
}

// connectRedis is optional in development: a missing or unreachable server
// only disables Redis-backed tokens.
func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, Redis tokens disabled", observability.ErrorKey, err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, Redis tokens disabled", observability.ErrorKey, err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) connectBroker() error {
	if c.Config.RabbitMQURL == "" {
		c.Broker = eventbus.NewLoggingPublisher(c.Logger)
	} else {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		switch {
		case err == nil:
			c.Broker = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
		case c.Config.IsDevelopment():
			c.Logger.Warn("RabbitMQ not available, logging events instead", observability.ErrorKey, err)
			c.Broker = eventbus.NewLoggingPublisher(c.Logger)
		default:
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	}
	return nil
}

func (c *Container) wireIdentity() error {
	static, err := tokenstore.ParseStatic(c.Config.AuthTokens)
	if err != nil {
		return fmt.Errorf("invalid AUTH_TOKENS: %w", err)
	}

	chain := tokenstore.ChainStore{static}
	if c.RedisClient != nil {
		redisStore := tokenstore.NewRedisStore(c.RedisClient)
		chain = append(chain, redisStore)
		c.TokenIssuer = identityApp.NewTokenIssuer(redisStore)
	}
	if len(chain) == 1 && static.Len() == 0 {
		c.Logger.Warn("no API tokens configured, analytics endpoints will reject every request")
	}

	c.TokenStore = chain
	c.Authenticator = identityApp.NewAuthenticator(chain, c.Logger)
	return nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.Broker != nil {
		if err := c.Broker.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", observability.ErrorKey, err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", observability.ErrorKey, err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", observability.ErrorKey, err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
