// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/lavoo/waitlist/internal/brevo"
	"github.com/lavoo/waitlist/internal/config"
	"github.com/lavoo/waitlist/internal/database"
	"github.com/lavoo/waitlist/internal/health"
	"github.com/lavoo/waitlist/internal/http"
	"github.com/lavoo/waitlist/internal/metrics"
	waitlistHTTP "github.com/lavoo/waitlist/internal/waitlist/http"
	waitlistRepository "github.com/lavoo/waitlist/internal/waitlist/repository"
	waitlistUsecase "github.com/lavoo/waitlist/internal/waitlist/usecase"
)

// Version identifies the running build in health reports.
const Version = "1.0.0"

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Integrations
	brevoClient *brevo.Client

	// Repositories
	entryRepo waitlistUsecase.EntryRepository

	// Use Cases
	waitlistUseCase waitlistUsecase.WaitlistUseCase

	// Observability
	metricsProvider *metrics.Provider
	healthChecker   *health.Checker

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	brevoClientInit     sync.Once
	entryRepoInit       sync.Once
	waitlistUseCaseInit sync.Once
	metricsProviderInit sync.Once
	healthCheckerInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// BrevoClient returns the Brevo API client.
func (c *Container) BrevoClient() *brevo.Client {
	c.brevoClientInit.Do(func() {
		c.brevoClient = brevo.NewClient(c.config.BrevoAPIKey, c.config.BrevoListID, c.Logger())
	})
	return c.brevoClient
}

// EntryRepository returns the waitlist entry repository instance.
func (c *Container) EntryRepository() (waitlistUsecase.EntryRepository, error) {
	var err error
	c.entryRepoInit.Do(func() {
		c.entryRepo, err = c.initEntryRepository()
		if err != nil {
			c.initErrors["entryRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entryRepo"]; exists {
		return nil, storedErr
	}
	return c.entryRepo, nil
}

// WaitlistUseCase returns the waitlist use case instance.
func (c *Container) WaitlistUseCase() (waitlistUsecase.WaitlistUseCase, error) {
	var err error
	c.waitlistUseCaseInit.Do(func() {
		c.waitlistUseCase, err = c.initWaitlistUseCase()
		if err != nil {
			c.initErrors["waitlistUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["waitlistUseCase"]; exists {
		return nil, storedErr
	}
	return c.waitlistUseCase, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// HealthChecker returns the health checker instance.
func (c *Container) HealthChecker() (*health.Checker, error) {
	var err error
	c.healthCheckerInit.Do(func() {
		c.healthChecker, err = c.initHealthChecker()
		if err != nil {
			c.initErrors["healthChecker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["healthChecker"]; exists {
		return nil, storedErr
	}
	return c.healthChecker, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initEntryRepository creates the waitlist entry repository instance.
func (c *Container) initEntryRepository() (waitlistUsecase.EntryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for entry repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return waitlistRepository.NewMySQLEntryRepository(db), nil
	case "postgres":
		return waitlistRepository.NewPostgreSQLEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initWaitlistUseCase creates the waitlist use case with all its dependencies.
func (c *Container) initWaitlistUseCase() (waitlistUsecase.WaitlistUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for waitlist use case: %w", err)
	}

	entryRepo, err := c.EntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry repository for waitlist use case: %w", err)
	}

	useCase := waitlistUsecase.NewWaitlistUseCase(txManager, entryRepo, c.BrevoClient())

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for waitlist use case: %w", err)
	}
	if provider == nil {
		return useCase, nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return waitlistUsecase.NewWaitlistUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initHealthChecker creates the health checker over the store and Brevo client.
func (c *Container) initHealthChecker() (*health.Checker, error) {
	entryRepo, err := c.EntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry repository for health checker: %w", err)
	}

	return health.NewChecker(entryRepo, c.BrevoClient(), Version, c.Logger()), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	waitlistUseCase, err := c.WaitlistUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get waitlist use case for http server: %w", err)
	}

	healthChecker, err := c.HealthChecker()
	if err != nil {
		return nil, fmt.Errorf("failed to get health checker for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	serverConfig := http.Config{
		Host:             c.config.ServerHost,
		Port:             c.config.ServerPort,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
		StaticDir:        c.config.StaticDir,
	}
	handlers := http.Handlers{
		Waitlist: waitlistHTTP.NewWaitlistHandler(waitlistUseCase, logger),
		Health:   healthChecker,
		Brevo:    c.BrevoClient(),
	}

	if provider == nil {
		return http.NewServer(serverConfig, handlers, nil, logger), nil
	}
	return http.NewServer(serverConfig, handlers, provider.MeterProvider(), logger), nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
