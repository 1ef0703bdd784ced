// Package storage provides the product repository engines and the mono plugin
// that selects and owns one of them.
package storage

import (
	"context"
	"fmt"

	"github.com/example/product-catalog/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config selects and configures the storage engine.
type Config struct {
	Driver      string
	DBPath      string
	DatabaseURL string
	Debug       bool
}

// PluginModule opens the configured engine and exposes it as a product.Repository.
// Plugins start first and stop last, so the database outlives every module using it.
type PluginModule struct {
	container types.ServiceContainer
	config    Config
	logger    types.Logger
	db        *gorm.DB
	pool      *pgxpool.Pool
	repo      product.Repository
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a storage plugin for the given configuration.
func NewPluginModule(cfg Config, logger types.Logger) *PluginModule {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	return &PluginModule{
		config: cfg,
		logger: logger.WithModule("storage"),
	}
}

// NewPluginModuleWithRepository creates a storage plugin around an existing
// repository. Start does not open anything.
func NewPluginModuleWithRepository(repo product.Repository, logger types.Logger) *PluginModule {
	return &PluginModule{
		config: Config{Driver: "injected"},
		logger: logger.WithModule("storage"),
		repo:   repo,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "storage"
}

// Start opens the database and migrates the products table.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.repo != nil {
		m.logger.Info("Storage plugin started with injected repository")
		return nil
	}

	switch m.config.Driver {
	case DriverSQLite:
		if err := m.openSQLite(); err != nil {
			return err
		}
	case DriverPostgres:
		if err := m.openPostgres(ctx); err != nil {
			return err
		}
	case DriverMemory:
		m.repo = NewMemoryRepository()
	default:
		return fmt.Errorf("unknown storage driver %q", m.config.Driver)
	}

	m.logger.Info("Storage plugin started", "driver", m.config.Driver)
	return nil
}

func (m *PluginModule) openSQLite() error {
	logLevel := logger.Silent
	if m.config.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.config.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := NewGormRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.db = db
	m.repo = repo
	m.logger.Info("SQLite database ready", "path", m.config.DBPath)
	return nil
}

func (m *PluginModule) openPostgres(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, m.config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	repo := NewPostgresRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return err
	}

	m.pool = pool
	m.repo = repo
	m.logger.Info("PostgreSQL pool ready")
	return nil
}

// Stop closes the database connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				m.logger.Error("Failed to close database", "error", err)
				return fmt.Errorf("failed to close database: %w", err)
			}
		}
	}
	if m.pool != nil {
		m.pool.Close()
	}
	m.logger.Info("Storage plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Repository returns the product repository. It is nil until Start succeeds.
func (m *PluginModule) Repository() product.Repository {
	return m.repo
}

// Driver returns the configured driver name.
func (m *PluginModule) Driver() string {
	return m.config.Driver
}

// Health returns the current health status.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	details := map[string]any{"driver": m.config.Driver}

	switch {
	case m.db != nil:
		sqlDB, err := m.db.DB()
		if err != nil {
			return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database error: %v", err)}
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
		}
		details["db_path"] = m.config.DBPath
	case m.pool != nil:
		if err := m.pool.Ping(ctx); err != nil {
			return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
		}
		stat := m.pool.Stat()
		details["total_conns"] = stat.TotalConns()
		details["idle_conns"] = stat.IdleConns()
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
