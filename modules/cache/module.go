package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

// Config holds the Redis connection and key settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// PluginModule provides caching services as a mono plugin module.
// Plugins start first and stop last, making them ideal for cross-cutting concerns.
type PluginModule struct {
	container types.ServiceContainer
	storage   storage.Storage
	service   CacheService
	config    Config
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a new cache plugin module. Empty prefix and zero TTL
// fall back to "catalog:" and five minutes.
func NewPluginModule(cfg Config, logger types.Logger) *PluginModule {
	if cfg.Prefix == "" {
		cfg.Prefix = "catalog:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &PluginModule{
		config: cfg,
		logger: logger.WithModule("cache"),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to Redis. gofiber/storage/redis panics when the server is
// unreachable, so reachability is checked first and reported as an error.
func (m *PluginModule) Start(_ context.Context) error {
	host, port := parseRedisAddr(m.config.Addr)
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return fmt.Errorf("redis not reachable at %s: %w", addr, err)
	}
	conn.Close()

	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: m.config.Password,
		Database: m.config.DB,
		PoolSize: 50,
	})
	m.service = NewCacheService(m.storage, m.config.Prefix, m.config.TTL, m.logger)

	m.logger.Info("Cache plugin started",
		"redis_addr", addr,
		"prefix", m.config.Prefix,
		"ttl", m.config.TTL.String())
	return nil
}

// Stop stops the plugin and closes the Redis connection.
// Plugins stop after regular modules.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.service != nil {
		if err := m.service.Close(); err != nil {
			m.logger.Error("Error closing connection", "error", err)
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	m.logger.Info("Cache plugin stopped")
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

// Port returns the CacheService interface for consumers. It is nil until Start
// succeeds.
func (m *PluginModule) Port() CacheService {
	return m.service
}

// Health returns the current health status.
func (m *PluginModule) Health(_ context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	// Simple health check: try to get a non-existent key
	if _, err := m.storage.Get("__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	stats := m.service.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.config.Addr,
			"prefix":     m.config.Prefix,
			"ttl":        m.config.TTL.String(),
			"hits":       stats.Hits,
			"misses":     stats.Misses,
		},
	}
}

// parseRedisAddr parses "host:port" into host and port.
// Returns defaults (127.0.0.1:6379) for invalid or missing values.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}

	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}

	return host, port
}
