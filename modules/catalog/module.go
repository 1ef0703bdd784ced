// Package catalog is the core module: it owns the catalog use cases and exposes
// them as request-reply services.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/product-catalog/events"
	"github.com/example/product-catalog/modules/cache"
	"github.com/example/product-catalog/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

var errStorageNotSet = errors.New("storage plugin not set - ensure 'storage' plugin is registered")

// Module provides catalog services as a mono module.
type Module struct {
	storagePlugin *storage.PluginModule
	cachePlugin   *cache.PluginModule
	service       *Service
	eventBus      mono.EventBus
	logger        types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new catalog module. The repository comes from the
// "storage" plugin; the optional "cache" plugin enables read-through caching.
func NewModule(logger types.Logger) *Module {
	return &Module{
		logger: logger.WithModule("catalog"),
	}
}

// NewModuleWithService creates a catalog module around an existing service.
// This constructor enables dependency injection for testing.
func NewModuleWithService(service *Service, logger types.Logger) *Module {
	return &Module{
		service: service,
		logger:  logger.WithModule("catalog"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetPlugin receives plugin instances from the mono framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	switch alias {
	case "storage":
		if p, ok := plugin.(*storage.PluginModule); ok {
			m.storagePlugin = p
			m.logger.Info("Storage plugin injected", "driver", p.Driver())
			return
		}
	case "cache":
		if p, ok := plugin.(*cache.PluginModule); ok {
			m.cachePlugin = p
			m.logger.Info("Cache plugin injected")
			return
		}
	default:
		m.logger.Warn("Ignoring unknown plugin", "alias", alias)
		return
	}
	m.logger.Error("Invalid plugin type", "alias", alias, "type", fmt.Sprintf("%T", plugin))
}

// SetEventBus receives the event bus used to publish product events.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ProductCreatedV1.ToBase(),
		events.ProductUpdatedV1.ToBase(),
		events.ProductDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework automatically prefixes service names with "services.<module>."
// so "create" becomes "services.catalog.create" in the NATS subject.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreate, json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGet, json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdate, json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDelete, json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	m.logger.Info("Registered services", "services", "services.catalog.{create,get,list,update,delete}")
	return nil
}

// Start builds the service from the injected plugins.
func (m *Module) Start(_ context.Context) error {
	// Skip wiring if service is already injected (for testing)
	if m.service != nil {
		m.logger.Info("Module started with injected service")
		return nil
	}

	if m.storagePlugin == nil || m.storagePlugin.Repository() == nil {
		return errStorageNotSet
	}

	var c cache.CacheService
	if m.cachePlugin != nil {
		c = m.cachePlugin.Port()
	}
	m.service = NewService(m.storagePlugin.Repository(), c, m.logger)

	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}
	m.logger.Info("Module started",
		"storage", m.storagePlugin.Driver(),
		"cache", m.service.CacheEnabled())
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the current health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}

	details := map[string]any{
		"cache": m.service.CacheEnabled(),
	}
	if m.storagePlugin != nil {
		details["storage"] = m.storagePlugin.Driver()
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
