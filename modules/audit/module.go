// Package audit keeps a trail of catalog changes by consuming product events.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/example/product-catalog/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// DefaultCapacity bounds the in-memory trail; the oldest entries are dropped first.
const DefaultCapacity = 1000

// Entry is one recorded catalog change.
type Entry struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"product_id"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ListEntriesRequest filters the trail. A zero ProductID returns every entry.
type ListEntriesRequest struct {
	ProductID int64 `json:"product_id,omitempty"`
}

// ListEntriesResponse holds entries oldest first.
type ListEntriesResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// Module records catalog events as a driven adapter.
type Module struct {
	entries  []Entry
	capacity int
	mu       sync.RWMutex
	logger   types.Logger
}

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

func NewModule(logger types.Logger) *Module {
	return NewModuleWithCapacity(DefaultCapacity, logger)
}

func NewModuleWithCapacity(capacity int, logger types.Logger) *Module {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Module{
		entries:  make([]Entry, 0),
		capacity: capacity,
		logger:   logger.WithModule("audit"),
	}
}

func (m *Module) Name() string {
	return "audit"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductCreatedV1, m.handleProductCreated, m); err != nil {
		return fmt.Errorf("failed to register ProductCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductUpdatedV1, m.handleProductUpdated, m); err != nil {
		return fmt.Errorf("failed to register ProductUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductDeletedV1, m.handleProductDeleted, m); err != nil {
		return fmt.Errorf("failed to register ProductDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", "ProductCreated, ProductUpdated, ProductDeleted")
	return nil
}

func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}
	return nil
}

func (m *Module) handleProductCreated(_ context.Context, event events.ProductCreatedEvent, _ *mono.Msg) error {
	m.record(event.ProductID, "product_created", event.CreatedAt,
		fmt.Sprintf("Product '%s' created in %s with status %s (stock %d)", event.Name, event.Category, event.Status, event.Stock))
	return nil
}

func (m *Module) handleProductUpdated(_ context.Context, event events.ProductUpdatedEvent, _ *mono.Msg) error {
	m.record(event.ProductID, "product_updated", event.UpdatedAt,
		fmt.Sprintf("Product %d updated %v, now %s (stock %d)", event.ProductID, event.Fields, event.Status, event.Stock))
	return nil
}

func (m *Module) handleProductDeleted(_ context.Context, event events.ProductDeletedEvent, _ *mono.Msg) error {
	m.record(event.ProductID, "product_deleted", event.DeletedAt,
		fmt.Sprintf("Product %d deleted", event.ProductID))
	return nil
}

func (m *Module) handleList(_ context.Context, req ListEntriesRequest, _ *mono.Msg) (ListEntriesResponse, error) {
	entries := m.Entries(req.ProductID)
	return ListEntriesResponse{Entries: entries, Total: len(entries)}, nil
}

func (m *Module) record(productID int64, action string, at time.Time, message string) {
	if at.IsZero() {
		at = time.Now()
	}
	entry := Entry{
		ID:        uuid.New().String(),
		ProductID: productID,
		Action:    action,
		Message:   message,
		Timestamp: at,
	}

	m.mu.Lock()
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	m.mu.Unlock()

	m.logger.Info("Catalog change recorded", "action", action, "product_id", productID)
}

// Entries returns recorded entries for productID, or all of them when productID is 0.
func (m *Module) Entries(productID int64) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if productID == 0 || e.ProductID == productID {
			result = append(result, e)
		}
	}
	return result
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Module started - listening for catalog events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
