package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/product-catalog/modules/api"
	"github.com/example/product-catalog/modules/audit"
	"github.com/example/product-catalog/modules/cache"
	"github.com/example/product-catalog/modules/catalog"
	"github.com/example/product-catalog/modules/storage"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := loadConfig()

	// Prices are emitted as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	log.Println("=== Product Catalog ===")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Storage Driver: %s", cfg.Storage.Driver)
	if cfg.CacheEnabled() {
		log.Printf("Redis: %s (ttl %s, prefix %q)", cfg.Cache.Addr, cfg.Cache.TTL, cfg.Cache.Prefix)
	} else {
		log.Println("Redis: disabled")
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	if err := registerModules(app, cfg); err != nil {
		log.Fatalf("Failed to register modules: %v", err)
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET    /health       - Health check")
	log.Println("  POST   /product      - Create product")
	log.Println("  GET    /product      - List products")
	log.Println("  GET    /product/:id  - Get product")
	log.Println("  PUT    /product/:id  - Update product")
	log.Println("  DELETE /product/:id  - Delete product")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// registerModules registers the plugins and modules that make up the catalog.
// Plugins start before modules; the catalog module receives them via SetPlugin.
func registerModules(app mono.MonoApplication, cfg Config) error {
	logger := app.Logger()

	if err := app.RegisterPlugin(storage.NewPluginModule(cfg.Storage, logger), "storage"); err != nil {
		return fmt.Errorf("failed to register storage plugin: %w", err)
	}
	if cfg.CacheEnabled() {
		if err := app.RegisterPlugin(cache.NewPluginModule(cfg.Cache, logger), "cache"); err != nil {
			return fmt.Errorf("failed to register cache plugin: %w", err)
		}
	}

	if err := app.Register(audit.NewModule(logger)); err != nil {
		return fmt.Errorf("failed to register audit module: %w", err)
	}
	if err := app.Register(catalog.NewModule(logger)); err != nil {
		return fmt.Errorf("failed to register catalog module: %w", err)
	}
	if err := app.Register(api.NewModule(cfg.HTTPPort, logger)); err != nil {
		return fmt.Errorf("failed to register API module: %w", err)
	}
	return nil
}
