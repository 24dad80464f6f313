package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"store/internal/config"
	"store/internal/handlers"
	"store/internal/pkg/clock"
	"store/internal/pkg/identity"
	"store/internal/repositories"
	"store/internal/services"
	"store/pkg/database"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Initialize Store ---
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout(cfg))
	coll, closeStore, err := openCollection(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	// --- Initialize Service and App ---
	productService := services.NewProductService(coll, clock.RealClock{}, identity.UUIDGenerator{})
	app := newApp(productService, cfg)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (store: %s)", cfg.AppPort, cfg.StoreDriver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(startupTimeout(cfg)); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func startupTimeout(cfg *config.Config) time.Duration {
	if cfg.StoreTimeout > 0 {
		return cfg.StoreTimeout
	}
	return 10 * time.Second
}

// newApp builds the Fiber app with middleware, product routes and the
// health check.
func newApp(productService *services.ProductService, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Product Store",
	})

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(recover.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(productService, cfg.StoreTimeout).RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   clock.Now().Format(time.RFC3339),
			"store":  cfg.StoreDriver,
		})
	})

	return app
}

// openCollection connects the configured store. The returned func releases
// the connection and is safe to call once.
func openCollection(ctx context.Context, cfg *config.Config) (repositories.ProductCollection, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return repositories.NewMemoryProductCollection(), func() {}, nil

	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from mongo: %v", err)
			}
		}
		coll := repositories.NewMongoProductCollection(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
		if err := coll.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return coll, closeFn, nil

	case config.DriverPostgres, config.DriverSQLite:
		open := database.OpenPostgres
		if cfg.StoreDriver == config.DriverSQLite {
			open = database.OpenSQLite
		}
		db, err := open(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get connection pool: %w", err)
		}
		closeFn := func() {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}
		coll := repositories.NewGORMProductCollection(db)
		if err := coll.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return coll, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
