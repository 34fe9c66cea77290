package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"taskapi/internal/config"
	"taskapi/internal/database"
	"taskapi/internal/handlers"
	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/services"
	"taskapi/pkg/rabbitmq"
)

// stores bundles the repositories selected by STORAGE_DRIVER.
type stores struct {
	users repositories.UserRepository
	tasks repositories.TaskRepository
	close func() error
}

// newStores builds the repositories for the configured storage driver.
func newStores(cfg config.Config) (*stores, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		db, err := database.OpenSQLite(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			users: repositories.NewGORMUserRepository(db),
			tasks: repositories.NewGORMTaskRepository(db),
			close: func() error { return database.Close(db) },
		}, nil
	case config.StorageMemory:
		return &stores{
			users: repositories.NewMemoryUserRepository(),
			tasks: repositories.NewMemoryTaskRepository(),
			close: func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// logTaskEvent is the consumer side of the task event queue: an audit trail
// in the server log.
func logTaskEvent(event models.TaskEvent) error {
	log.Printf("Task event %s: task=%d owner=%d completed=%t at=%s",
		event.Type, event.TaskID, event.OwnerID, event.Completed, event.OccurredAt.Format("15:04:05"))
	return nil
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Initialize Repositories ---
	st, err := newStores(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.StorageDriver, err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()
	log.Printf("Using %s storage", cfg.StorageDriver)

	// --- Initialize RabbitMQ Client ---
	// Task events are optional; without RABBITMQ_URL nothing is published.
	var publisher services.EventPublisher
	mqStatus := "disabled"
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
		mqStatus = "connected"

		if err := mqClient.ConsumeTaskEvents(logTaskEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(st.users, services.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
	taskService := services.NewTaskService(st.tasks, publisher)

	// --- Initialize Fiber App ---
	app := handlers.NewApp(authService, taskService, handlers.AppOptions{
		AccessLog: true,
		Health: func() fiber.Map {
			return fiber.Map{"storage": cfg.StorageDriver, "rabbitmq": mqStatus}
		},
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
