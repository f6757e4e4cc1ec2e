package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chatterbox/handlers"
	"chatterbox/observability"
	"chatterbox/repositories"
	"chatterbox/runtime"
	"chatterbox/runtime/workers"
	"chatterbox/seed"
	"chatterbox/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanups (database close,
// graceful shutdown) execute on every exit path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Stores
	userRepository := repositories.NewUserRepository(db)
	chatRepository := repositories.NewChatRepository(db)
	messageRepository := repositories.NewMessageRepository(db)

	if config.SeedDemo {
		if err := seed.Demo(log, userRepository, chatRepository, messageRepository); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	// 4. Session registry, dispatcher, router
	stats := observability.NewDeliveryStats()
	registry := runtime.NewRegistry(log, stats)
	dispatcher := runtime.NewDispatcher(log, chatRepository, registry)
	router := runtime.NewRouter(log, userRepository, messageRepository, registry, dispatcher)

	// 5. Background workers under supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(log, stats, config.StatsInterval))
	sup.Add(workers.NewBadgerGCWorker(log, db, config.GCInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sup.Run(ctx)

	// 6. Services & transport
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)
	chatService := services.NewChatService(userRepository, chatRepository, messageRepository, registry)

	app := fiber.New()
	app.Use(logger.New())

	api := handlers.NewAPI(log, authService, chatService)
	socket := handlers.NewSocket(log, registry, router, config.ConnectionBufferSize)
	api.RegisterRoutes(app, socket)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address)
		if err := app.Listen(address); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final cleanup
	if err := app.Shutdown(); err != nil {
		log.Warn("Fiber shutdown error", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
