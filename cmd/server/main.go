package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mystical-alchemist/backend-api/internal/api/gateway"
	"mystical-alchemist/backend-api/internal/db"
	"mystical-alchemist/backend-api/pkg/config"
	"mystical-alchemist/backend-api/pkg/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			handleMigrate(cfg, logger)
			return
		case "help":
			printUsage()
			return
		}
	}

	dbConn, err := db.OpenDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.RunMigrations(dbConn, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	gw := gateway.NewAPIGateway(*cfg, logger, dbConn)

	go func() {
		if err := gw.Start(); err != nil {
			logger.Fatal("Gateway failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := gw.Shutdown(ctx); err != nil {
		logger.Error("Gateway shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func handleMigrate(cfg *config.Config, logger *zap.Logger) {
	if len(os.Args) < 3 {
		fmt.Println("Usage: server migrate [up|down|status]")
		os.Exit(1)
	}

	dbConn, err := db.OpenDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbConn.Close()

	var errMig error
	switch os.Args[2] {
	case "up":
		errMig = db.RunMigrations(dbConn, cfg.Database.MigrationsPath)
	case "down":
		errMig = db.Rollback(dbConn, cfg.Database.MigrationsPath)
	case "status":
		errMig = db.MigrationStatus(dbConn, cfg.Database.MigrationsPath)
	default:
		fmt.Printf("Unknown migration command: %s\n", os.Args[2])
		os.Exit(1)
	}

	if errMig != nil {
		logger.Fatal("Migration failed", zap.Error(errMig))
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  server                - Start the API server")
	fmt.Println("  server migrate up     - Run pending migrations")
	fmt.Println("  server migrate down   - Rollback the last migration")
	fmt.Println("  server migrate status - Show migration status")
	fmt.Println("  server help           - Show this help message")
}
