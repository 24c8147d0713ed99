package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cinebatch/internal/config"
	"cinebatch/internal/database"
	"cinebatch/internal/ingest"
	"cinebatch/internal/logger"
	"cinebatch/internal/manager"
	"cinebatch/internal/tmdb"
)

func main() {
	os.Exit(run())
}

// run keeps the deferred cleanups effective: the database pool and log
// files are released on every exit path before the process status is set.
func run() int {
	configFile := flag.String("config", "config.yaml", "Path to config file")
	envFile := flag.String("env", ".env", "Path to env file")
	daemon := flag.Bool("daemon", false, "Keep running and ingest on the configured cron schedule")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(*envFile); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	myLogger, err := logger.New(cfg.LogDir)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer myLogger.Close()

	myLogger.Info("main", "NewDB", "Attempting to connect to the database")
	db, err := database.NewDB(cfg.Database.ConnString())
	if err != nil {
		myLogger.Error("main", "NewDB", fmt.Sprintf("Failed to connect to database: %v", err))
		return 1
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		myLogger.Error("main", "InitSchema", fmt.Sprintf("Failed to initialize schema: %v", err))
		return 1
	}

	client := tmdb.NewClient(cfg.TMDB, myLogger)
	runner := ingest.New(cfg, client, db, myLogger)
	ctx := context.Background()

	if *daemon {
		if cfg.Ingest.Schedule == "" {
			myLogger.Error("main", "daemon", "ingest.schedule must be set when running with -daemon")
			return 1
		}

		mgr := manager.New(runner, myLogger, cfg.Ingest.Schedule)
		if err := mgr.Start(ctx); err != nil {
			myLogger.Error("main", "daemon", fmt.Sprintf("Failed to start manager: %v", err))
			return 1
		}
		defer mgr.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		myLogger.Info("main", "daemon", fmt.Sprintf("Received %s, shutting down", sig))
		return 0
	}

	if err := runner.Run(ctx); err != nil {
		myLogger.Error("main", "Run", fmt.Sprintf("Fatal: %v", err))
		return 1
	}
	return 0
}
