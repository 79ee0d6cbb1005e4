package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ArnavKarwa07/Automated-EDA/internal/config"
	"github.com/ArnavKarwa07/Automated-EDA/internal/database"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/seed"
	"github.com/ArnavKarwa07/Automated-EDA/internal/storage"
)

func main() {
	config.Load()

	if err := logger.Initialize(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FILE", "seed.log")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		runSeed(command)
	case "test":
		runSeed(command)
	case "clean":
		cleanSeed()
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with demo users and datasets")
		fmt.Println("  test  - Seed test database with a single known account")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}
}

func runSeed(mode string) {
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := storage.NewLocalStore(config.GetEnv("STORAGE_DIR", "data"))
	if err != nil {
		log.Fatalf("Failed to initialize local storage: %v", err)
	}

	seeder := seed.NewSeeder(database.DB, store)
	ctx := context.Background()

	if mode == "test" {
		err = seeder.SeedTest(ctx)
	} else {
		err = seeder.SeedDev(ctx)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Seeding complete")
}

func cleanSeed() {
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	seeder := seed.NewSeeder(database.DB, nil)
	if err := seeder.Clean(); err != nil {
		log.Fatalf("Clean failed: %v", err)
	}

	fmt.Println("Seed data removed")
}
