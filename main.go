package main

import (
	"context"
	"log"
	"time"

	"genml/adapters/model"
	"genml/adapters/postgres"
	"genml/adapters/rng"
	"genml/adapters/solver"
	"genml/app"
	"genml/internal/config"
	"genml/ports"
	"genml/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var results ports.ResultRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}
		results = postgres.NewResultRepository(db)
		log.Println("Result persistence enabled")
	} else {
		log.Println("DATABASE_URL not set, running without result persistence")
	}

	service := app.NewEstimationService(
		model.NewLinear(),
		solver.NewWLS(),
		rng.NewSeeded(cfg.Seed),
		results,
	)

	server := ui.NewServer(service, results)
	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := server.Start(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
