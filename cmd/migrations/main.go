package main

import (
	"flag"
	"log"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	var down bool
	flag.BoolVar(&down, "down", false, "Revert every applied migration")
	flag.StringVar(&cfg.Database.URL, "database-url", cfg.Database.URL, "Database URL")
	flag.Parse()

	connStr := cfg.Database.ConnString()
	if down {
		if err := postgres.MigrateDown(connStr); err != nil {
			log.Fatal(err)
		}
		log.Println("database migrations reverted")
		return
	}

	if err := postgres.Migrate(connStr); err != nil {
		log.Fatal(err)
	}
	log.Println("database migrations applied")
}
