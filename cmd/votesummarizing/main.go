package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	db := &cfg.Database

	var schedule string
	flag.StringVar(&db.Host, "db-host", db.Host, "Database host")
	flag.StringVar(&db.Port, "db-port", db.Port, "Database port")
	flag.StringVar(&db.User, "db-user", db.User, "Database user")
	flag.StringVar(&db.Password, "db-pass", db.Password, "Database password")
	flag.StringVar(&db.Name, "db-name", db.Name, "Database name")
	flag.StringVar(&schedule, "schedule", "", "Cron schedule, e.g. \"@every 1m\". Runs once when empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, db.ConnString(), cfg.Pool())
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	summaryService := services.NewSummaryService(store, postgres.NewPollRepository(), postgres.NewPollResultRepository(store))

	if schedule == "" {
		if err := summarize(ctx, summaryService); err != nil {
			store.Close()
			os.Exit(1)
		}
		return
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() { summarize(ctx, summaryService) }); err != nil {
		log.Fatalf("invalid schedule %q: %v", schedule, err)
	}
	c.Start()
	slog.Info("vote summarization scheduled", "schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
}

// summarize bounds one run so a stuck job cannot hang indefinitely.
func summarize(ctx context.Context, s ports.SummaryService) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	slog.Info("starting vote summarization job")
	if err := s.SummarizeAllVotes(ctx); err != nil {
		slog.Error("error summarizing votes", "error", err)
		return err
	}
	slog.Info("vote summarization completed")
	return nil
}
