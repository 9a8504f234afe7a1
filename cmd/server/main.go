package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/polls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/polls/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, cfg.Database.ConnString(), cfg.Pool())
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	users := postgres.NewUserRepository()
	polls := postgres.NewPollRepository()
	options := postgres.NewOptionRepository()
	votes := postgres.NewVoteRepository()
	tokens := postgres.NewRefreshTokenRepository()
	results := postgres.NewPollResultRepository(store)

	pageSize := services.WithPageSize(cfg.PaginationAmount)
	userService := services.NewUserService(store, users)
	pollService := services.NewPollService(store, polls, results, pageSize)
	voteService := services.NewVoteService(store, users, polls, options, votes, pageSize)
	authService := services.NewAuthService(store, userService, tokens, google.NewVerifier(), cfg.JWTSecret, cfg.GoogleClientID)

	handler := http.NewHandler(http.Handlers{
		Auth:          http.NewAuthHandler(authService, cfg.OAuthRedirectURL, cfg.CookieDomain, cfg.CookieSameSite, cfg.CookieSecure),
		Polls:         http.NewPollHandler(pollService),
		Votes:         http.NewVoteHandler(voteService),
		Users:         http.NewUserHandler(userService, voteService),
		Authenticator: http.NewAuthenticator(authService, userService),
	})
	server := &stdhttp.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
