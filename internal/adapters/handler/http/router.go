package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/vncsmyrnk/polls/docs"
)

type Handlers struct {
	Auth          *AuthHandler
	Polls         *PollHandler
	Votes         *VoteHandler
	Users         *UserHandler
	Authenticator *Authenticator
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/oauth", func(r chi.Router) {
		r.Post("/callback", h.Auth.GoogleCallback)
		r.Post("/refresh", h.Auth.Refresh)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Polls.ListPolls)
			r.Get("/{id}", h.Polls.GetPoll)

			r.Group(func(r chi.Router) {
				r.Use(h.Authenticator.Middleware)
				r.Post("/", h.Polls.CreatePoll)
				r.Delete("/{id}", h.Polls.DeletePoll)
			})
		})

		r.Route("/votes", func(r chi.Router) {
			r.Use(h.Authenticator.Middleware)
			r.Post("/", h.Votes.CreateVote)
			r.Get("/{id}", h.Votes.GetVote)
			r.Delete("/{id}", h.Votes.DeleteVote)
			r.Get("/polls/{pollID}", h.Votes.ListPollVotes)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.Authenticator.Middleware)
			r.Get("/me", h.Users.GetMe)
			r.Get("/votes", h.Users.GetMyVotes)
			r.Post("/{id}/deactivate", h.Users.Deactivate)
		})
	})

	return r
}
