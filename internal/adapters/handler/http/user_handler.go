package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	votes   ports.VoteService
}

func NewUserHandler(service ports.UserService, votes ports.VoteService) *UserHandler {
	return &UserHandler{
		service: service,
		votes:   votes,
	}
}

// GetMe godoc
// @Summary      Gets the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	user, err := h.service.GetByID(r.Context(), actor.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// GetMyVotes godoc
// @Summary      Lists the votes of the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  listResponse[domain.Vote]
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/votes [get]
func (h *UserHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	votes, count, err := h.votes.ListUserVotes(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[domain.Vote]{Items: votes, Count: count})
}

// Deactivate godoc
// @Summary      Deactivates a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User email"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	user, err := h.service.Deactivate(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
