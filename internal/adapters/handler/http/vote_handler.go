package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	PollID    int64       `json:"poll_id"`
	OptionIDs []uuid.UUID `json:"option_ids"`
}

// CreateVote godoc
// @Summary      Casts a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        vote  body      voteRequest  true  "Vote"
// @Success      201   {object}  domain.Vote
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/votes [post]
func (h *VoteHandler) CreateVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.PollID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid poll id"})
		return
	}

	vote, err := h.service.CreateVote(r.Context(), actor.Email, req.PollID, req.OptionIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, vote)
}

// GetVote godoc
// @Summary      Gets a vote
// @Tags         votes
// @Produce      json
// @Param        id   path      string  true  "Vote ID"  Format(uuid)
// @Success      200  {object}  domain.Vote
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/votes/{id} [get]
func (h *VoteHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	id, ok := voteIDParam(w, r)
	if !ok {
		return
	}

	vote, err := h.service.GetVote(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, vote)
}

// ListPollVotes godoc
// @Summary      Lists the votes of a poll
// @Tags         votes
// @Produce      json
// @Param        pollID  path      int  true   "Poll ID"
// @Param        offset  query     int  false  "Number of votes to skip"
// @Success      200     {object}  listResponse[domain.Vote]
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/votes/polls/{pollID} [get]
func (h *VoteHandler) ListPollVotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	pollID, ok := pollIDParam(w, r, "pollID")
	if !ok {
		return
	}
	offset, ok := offsetParam(w, r)
	if !ok {
		return
	}

	votes, count, err := h.service.ListPollVotes(r.Context(), actor, pollID, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[domain.Vote]{Items: votes, Count: count, Offset: offset})
}

// DeleteVote godoc
// @Summary      Deletes a vote
// @Tags         votes
// @Param        id   path      string  true  "Vote ID"  Format(uuid)
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/votes/{id} [delete]
func (h *VoteHandler) DeleteVote(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	id, ok := voteIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteVote(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func voteIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid vote id"})
		return uuid.Nil, false
	}
	return id, true
}
