package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	MultipleChoice bool       `json:"multiple_choice"`
	Anonymous      bool       `json:"anonymous"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Options        []string   `json:"options"`
}

type listResponse[T any] struct {
	Items  []*T `json:"items"`
	Count  int  `json:"count"`
	Offset int  `json:"offset"`
}

// CreatePoll godoc
// @Summary      Creates a poll with its options
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        poll  body      createPollRequest  true  "Poll"
// @Success      201   {object}  domain.Poll
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	poll, err := h.service.CreatePollWithOptions(r.Context(), actor, ports.CreatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		MultipleChoice: req.MultipleChoice,
		Anonymous:      req.Anonymous,
		ExpiresAt:      req.ExpiresAt,
		Options:        req.Options,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

// GetPoll godoc
// @Summary      Gets a poll with its results
// @Tags         polls
// @Produce      json
// @Param        id   path      int  true  "Poll ID"
// @Success      200  {object}  domain.Poll
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/polls/{id} [get]
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDParam(w, r, "id")
	if !ok {
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

// ListPolls godoc
// @Summary      Lists polls
// @Tags         polls
// @Produce      json
// @Param        offset  query     int  false  "Number of polls to skip"
// @Success      200     {object}  listResponse[domain.Poll]
// @Failure      400     {object}  errorResponse
// @Router       /api/v1/polls [get]
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	offset, ok := offsetParam(w, r)
	if !ok {
		return
	}

	polls, count, err := h.service.ListPolls(r.Context(), offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[domain.Poll]{Items: polls, Count: count, Offset: offset})
}

// DeletePoll godoc
// @Summary      Deletes a poll with its options and votes
// @Tags         polls
// @Param        id   path      int  true  "Poll ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/polls/{id} [delete]
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	actor, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	id, ok := pollIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePoll(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pollIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid poll id"})
		return 0, false
	}
	return id, true
}

func offsetParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, true
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid offset"})
		return 0, false
	}
	return offset, true
}
