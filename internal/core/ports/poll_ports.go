package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type CreatePollInput struct {
	Title          string
	Description    *string
	MultipleChoice bool
	Anonymous      bool
	ExpiresAt      *time.Time
	Options        []string
}

type PollService interface {
	CreatePollWithOptions(ctx context.Context, author Identity, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id int64) (*domain.Poll, error)
	ListPolls(ctx context.Context, offset int) ([]*domain.Poll, int, error)
	DeletePoll(ctx context.Context, actor Identity, id int64) error
}
