package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type VoteService interface {
	CreateVote(ctx context.Context, voterID string, pollID int64, optionIDs []uuid.UUID) (*domain.Vote, error)
	GetVote(ctx context.Context, actor Identity, id uuid.UUID) (*domain.Vote, error)
	ListPollVotes(ctx context.Context, actor Identity, pollID int64, offset int) ([]*domain.Vote, int, error)
	ListUserVotes(ctx context.Context, actor Identity) ([]*domain.Vote, int, error)
	DeleteVote(ctx context.Context, actor Identity, id uuid.UUID) error
}
