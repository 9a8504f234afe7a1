package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type PollResultRepository interface {
	SummarizeVotes(ctx context.Context, pollID int64) error
	GetPollOptionStats(ctx context.Context, pollID int64) (map[uuid.UUID]domain.PollOptionStats, error)
}

type SummaryService interface {
	SummarizeAllVotes(ctx context.Context) error
}
