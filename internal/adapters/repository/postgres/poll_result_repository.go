package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(st *Store) ports.PollResultRepository {
	return &pollResultRepository{
		db: st.DB(),
	}
}

// GetPollOptionStats reads the last summarized counts of a poll. Options
// without a summary row are absent from the result.
func (r *pollResultRepository) GetPollOptionStats(ctx context.Context, pollID int64) (map[uuid.UUID]domain.PollOptionStats, error) {
	query := `
		SELECT option_id, vote_count
		FROM poll_results
		WHERE poll_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	var total int64
	for rows.Next() {
		var (
			optionID uuid.UUID
			count    int64
		)
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		counts[optionID] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}

	result := make(map[uuid.UUID]domain.PollOptionStats, len(counts))
	for optionID, count := range counts {
		percentage := 0.0
		if total > 0 {
			percentage = (float64(count) / float64(total)) * 100
		}
		result[optionID] = domain.PollOptionStats{
			VoteCount:  count,
			Percentage: percentage,
		}
	}

	return result, nil
}

// SummarizeVotes recounts the selections of every option of a poll,
// including options nobody picked.
func (r *pollResultRepository) SummarizeVotes(ctx context.Context, pollID int64) error {
	query := `
		INSERT INTO poll_results (poll_id, option_id, vote_count, last_updated_at)
		SELECT o.poll_id, o.id, COUNT(l.vote_id), NOW()
		FROM options o
		LEFT JOIN vote_option_links l ON l.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.poll_id, o.id
		ON CONFLICT (poll_id, option_id) DO UPDATE
		SET vote_count = EXCLUDED.vote_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, pollID)
	if err != nil {
		return fmt.Errorf("failed to summarize votes for poll %d: %w", pollID, err)
	}

	return nil
}
