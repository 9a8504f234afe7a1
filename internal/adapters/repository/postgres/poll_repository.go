package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// NewPollRepository returns the poll entity. Reads load the poll's options in
// insertion order.
func NewPollRepository() *Entity[domain.Poll] {
	return &Entity[domain.Poll]{table: pollsTable, scan: scanPoll, preload: preloadOptions}
}

func NewOptionRepository() *Entity[domain.Option] {
	return &Entity[domain.Option]{table: optionsTable, scan: scanOption}
}

func scanPoll(row scanner) (*domain.Poll, error) {
	var (
		p           domain.Poll
		description sql.NullString
		expiresAt   sql.NullTime
		authorID    sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &description, &p.MultipleChoice, &p.Anonymous, &p.CreatedAt, &expiresAt, &authorID)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if expiresAt.Valid {
		p.ExpiresAt = &expiresAt.Time
	}
	if authorID.Valid {
		p.AuthorID = &authorID.String
	}
	p.Options = []domain.Option{}
	return &p, nil
}

func scanOption(row scanner) (*domain.Option, error) {
	var o domain.Option
	if err := row.Scan(&o.ID, &o.PollID, &o.Title); err != nil {
		return nil, err
	}
	return &o, nil
}

func preloadOptions(ctx context.Context, q querier, polls []*domain.Poll) error {
	ids := make([]int64, len(polls))
	byID := make(map[int64]*domain.Poll, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query := `
		SELECT id, poll_id, title
		FROM options
		WHERE poll_id = ANY($1)
		ORDER BY ordinal
	`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		if p, ok := byID[o.PollID]; ok {
			p.Options = append(p.Options, *o)
		}
	}
	return rows.Err()
}
