package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// NewVoteRepository returns the vote entity. Reads load the selected options
// through vote_option_links.
func NewVoteRepository() *Entity[domain.Vote] {
	return &Entity[domain.Vote]{table: votesTable, scan: scanVote, preload: preloadSelectedOptions}
}

func NewVoteOptionLinkRepository() *Entity[domain.VoteOptionLink] {
	return &Entity[domain.VoteOptionLink]{table: voteOptionLinksTable, scan: scanVoteOptionLink}
}

func scanVote(row scanner) (*domain.Vote, error) {
	var v domain.Vote
	if err := row.Scan(&v.ID, &v.VoterID, &v.PollID, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.SelectedOptions = []domain.Option{}
	return &v, nil
}

func scanVoteOptionLink(row scanner) (*domain.VoteOptionLink, error) {
	var l domain.VoteOptionLink
	if err := row.Scan(&l.VoteID, &l.OptionID); err != nil {
		return nil, err
	}
	return &l, nil
}

func preloadSelectedOptions(ctx context.Context, q querier, votes []*domain.Vote) error {
	ids := make([]string, len(votes))
	byID := make(map[uuid.UUID]*domain.Vote, len(votes))
	for i, v := range votes {
		ids[i] = v.ID.String()
		byID[v.ID] = v
	}

	query := `
		SELECT l.vote_id, o.id, o.poll_id, o.title
		FROM vote_option_links l
		JOIN options o ON o.id = l.option_id
		WHERE l.vote_id = ANY($1::uuid[])
		ORDER BY o.ordinal
	`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load selected options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			voteID uuid.UUID
			o      domain.Option
		)
		if err := rows.Scan(&voteID, &o.ID, &o.PollID, &o.Title); err != nil {
			return fmt.Errorf("failed to scan selected option: %w", err)
		}
		if v, ok := byID[voteID]; ok {
			v.SelectedOptions = append(v.SelectedOptions, o)
		}
	}
	return rows.Err()
}
