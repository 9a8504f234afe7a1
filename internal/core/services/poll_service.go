package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type pollService struct {
	store   ports.SessionRunner
	polls   ports.EntityStore[domain.Poll]
	results ports.PollResultRepository
	settings
}

func NewPollService(store ports.SessionRunner, polls ports.EntityStore[domain.Poll], results ports.PollResultRepository, opts ...Option) ports.PollService {
	return &pollService{
		store:    store,
		polls:    polls,
		results:  results,
		settings: newSettings(opts),
	}
}

// CreatePollWithOptions stores a poll and its options as one unit.
func (s *pollService) CreatePollWithOptions(ctx context.Context, author ports.Identity, input ports.CreatePollInput) (*domain.Poll, error) {
	if !author.IsSuperuser {
		return nil, domain.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidPoll)
	}
	if len(input.Options) == 0 {
		return nil, fmt.Errorf("%w: at least one option is required", domain.ErrInvalidPoll)
	}

	options := make([]ports.Record, 0, len(input.Options))
	for _, opt := range input.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return nil, fmt.Errorf("%w: option title is required", domain.ErrInvalidPoll)
		}
		options = append(options, ports.Record{"title": opt})
	}

	data := ports.Record{
		"title":           title,
		"multiple_choice": input.MultipleChoice,
		"anonymous":       input.Anonymous,
		"author_id":       author.Email,
		"options":         options,
	}
	if input.Description != nil {
		data["description"] = *input.Description
	}
	if input.ExpiresAt != nil {
		data["expires_at"] = *input.ExpiresAt
	}

	var poll *domain.Poll
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		poll, err = s.polls.Create(ctx, sess, data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "author", author.Email, "options", len(poll.Options))
	return poll, nil
}

// GetPoll returns a poll with the last summarized result of each option.
func (s *pollService) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
	var poll *domain.Poll
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		poll, err = s.polls.Read(ctx, sess, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, domain.ErrPollNotFound
	}

	stats, err := s.results.GetPollOptionStats(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range poll.Options {
		if st, ok := stats[poll.Options[i].ID]; ok {
			poll.Options[i].VoteCount = st.VoteCount
			poll.Options[i].Percentage = st.Percentage
		}
	}

	return poll, nil
}

func (s *pollService) ListPolls(ctx context.Context, offset int) ([]*domain.Poll, int, error) {
	if offset < 0 {
		offset = 0
	}

	var (
		polls []*domain.Poll
		count int
	)
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		polls, count, err = s.polls.ReadMany(ctx, sess, nil, ports.Offset(offset), ports.Limit(s.pageSize))
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, count, nil
}

// DeletePoll removes a poll together with its options, votes and links.
func (s *pollService) DeletePoll(ctx context.Context, actor ports.Identity, id int64) error {
	if !actor.IsSuperuser {
		return domain.ErrForbidden
	}

	var deleted int64
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		deleted, err = s.polls.Delete(ctx, sess, id, ports.DefaultLookupColumn)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if deleted == 0 {
		return domain.ErrPollNotFound
	}

	slog.Info("poll deleted", "poll_id", id, "actor", actor.Email)
	return nil
}
