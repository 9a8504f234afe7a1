package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type summaryService struct {
	store          ports.SessionRunner
	polls          ports.EntityStore[domain.Poll]
	pollResultRepo ports.PollResultRepository
}

func NewSummaryService(store ports.SessionRunner, polls ports.EntityStore[domain.Poll], pollResultRepo ports.PollResultRepository) ports.SummaryService {
	return &summaryService{
		store:          store,
		polls:          polls,
		pollResultRepo: pollResultRepo,
	}
}

// SummarizeAllVotes recounts every poll concurrently and reports every
// failure.
func (s *summaryService) SummarizeAllVotes(ctx context.Context) error {
	var polls []*domain.Poll
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		polls, _, err = s.polls.ReadMany(ctx, sess, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(polls))

	for _, poll := range polls {
		wg.Add(1)
		go func(pollID int64) {
			defer wg.Done()
			if err := s.pollResultRepo.SummarizeVotes(ctx, pollID); err != nil {
				errChan <- fmt.Errorf("failed to summarize poll %d: %w", pollID, err)
			}
		}(poll.ID)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("votes summarized", "polls", len(polls))
	return nil
}
