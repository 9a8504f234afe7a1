package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteService struct {
	store   ports.SessionRunner
	users   ports.EntityStore[domain.User]
	polls   ports.EntityStore[domain.Poll]
	options ports.EntityStore[domain.Option]
	votes   ports.EntityStore[domain.Vote]
	settings
}

func NewVoteService(
	store ports.SessionRunner,
	users ports.EntityStore[domain.User],
	polls ports.EntityStore[domain.Poll],
	options ports.EntityStore[domain.Option],
	votes ports.EntityStore[domain.Vote],
	opts ...Option,
) ports.VoteService {
	return &voteService{
		store:    store,
		users:    users,
		polls:    polls,
		options:  options,
		votes:    votes,
		settings: newSettings(opts),
	}
}

// CreateVote validates and stores a vote in one transaction. The voter row is
// locked for the whole check, and the (voter, poll) unique constraint backs
// it up.
func (s *voteService) CreateVote(ctx context.Context, voterID string, pollID int64, optionIDs []uuid.UUID) (*domain.Vote, error) {
	if len(optionIDs) == 0 {
		return nil, domain.ErrNoOptionsSelected
	}

	var vote *domain.Vote
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		voter, err := s.users.Read(ctx, sess, voterID, ports.ForUpdate())
		if err != nil {
			return fmt.Errorf("failed to lock voter: %w", err)
		}
		if voter == nil {
			return domain.ErrUserNotFound
		}

		poll, err := s.polls.Read(ctx, sess, pollID)
		if err != nil {
			return fmt.Errorf("failed to get poll: %w", err)
		}
		if poll == nil {
			return domain.ErrPollNotFound
		}

		existing, _, err := s.votes.ReadMany(ctx, sess, []any{voterID}, ports.ByColumn("voter_id"))
		if err != nil {
			return fmt.Errorf("failed to get voter votes: %w", err)
		}
		for _, v := range existing {
			if v.PollID == pollID {
				return domain.ErrAlreadyVoted
			}
		}

		ids := make([]any, len(optionIDs))
		for i, id := range optionIDs {
			ids[i] = id
		}
		selected, count, err := s.options.ReadMany(ctx, sess, ids)
		if err != nil {
			return fmt.Errorf("failed to get options: %w", err)
		}
		if count != len(optionIDs) {
			return domain.ErrOptionsNotFound
		}
		for _, o := range selected {
			if o.PollID != pollID {
				return domain.ErrOptionsNotFound
			}
		}

		if count > 1 {
			current, err := s.polls.Read(ctx, sess, pollID)
			if err != nil {
				return fmt.Errorf("failed to get poll: %w", err)
			}
			if current == nil {
				return domain.ErrPollNotFound
			}
			if !current.MultipleChoice {
				return domain.ErrNotMultipleChoice
			}
		}

		poll, err = s.polls.Read(ctx, sess, pollID)
		if err != nil {
			return fmt.Errorf("failed to get poll: %w", err)
		}
		if poll == nil {
			return domain.ErrPollNotFound
		}
		if poll.ClosedAt(s.now()) {
			return domain.ErrVotingClosed
		}

		g, err := s.votes.Stage(ports.Record{"voter_id": voterID, "poll_id": pollID})
		if err != nil {
			return err
		}
		if err := g.Attach("selected_options", ids...); err != nil {
			return err
		}
		vote, err = s.votes.Save(ctx, sess, g)
		if domain.ConstraintOf(err) == domain.UniqueVotePerPoll {
			return domain.ErrAlreadyVoted
		}
		if err != nil {
			return fmt.Errorf("failed to save vote: %w", err)
		}
		return nil
	})
	if err != nil {
		if isRejection(err) {
			slog.Info("vote rejected", "voter", voterID, "poll_id", pollID, "reason", err)
		} else {
			slog.Error("failed to create vote", "voter", voterID, "poll_id", pollID, "error", err)
		}
		return nil, err
	}

	slog.Info("vote created", "vote_id", vote.ID, "poll_id", pollID)
	return vote, nil
}

func (s *voteService) GetVote(ctx context.Context, actor ports.Identity, id uuid.UUID) (*domain.Vote, error) {
	var vote *domain.Vote
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		v, err := s.votes.Read(ctx, sess, id)
		if err != nil {
			return fmt.Errorf("failed to get vote: %w", err)
		}
		if v == nil {
			return domain.ErrVoteNotFound
		}

		if v.VoterID != actor.Email && !actor.IsSuperuser {
			poll, err := s.polls.Read(ctx, sess, v.PollID)
			if err != nil {
				return fmt.Errorf("failed to get poll: %w", err)
			}
			if poll != nil && poll.Anonymous {
				return domain.ErrAnonymousPoll
			}
		}

		vote = v
		return nil
	})
	return vote, err
}

// ListPollVotes pages through the votes of a poll. Votes of an anonymous poll
// are listed to privileged users only.
func (s *voteService) ListPollVotes(ctx context.Context, actor ports.Identity, pollID int64, offset int) ([]*domain.Vote, int, error) {
	var (
		votes []*domain.Vote
		count int
	)
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		poll, err := s.polls.Read(ctx, sess, pollID)
		if err != nil {
			return fmt.Errorf("failed to get poll: %w", err)
		}
		if poll == nil {
			return domain.ErrPollNotFound
		}
		if poll.Anonymous && !actor.IsSuperuser {
			return domain.ErrAnonymousPoll
		}

		votes, count, err = s.votes.ReadMany(ctx, sess, []any{pollID},
			ports.ByColumn("poll_id"), ports.Offset(offset), ports.Limit(s.pageSize))
		if err != nil {
			return fmt.Errorf("failed to list votes: %w", err)
		}
		return nil
	})
	return votes, count, err
}

func (s *voteService) ListUserVotes(ctx context.Context, actor ports.Identity) ([]*domain.Vote, int, error) {
	var (
		votes []*domain.Vote
		count int
	)
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		votes, count, err = s.votes.ReadMany(ctx, sess, []any{actor.Email}, ports.ByColumn("voter_id"))
		if err != nil {
			return fmt.Errorf("failed to list votes: %w", err)
		}
		return nil
	})
	return votes, count, err
}

// DeleteVote removes a vote and its option links. Only the voter or a
// privileged user may do so.
func (s *voteService) DeleteVote(ctx context.Context, actor ports.Identity, id uuid.UUID) error {
	return s.store.WithSession(ctx, func(sess ports.Session) error {
		v, err := s.votes.Read(ctx, sess, id, ports.ForUpdate())
		if err != nil {
			return fmt.Errorf("failed to get vote: %w", err)
		}
		if v == nil {
			return domain.ErrVoteNotFound
		}
		if v.VoterID != actor.Email && !actor.IsSuperuser {
			return domain.ErrForbidden
		}

		if _, err := s.votes.Delete(ctx, sess, id, ports.DefaultLookupColumn); err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}
		slog.Info("vote deleted", "vote_id", id, "actor", actor.Email)
		return nil
	})
}

func isRejection(err error) bool {
	for _, target := range []error{
		domain.ErrAlreadyVoted,
		domain.ErrOptionsNotFound,
		domain.ErrNotMultipleChoice,
		domain.ErrVotingClosed,
		domain.ErrPollNotFound,
		domain.ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
