package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

func castVote(t *testing.T, st *Store, voterID string, pollID int64, optionIDs ...uuid.UUID) *domain.Vote {
	t.Helper()
	votes := NewVoteRepository()
	var v *domain.Vote
	inSession(t, st, func(s ports.Session) {
		g, err := votes.Stage(ports.Record{"voter_id": voterID, "poll_id": pollID})
		require.NoError(t, err)
		keys := make([]any, len(optionIDs))
		for i, id := range optionIDs {
			keys[i] = id
		}
		require.NoError(t, g.Attach("selected_options", keys...))
		v, err = votes.Save(context.Background(), s, g)
		require.NoError(t, err)
	})
	return v
}

func TestCreateNestedPoll(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	author := createUser(t, st)
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)

	poll := createPoll(t, st, ports.Record{
		"title":           "Lunch?",
		"description":     "Friday",
		"multiple_choice": true,
		"expires_at":      expires,
		"author_id":       author.ID,
		"options":         []ports.Record{{"title": "Pizza"}, {"title": "Sushi"}, {"title": "Tacos"}},
	})

	require.NotZero(t, poll.ID)
	assert.Equal(t, "Lunch?", poll.Title)
	require.NotNil(t, poll.Description)
	assert.Equal(t, "Friday", *poll.Description)
	assert.True(t, poll.MultipleChoice)
	assert.False(t, poll.Anonymous)
	assert.False(t, poll.CreatedAt.IsZero())
	require.NotNil(t, poll.ExpiresAt)
	assert.True(t, expires.Equal(*poll.ExpiresAt))
	require.NotNil(t, poll.AuthorID)
	assert.Equal(t, author.ID, *poll.AuthorID)

	require.Len(t, poll.Options, 3)
	titles := []string{poll.Options[0].Title, poll.Options[1].Title, poll.Options[2].Title}
	assert.Equal(t, []string{"Pizza", "Sushi", "Tacos"}, titles)
	for _, o := range poll.Options {
		assert.Equal(t, poll.ID, o.PollID)
	}

	var reread *domain.Poll
	inSession(t, st, func(s ports.Session) {
		var err error
		reread, err = NewPollRepository().Read(ctx, s, poll.ID)
		require.NoError(t, err)
	})
	assert.Equal(t, poll.Options, reread.Options)
}

func TestCreateNestedPollIsAtomic(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	title := fmt.Sprintf("atomic-%s", uuid.New())
	option := fmt.Sprintf("fine-%s", uuid.New())

	err := st.WithSession(ctx, func(s ports.Session) error {
		_, err := NewPollRepository().Create(ctx, s, ports.Record{
			"title":   title,
			"options": []ports.Record{{"title": option}, {"title": ""}},
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrEngine)

	assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM polls WHERE title = $1", title))
	assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM options WHERE title = $1", option))
}

func TestCreateWithParentRecord(t *testing.T) {
	st := storeFor(t)
	email := newEmail()

	poll := createPoll(t, st, ports.Record{
		"title":   "Who wrote me?",
		"author":  ports.Record{"id": email},
		"options": []ports.Record{{"title": "Me"}},
	})

	require.NotNil(t, poll.AuthorID)
	assert.Equal(t, email, *poll.AuthorID)
	assert.Equal(t, 1, countRows(t, st, "SELECT COUNT(*) FROM users WHERE id = $1", email))
}

func TestCreateIntegrityConflict(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	user := createUser(t, st)

	err := st.WithSession(ctx, func(s ports.Session) error {
		_, err := NewUserRepository().Create(ctx, s, ports.Record{"id": user.ID})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrIntegrityConflict)
	assert.Equal(t, "users_pkey", domain.ConstraintOf(err))

	err = st.WithSession(ctx, func(s ports.Session) error {
		_, err := NewPollRepository().Create(ctx, s, ports.Record{"title": "orphan", "author_id": newEmail()})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrIntegrityConflict)
}

func TestSessionUsableAfterFailedWrite(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	user := createUser(t, st)
	users := NewUserRepository()

	inSession(t, st, func(s ports.Session) {
		_, err := users.Create(ctx, s, ports.Record{"id": user.ID})
		require.ErrorIs(t, err, domain.ErrIntegrityConflict)

		got, err := users.Read(ctx, s, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})
}

func TestReadMissingIsAbsent(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()

	inSession(t, st, func(s ports.Session) {
		poll, err := NewPollRepository().Read(ctx, s, int64(999999999))
		assert.NoError(t, err)
		assert.Nil(t, poll)

		vote, err := NewVoteRepository().Read(ctx, s, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, vote)

		user, err := NewUserRepository().Read(ctx, s, newEmail(), ports.ForUpdate())
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestReadManyPagination(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()

	ids := make([]any, 10)
	for i := range ids {
		ids[i] = createUser(t, st).ID
	}

	inSession(t, st, func(s ports.Session) {
		users, count, err := NewUserRepository().ReadMany(ctx, s, ids, ports.Offset(2), ports.Limit(3))
		require.NoError(t, err)
		assert.Len(t, users, 3)
		assert.Equal(t, 3, count)

		all, count, err := NewUserRepository().ReadMany(ctx, s, ids)
		require.NoError(t, err)
		assert.Equal(t, 10, count)
		assert.Equal(t, all[2:5], users)

		tail, count, err := NewUserRepository().ReadMany(ctx, s, ids, ports.Offset(8), ports.Limit(5))
		require.NoError(t, err)
		assert.Len(t, tail, 2)
		assert.Equal(t, 2, count)
	})
}

func TestReadManyByColumn(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	poll := createPoll(t, st, ports.Record{
		"title":   "By column",
		"options": []ports.Record{{"title": "A"}, {"title": "B"}},
	})

	inSession(t, st, func(s ports.Session) {
		options, count, err := NewOptionRepository().ReadMany(ctx, s, []any{poll.ID}, ports.ByColumn("poll_id"))
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.ElementsMatch(t, []uuid.UUID{poll.Options[0].ID, poll.Options[1].ID}, []uuid.UUID{options[0].ID, options[1].ID})
	})
}

func TestUpdate(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	polls := NewPollRepository()
	poll := createPoll(t, st, ports.Record{
		"title":       "Before",
		"description": "kept",
		"options":     []ports.Record{{"title": "A"}},
	})

	t.Run("applies only present fields", func(t *testing.T) {
		inSession(t, st, func(s ports.Session) {
			updated, err := polls.Update(ctx, s, poll.ID, "id", ports.Record{"title": "After", "anonymous": true})
			require.NoError(t, err)
			assert.Equal(t, "After", updated.Title)
			assert.True(t, updated.Anonymous)
			require.NotNil(t, updated.Description)
			assert.Equal(t, "kept", *updated.Description)
			assert.Len(t, updated.Options, 1)
		})
	})

	t.Run("missing row is not found", func(t *testing.T) {
		err := st.WithSession(ctx, func(s ports.Session) error {
			_, err := polls.Update(ctx, s, int64(999999999), "id", ports.Record{"title": "x"})
			return err
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("conflicting key is an integrity conflict", func(t *testing.T) {
		a, b := createUser(t, st), createUser(t, st)
		err := st.WithSession(ctx, func(s ports.Session) error {
			_, err := NewUserRepository().Update(ctx, s, a.ID, "id", ports.Record{"id": b.ID})
			return err
		})
		assert.ErrorIs(t, err, domain.ErrIntegrityConflict)
	})

	t.Run("follows a changed lookup value", func(t *testing.T) {
		a := createUser(t, st)
		renamed := newEmail()
		inSession(t, st, func(s ports.Session) {
			u, err := NewUserRepository().Update(ctx, s, a.ID, "id", ports.Record{"id": renamed})
			require.NoError(t, err)
			require.NotNil(t, u)
			assert.Equal(t, renamed, u.ID)
		})
	})
}

func TestUpdateMany(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	users := NewUserRepository()
	a, b := createUser(t, st), createUser(t, st)
	missing := newEmail()

	inSession(t, st, func(s ports.Session) {
		updated, err := users.UpdateMany(ctx, s, map[any]ports.Record{
			a.ID:    {"active": false},
			b.ID:    {"is_superuser": true},
			missing: {"active": false},
		}, "id", true)
		require.NoError(t, err)
		require.Len(t, updated, 2)

		byID := map[string]*domain.User{updated[0].ID: updated[0], updated[1].ID: updated[1]}
		assert.False(t, byID[a.ID].Active)
		assert.False(t, byID[a.ID].IsSuperuser)
		assert.True(t, byID[b.ID].Active)
		assert.True(t, byID[b.ID].IsSuperuser)
	})
	assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM users WHERE id = $1", missing))

	inSession(t, st, func(s ports.Session) {
		updated, err := users.UpdateMany(ctx, s, map[any]ports.Record{a.ID: {"active": true}}, "id", false)
		require.NoError(t, err)
		assert.Nil(t, updated)

		got, err := users.Read(ctx, s, a.ID)
		require.NoError(t, err)
		assert.True(t, got.Active)
	})
}

func TestUpdateManyUUIDKeys(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	poll := createPoll(t, st, ports.Record{
		"title":   "Rename options",
		"options": []ports.Record{{"title": "A"}, {"title": "B"}},
	})

	inSession(t, st, func(s ports.Session) {
		updated, err := NewOptionRepository().UpdateMany(ctx, s, map[any]ports.Record{
			poll.Options[0].ID: {"title": "A2"},
			poll.Options[1].ID: {"title": "B2"},
		}, "", true)
		require.NoError(t, err)
		require.Len(t, updated, 2)
		assert.ElementsMatch(t, []string{"A2", "B2"}, []string{updated[0].Title, updated[1].Title})
	})
}

func TestDelete(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	users := NewUserRepository()
	a, b, c := createUser(t, st), createUser(t, st), createUser(t, st)

	inSession(t, st, func(s ports.Session) {
		n, err := users.Delete(ctx, s, a.ID, "id")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = users.Delete(ctx, s, a.ID, "id")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = users.DeleteMany(ctx, s, []any{b.ID, c.ID, newEmail()}, "id")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})
}

func TestDeleteManyEmptyDeletesNothing(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	createUser(t, st)
	before := countRows(t, st, "SELECT COUNT(*) FROM users")

	err := st.WithSession(ctx, func(s ports.Session) error {
		_, err := NewUserRepository().DeleteMany(ctx, s, []any{}, "id")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrEngine)
	assert.Equal(t, before, countRows(t, st, "SELECT COUNT(*) FROM users"))
}

func TestStageAndAttachVote(t *testing.T) {
	st := storeFor(t)
	voter := createUser(t, st)
	poll := createPoll(t, st, ports.Record{
		"title":           "Pick two",
		"multiple_choice": true,
		"options":         []ports.Record{{"title": "A"}, {"title": "B"}, {"title": "C"}},
	})

	vote := castVote(t, st, voter.ID, poll.ID, poll.Options[0].ID, poll.Options[2].ID)
	assert.Equal(t, voter.ID, vote.VoterID)
	assert.Equal(t, poll.ID, vote.PollID)
	require.Len(t, vote.SelectedOptions, 2)
	assert.Equal(t, poll.Options[0].ID, vote.SelectedOptions[0].ID)
	assert.Equal(t, poll.Options[2].ID, vote.SelectedOptions[1].ID)

	inSession(t, st, func(s ports.Session) {
		links, count, err := NewVoteOptionLinkRepository().ReadMany(context.Background(), s, []any{vote.ID}, ports.ByColumn("vote_id"))
		require.NoError(t, err)
		require.Equal(t, 2, count)
		got := []uuid.UUID{links[0].OptionID, links[1].OptionID}
		for _, l := range links {
			assert.Equal(t, vote.ID, l.VoteID)
		}
		assert.ElementsMatch(t, []uuid.UUID{poll.Options[0].ID, poll.Options[2].ID}, got)
	})
}

func TestSaveGraphOnce(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	polls := NewPollRepository()

	g, err := polls.Stage(ports.Record{"title": "Once", "options": []ports.Record{{"title": "A"}}})
	require.NoError(t, err)

	inSession(t, st, func(s ports.Session) {
		_, err := polls.Save(ctx, s, g)
		require.NoError(t, err)

		_, err = polls.Save(ctx, s, g)
		assert.ErrorIs(t, err, domain.ErrEngine)
	})
}

func TestUniqueVotePerPoll(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	voter := createUser(t, st)
	poll := createPoll(t, st, ports.Record{"title": "Once only", "options": []ports.Record{{"title": "A"}, {"title": "B"}}})
	castVote(t, st, voter.ID, poll.ID, poll.Options[0].ID)

	err := st.WithSession(ctx, func(s ports.Session) error {
		_, err := NewVoteRepository().Create(ctx, s, ports.Record{"voter_id": voter.ID, "poll_id": poll.ID})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrIntegrityConflict)
	assert.Equal(t, domain.UniqueVotePerPoll, domain.ConstraintOf(err))
}

func TestCascadeDeletion(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()

	t.Run("deleting a poll removes its options, votes and links", func(t *testing.T) {
		voter := createUser(t, st)
		poll := createPoll(t, st, ports.Record{"title": "Doomed", "options": []ports.Record{{"title": "A"}, {"title": "B"}}})
		vote := castVote(t, st, voter.ID, poll.ID, poll.Options[1].ID)

		inSession(t, st, func(s ports.Session) {
			n, err := NewPollRepository().Delete(ctx, s, poll.ID, "id")
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)
		})

		assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM options WHERE poll_id = $1", poll.ID))
		assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM votes WHERE poll_id = $1", poll.ID))
		assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM vote_option_links WHERE vote_id = $1", vote.ID))
		assert.Equal(t, 1, countRows(t, st, "SELECT COUNT(*) FROM users WHERE id = $1", voter.ID))
	})

	t.Run("deleting a user keeps authored polls and removes cast votes", func(t *testing.T) {
		author := createUser(t, st)
		other := createUser(t, st)
		poll := createPoll(t, st, ports.Record{"title": "Survivor", "author_id": author.ID, "options": []ports.Record{{"title": "A"}}})
		castVote(t, st, author.ID, poll.ID, poll.Options[0].ID)
		kept := castVote(t, st, other.ID, poll.ID, poll.Options[0].ID)

		inSession(t, st, func(s ports.Session) {
			_, err := NewUserRepository().Delete(ctx, s, author.ID, "id")
			require.NoError(t, err)

			survivor, err := NewPollRepository().Read(ctx, s, poll.ID)
			require.NoError(t, err)
			require.NotNil(t, survivor)
			assert.Nil(t, survivor.AuthorID)
			assert.Len(t, survivor.Options, 1)

			votes, count, err := NewVoteRepository().ReadMany(ctx, s, []any{poll.ID}, ports.ByColumn("poll_id"))
			require.NoError(t, err)
			assert.Equal(t, 1, count)
			assert.Equal(t, kept.ID, votes[0].ID)
		})
	})

	t.Run("deleting an option removes the votes that selected it", func(t *testing.T) {
		a, b := createUser(t, st), createUser(t, st)
		poll := createPoll(t, st, ports.Record{
			"title":           "Trim",
			"multiple_choice": true,
			"options":         []ports.Record{{"title": "A"}, {"title": "B"}},
		})
		gone := castVote(t, st, a.ID, poll.ID, poll.Options[0].ID, poll.Options[1].ID)
		kept := castVote(t, st, b.ID, poll.ID, poll.Options[1].ID)

		inSession(t, st, func(s ports.Session) {
			_, err := NewOptionRepository().Delete(ctx, s, poll.Options[0].ID, "id")
			require.NoError(t, err)
		})

		assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM votes WHERE id = $1", gone.ID))
		assert.Zero(t, countRows(t, st, "SELECT COUNT(*) FROM vote_option_links WHERE vote_id = $1", gone.ID))
		assert.Equal(t, 1, countRows(t, st, "SELECT COUNT(*) FROM votes WHERE id = $1", kept.ID))
	})
}

func TestReadForUpdateBlocksConcurrentWriter(t *testing.T) {
	st := storeFor(t)
	ctx := context.Background()
	user := createUser(t, st)
	users := NewUserRepository()

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan time.Time, 1)

	go func() {
		_ = st.WithSession(ctx, func(s ports.Session) error {
			if _, err := users.Read(ctx, s, user.ID, ports.ForUpdate()); err != nil {
				return err
			}
			close(locked)
			<-release
			return s.Rollback()
		})
	}()

	<-locked
	go func() {
		_ = st.WithSession(ctx, func(s ports.Session) error {
			_, err := users.Update(ctx, s, user.ID, "id", ports.Record{"is_superuser": true})
			done <- time.Now()
			return err
		})
	}()

	time.Sleep(200 * time.Millisecond)
	released := time.Now()
	close(release)

	finished := <-done
	assert.False(t, finished.Before(released))
}
