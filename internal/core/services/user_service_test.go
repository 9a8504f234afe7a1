package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func TestEnsureUser(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	email := fmt.Sprintf("user-%s@example.com", uuid.New())

	created, err := a.users.EnsureUser(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, email, created.ID)
	assert.True(t, created.Active)
	assert.False(t, created.IsSuperuser)

	again, err := a.users.EnsureUser(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created, again)
}

func TestEnsureUserConcurrentFirstLogin(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	email := fmt.Sprintf("user-%s@example.com", uuid.New())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.users.EnsureUser(ctx, email)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestAuthenticateAndDeactivate(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	user := a.newUser(t)
	admin := a.newAdmin(t)

	got, err := a.users.Authenticate(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.ID)

	_, err = a.users.Deactivate(ctx, user, admin.Email)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	deactivated, err := a.users.Deactivate(ctx, admin, user.Email)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	_, err = a.users.Authenticate(ctx, user.Email)
	assert.ErrorIs(t, err, domain.ErrInactiveUser)

	stored, err := a.users.GetByID(ctx, user.Email)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	_, err = a.users.Deactivate(ctx, admin, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = a.users.Authenticate(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
