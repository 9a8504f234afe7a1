package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
	"github.com/vncsmyrnk/polls/internal/core/services"
)

type fakeVerifier struct {
	email string
	err   error
}

func (f fakeVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ports.TokenPayload{Email: f.email, Name: "Test"}, nil
}

func newAuth(a *app, v ports.TokenVerifier) *services.AuthService {
	return services.NewAuthService(a.store, a.users, postgres.NewRefreshTokenRepository(), v,
		"test-secret", "client-id", services.WithClock(a.clock.Now))
}

func TestLoginWithGoogle(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	email := fmt.Sprintf("user-%s@example.com", uuid.New())
	auth := newAuth(a, fakeVerifier{email: email})

	access, refresh, err := auth.LoginWithGoogle(ctx, "google-token")
	require.NoError(t, err)
	assert.NotEmpty(t, refresh)

	sub, err := auth.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, email, sub)

	user, err := a.users.GetByID(ctx, email)
	require.NoError(t, err)
	assert.True(t, user.Active)

	_, _, err = newAuth(a, fakeVerifier{err: errors.New("bad token")}).LoginWithGoogle(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLoginInactiveUser(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	user := a.newUser(t)
	_, err := a.users.Deactivate(ctx, a.newAdmin(t), user.Email)
	require.NoError(t, err)

	_, _, err = newAuth(a, fakeVerifier{email: user.Email}).LoginWithGoogle(ctx, "google-token")
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestRefreshRotatesToken(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	auth := newAuth(a, fakeVerifier{email: fmt.Sprintf("user-%s@example.com", uuid.New())})

	_, refresh, err := auth.LoginWithGoogle(ctx, "google-token")
	require.NoError(t, err)

	access, rotated, err := auth.RefreshAccessToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, rotated)
	_, err = auth.ParseAccessToken(access)
	assert.NoError(t, err)

	_, _, err = auth.RefreshAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, _, err = auth.RefreshAccessToken(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRefreshExpiredAndLogout(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()
	auth := newAuth(a, fakeVerifier{email: fmt.Sprintf("user-%s@example.com", uuid.New())})

	_, refresh, err := auth.LoginWithGoogle(ctx, "google-token")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, refresh))
	require.NoError(t, auth.Logout(ctx, refresh))
	require.NoError(t, auth.Logout(ctx, "unknown"))
	_, _, err = auth.RefreshAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, refresh, err = auth.LoginWithGoogle(ctx, "google-token")
	require.NoError(t, err)
	a.clock.Set(a.clock.Now().Add(8 * 24 * time.Hour))
	_, _, err = auth.RefreshAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestParseAccessToken(t *testing.T) {
	a := setupApp(t)
	auth := newAuth(a, fakeVerifier{})
	now := a.clock.Now()

	sign := func(claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	valid := sign(jwt.MapClaims{"sub": "a@example.com", "exp": now.Add(time.Minute).Unix()}, jwt.SigningMethodHS256, []byte("test-secret"))
	sub, err := auth.ParseAccessToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", sub)

	tests := map[string]string{
		"expired":      sign(jwt.MapClaims{"sub": "a@example.com", "exp": now.Add(-time.Minute).Unix()}, jwt.SigningMethodHS256, []byte("test-secret")),
		"no expiry":    sign(jwt.MapClaims{"sub": "a@example.com"}, jwt.SigningMethodHS256, []byte("test-secret")),
		"wrong secret": sign(jwt.MapClaims{"sub": "a@example.com", "exp": now.Add(time.Minute).Unix()}, jwt.SigningMethodHS256, []byte("other")),
		"wrong method": sign(jwt.MapClaims{"sub": "a@example.com", "exp": now.Add(time.Minute).Unix()}, jwt.SigningMethodHS512, []byte("test-secret")),
		"missing sub":  sign(jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}, jwt.SigningMethodHS256, []byte("test-secret")),
		"not a jwt":    "garbage",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ParseAccessToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}
