package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	store               ports.SessionRunner
	users               ports.UserService
	tokens              ports.EntityStore[domain.RefreshToken]
	googleTokenVerifier ports.TokenVerifier
	jwtSecret           []byte
	googleClientID      string
	settings
}

func NewAuthService(
	store ports.SessionRunner,
	users ports.UserService,
	tokens ports.EntityStore[domain.RefreshToken],
	googleTokenVerifier ports.TokenVerifier,
	jwtSecret, googleClientID string,
	opts ...Option,
) *AuthService {
	return &AuthService{
		store:               store,
		users:               users,
		tokens:              tokens,
		googleTokenVerifier: googleTokenVerifier,
		jwtSecret:           []byte(jwtSecret),
		googleClientID:      googleClientID,
		settings:            newSettings(opts),
	}
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (string, string, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid google token: %v", domain.ErrUnauthenticated, err)
	}

	user, err := s.users.EnsureUser(ctx, payload.Email)
	if err != nil {
		return "", "", err
	}
	if !user.Active {
		return "", "", domain.ErrInactiveUser
	}

	return s.issue(ctx, user)
}

// RefreshAccessToken exchanges a valid refresh token for a new token pair.
// The presented refresh token is revoked.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	var rt *domain.RefreshToken
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		rt, err = s.tokens.Read(ctx, sess, hashToken(refreshToken), ports.ByColumn("token_hash"), ports.ForUpdate())
		if err != nil {
			return fmt.Errorf("failed to get refresh token: %w", err)
		}
		if rt == nil {
			return fmt.Errorf("%w: refresh token not found", domain.ErrUnauthenticated)
		}
		if rt.Revoked {
			return fmt.Errorf("%w: refresh token revoked", domain.ErrUnauthenticated)
		}
		if !s.now().Before(rt.ExpiresAt) {
			return fmt.Errorf("%w: refresh token expired", domain.ErrUnauthenticated)
		}

		_, err = s.tokens.Update(ctx, sess, rt.ID, ports.DefaultLookupColumn, ports.Record{"revoked": true})
		return err
	})
	if err != nil {
		return "", "", err
	}

	user, err := s.users.Authenticate(ctx, rt.UserID)
	if err != nil {
		return "", "", err
	}

	return s.issue(ctx, user)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.store.WithSession(ctx, func(sess ports.Session) error {
		rt, err := s.tokens.Read(ctx, sess, hashToken(refreshToken), ports.ByColumn("token_hash"))
		if err != nil {
			return fmt.Errorf("failed to get refresh token: %w", err)
		}
		if rt == nil || rt.Revoked {
			return nil
		}

		_, err = s.tokens.Update(ctx, sess, rt.ID, ports.DefaultLookupColumn, ports.Record{"revoked": true})
		return err
	})
}

// ParseAccessToken validates an access token and returns its subject.
func (s *AuthService) ParseAccessToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}
	return sub, nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	err = s.store.WithSession(ctx, func(sess ports.Session) error {
		_, err := s.tokens.Create(ctx, sess, ports.Record{
			"user_id":    user.ID,
			"token_hash": hashToken(refreshToken),
			"expires_at": s.now().Add(refreshTokenTTL),
		})
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": now.Add(accessTokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
