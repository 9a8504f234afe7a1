package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type UserService struct {
	store ports.SessionRunner
	users ports.EntityStore[domain.User]
}

func NewUserService(store ports.SessionRunner, users ports.EntityStore[domain.User]) ports.UserService {
	return &UserService{
		store: store,
		users: users,
	}
}

// EnsureUser returns the user for email, creating it on first login. A
// concurrent first login surfaces as an integrity conflict and is resolved by
// reading the row the other request created.
func (s *UserService) EnsureUser(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		user, err = s.users.Read(ctx, sess, email)
		if err != nil || user != nil {
			return err
		}

		user, err = s.users.Create(ctx, sess, ports.Record{"id": email})
		if errors.Is(err, domain.ErrIntegrityConflict) {
			user, err = s.users.Read(ctx, sess, email)
		}
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		slog.Info("user created", "user", email)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return user, nil
}

// Authenticate resolves an active user.
func (s *UserService) Authenticate(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.GetByID(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		user, err = s.users.Read(ctx, sess, email)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// Deactivate marks a user inactive. Users are never deleted.
func (s *UserService) Deactivate(ctx context.Context, actor ports.Identity, email string) (*domain.User, error) {
	if !actor.IsSuperuser {
		return nil, domain.ErrForbidden
	}

	var user *domain.User
	err := s.store.WithSession(ctx, func(sess ports.Session) error {
		var err error
		user, err = s.users.Update(ctx, sess, email, ports.DefaultLookupColumn, ports.Record{"active": false})
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}

	slog.Info("user deactivated", "user", email, "actor", actor.Email)
	return user, nil
}
