package ports

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type UserService interface {
	EnsureUser(ctx context.Context, email string) (*domain.User, error)
	Authenticate(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, email string) (*domain.User, error)
	Deactivate(ctx context.Context, actor Identity, email string) (*domain.User, error)
}
