package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves the caller from the access_token cookie. The
// superuser flag is read from the store on every request.
type Authenticator struct {
	auth  ports.AuthService
	users ports.UserService
}

func NewAuthenticator(auth ports.AuthService, users ports.UserService) *Authenticator {
	return &Authenticator{auth: auth, users: users}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access_token")
		if err != nil || cookie.Value == "" {
			writeError(w, r, domain.ErrUnauthenticated)
			return
		}

		email, err := a.auth.ParseAccessToken(cookie.Value)
		if err != nil {
			writeError(w, r, err)
			return
		}

		user, err := a.users.Authenticate(r.Context(), email)
		if errors.Is(err, domain.ErrUserNotFound) {
			err = domain.ErrUnauthenticated
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := WithIdentity(r.Context(), ports.Identity{Email: user.ID, IsSuperuser: user.IsSuperuser})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithIdentity(ctx context.Context, id ports.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (ports.Identity, bool) {
	id, ok := ctx.Value(identityKey).(ports.Identity)
	return id, ok
}
