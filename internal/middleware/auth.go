package middleware

import (
	"context"

	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/router"
	"github.com/pixelfit/backend/pkg/xcontext"
)

// AuthVerifier resolves the session cookie to a user before the handler
// runs. Requests without a live session are rejected uniformly.
type AuthVerifier struct {
	sessionRepo repository.SessionRepository
}

func NewAuthVerifier(sessionRepo repository.SessionRepository) *AuthVerifier {
	return &AuthVerifier{sessionRepo: sessionRepo}
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		cfg := xcontext.Configs(ctx)
		cookie, err := xcontext.HTTPRequest(ctx).Cookie(cfg.Session.Name)
		if err != nil || cookie.Value == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
		}

		user, err := a.sessionRepo.GetUserByToken(ctx, cookie.Value)
		if err != nil {
			return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
		}

		return xcontext.WithRequestUserID(ctx, user.ID), nil
	}
}
