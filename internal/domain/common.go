package domain

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/internal/model"
	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/crypto"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
)

func Health(ctx context.Context, req *model.HealthRequest) (*model.HealthResponse, error) {
	return &model.HealthResponse{Status: "ok"}, nil
}

// mintSession purges expired sessions, then records a fresh one for the user
// and returns its token.
func mintSession(
	ctx context.Context, sessionRepo repository.SessionRepository, userID int64,
) (string, error) {
	if err := sessionRepo.DeleteExpired(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot purge expired sessions: %v", err)
		return "", errorx.Unknown
	}

	token, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate session token: %v", err)
		return "", errorx.Unknown
	}

	session := &entity.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(xcontext.Configs(ctx).Session.Expiration),
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create session: %v", err)
		return "", errorx.Unknown
	}

	return token, nil
}

// uniqueUsername derives a username from the local part of email, appending
// the smallest numeric suffix (starting at 2) that makes it free.
func uniqueUsername(
	ctx context.Context, userRepo repository.UserRepository, email string,
) (string, error) {
	base := strings.TrimSpace(strings.SplitN(email, "@", 2)[0])
	if base == "" {
		base = "user"
	}

	candidate := base
	for suffix := 2; ; suffix++ {
		exists, err := userRepo.UsernameExists(ctx, candidate, 0)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check username %s: %v", candidate, err)
			return "", errorx.Unknown
		}

		if !exists {
			return candidate, nil
		}

		candidate = base + strconv.Itoa(suffix)
	}
}
