package domain

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/internal/model"
	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
)

type UserDomain interface {
	GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error)
	UpdateUsername(ctx context.Context, req *model.UpdateUsernameRequest) (*model.UpdateUsernameResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) UserDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}

func (d *userDomain) UpdateUsername(
	ctx context.Context, req *model.UpdateUsernameRequest,
) (*model.UpdateUsernameResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, errorx.New(errorx.BadRequest, "Username is required")
	}

	if exists, err := d.userRepo.UsernameExists(ctx, username, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check username: %v", err)
		return nil, errorx.Unknown
	} else if exists {
		return nil, errorx.New(errorx.AlreadyExists, "That username is already taken")
	}

	update := &entity.User{Username: sql.NullString{Valid: true, String: username}}
	if err := d.userRepo.UpdateByID(ctx, userID, update); err != nil {
		// A racer that passed the pre-check loses on the unique index.
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "That username is already taken")
		}

		xcontext.Logger(ctx).Errorf("Cannot update username: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUsernameResponse{Username: username}, nil
}
