package domain

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/internal/model"
	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/crypto"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var genders = []string{entity.GenderMale, entity.GenderFemale}

type AuthDomain interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.SignupResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, req *model.LogoutRequest) (*model.LogoutResponse, error)
}

type authDomain struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) AuthDomain {
	return &authDomain{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (d *authDomain) Signup(
	ctx context.Context, req *model.SignupRequest,
) (*model.SignupResponse, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.TrimSpace(req.Username)
	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" || username == "" || email == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "All fields are required")
	}

	if !slices.Contains(genders, gender) {
		return nil, errorx.New(errorx.BadRequest, "Gender must be male or female")
	}

	if _, err := d.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "An account with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if exists, err := d.userRepo.UsernameExists(ctx, username, 0); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check username: %v", err)
		return nil, errorx.Unknown
	} else if exists {
		return nil, errorx.New(errorx.AlreadyExists, "That username is already taken")
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate salt: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Email:        email,
		Provider:     entity.ProviderLocal,
		Name:         name,
		Username:     sql.NullString{Valid: true, String: username},
		Gender:       gender,
		PasswordHash: sql.NullString{Valid: true, String: crypto.HashPassword(req.Password, salt)},
		Salt:         sql.NullString{Valid: true, String: hex.EncodeToString(salt)},
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.Create(ctx, user); err != nil {
		// A racer that passed the pre-checks loses on the unique index.
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists,
				"An account with that email or username already exists")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	token, err := mintSession(ctx, d.sessionRepo, user.ID)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.SignupResponse{
		User:         model.ConvertUser(user),
		SessionToken: token,
	}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "Email and password are required")
	}

	user, err := d.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if !user.HasPassword() {
		return nil, errorx.New(errorx.Unauthenticated, "Please use Google sign-in for this account")
	}

	salt, err := hex.DecodeString(user.Salt.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Corrupt salt for user %d: %v", user.ID, err)
		return nil, errorx.Unknown
	}

	if !crypto.VerifyPassword(req.Password, salt, user.PasswordHash.String) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	token, err := mintSession(ctx, d.sessionRepo, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		User:         model.ConvertUser(user),
		SessionToken: token,
	}, nil
}

func (d *authDomain) Logout(
	ctx context.Context, req *model.LogoutRequest,
) (*model.LogoutResponse, error) {
	cfg := xcontext.Configs(ctx)
	if cookie, err := xcontext.HTTPRequest(ctx).Cookie(cfg.Session.Name); err == nil {
		if err := d.sessionRepo.DeleteByToken(ctx, cookie.Value); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete session: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.LogoutResponse{}, nil
}
