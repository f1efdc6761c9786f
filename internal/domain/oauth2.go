package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/internal/model"
	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/authenticator"
	"github.com/pixelfit/backend/pkg/crypto"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type OAuth2Domain interface {
	Login(ctx context.Context, req *model.OAuth2LoginRequest) (*model.OAuth2LoginResponse, error)
	Callback(ctx context.Context, req *model.OAuth2CallbackRequest) (*model.OAuth2CallbackResponse, error)
	LinkStart(ctx context.Context, req *model.OAuth2LinkStartRequest) (*model.OAuth2LinkStartResponse, error)
	LinkCallback(ctx context.Context, req *model.OAuth2LinkCallbackRequest) (*model.OAuth2LinkCallbackResponse, error)
}

type oauth2Domain struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	stateRepo     repository.OAuthStateRepository
	oauth2Service authenticator.IOAuth2Service
}

func NewOAuth2Domain(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	stateRepo repository.OAuthStateRepository,
	oauth2Service authenticator.IOAuth2Service,
) OAuth2Domain {
	return &oauth2Domain{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		stateRepo:     stateRepo,
		oauth2Service: oauth2Service,
	}
}

// ensureConfigured fails fast when the provider credentials are absent.
func (d *oauth2Domain) ensureConfigured() error {
	if d.oauth2Service == nil {
		return errorx.New(errorx.Unavailable, "Google sign-in is not configured")
	}

	return nil
}

// issueState sweeps stale states and records a fresh single-use one.
func (d *oauth2Domain) issueState(
	ctx context.Context, purpose string, userID sql.NullInt64,
) (string, error) {
	cfg := xcontext.Configs(ctx)
	if err := d.stateRepo.DeleteExpired(ctx, cfg.Auth.StateExpiration); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sweep oauth states: %v", err)
		return "", errorx.Unknown
	}

	state, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate oauth state: %v", err)
		return "", errorx.Unknown
	}

	record := &entity.OAuthState{State: state, Purpose: purpose, UserID: userID}
	if err := d.stateRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create oauth state: %v", err)
		return "", errorx.Unknown
	}

	return state, nil
}

// consumeState deletes and returns the state, rejecting uniformly whether it
// is missing, replayed, expired, or minted for another purpose.
func (d *oauth2Domain) consumeState(
	ctx context.Context, state, purpose string,
) (*entity.OAuthState, error) {
	cfg := xcontext.Configs(ctx)
	if err := d.stateRepo.DeleteExpired(ctx, cfg.Auth.StateExpiration); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sweep oauth states: %v", err)
		return nil, errorx.Unknown
	}

	record, err := d.stateRepo.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired OAuth state")
		}

		xcontext.Logger(ctx).Errorf("Cannot consume oauth state: %v", err)
		return nil, errorx.Unknown
	}

	if record.Purpose != purpose {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired OAuth state")
	}

	return record, nil
}

func (d *oauth2Domain) verifyCode(ctx context.Context, code string) (authenticator.OAuth2User, error) {
	profile, err := d.oauth2Service.VerifyAuthorizationCode(ctx, code)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify authorization code: %v", err)
		return authenticator.OAuth2User{}, errorx.New(errorx.Unavailable,
			"Cannot verify your identity with %s", d.oauth2Service.Service())
	}

	return profile, nil
}

func (d *oauth2Domain) Login(
	ctx context.Context, req *model.OAuth2LoginRequest,
) (*model.OAuth2LoginResponse, error) {
	if err := d.ensureConfigured(); err != nil {
		return nil, err
	}

	state, err := d.issueState(ctx, entity.StatePurposeLogin, sql.NullInt64{})
	if err != nil {
		return nil, err
	}

	return &model.OAuth2LoginResponse{
		AuthURL: d.oauth2Service.AuthCodeURL(state, "consent"),
	}, nil
}

func (d *oauth2Domain) Callback(
	ctx context.Context, req *model.OAuth2CallbackRequest,
) (*model.OAuth2CallbackResponse, error) {
	if err := d.ensureConfigured(); err != nil {
		return nil, err
	}

	if req.Code == "" || req.State == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing code or state")
	}

	if _, err := d.consumeState(ctx, req.State, entity.StatePurposeLogin); err != nil {
		return nil, err
	}

	profile, err := d.verifyCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := d.resolveLogin(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := mintSession(ctx, d.sessionRepo, user.ID)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.OAuth2CallbackResponse{
		User:         model.ConvertUser(user),
		SessionToken: token,
		RedirectURL:  xcontext.Configs(ctx).ApiServer.FrontendURL,
	}, nil
}

// resolveLogin maps a verified external profile onto an account: match by
// subject first, then by email; refuse password-only accounts; create a new
// account when nothing matches.
func (d *oauth2Domain) resolveLogin(
	ctx context.Context, profile authenticator.OAuth2User,
) (*entity.User, error) {
	user, err := d.userRepo.GetByProviderSub(ctx, profile.Sub)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = d.userRepo.GetByEmail(ctx, profile.Email)
	}

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot look up user: %v", err)
			return nil, errorx.Unknown
		}

		return d.createFromProfile(ctx, profile)
	}

	if user.HasPassword() && !user.HasGoogleLink() {
		return nil, errorx.New(errorx.AlreadyExists,
			"An account with this email already exists. Log in with your password, then link Google from your profile")
	}

	return d.adoptProfile(ctx, user, profile)
}

func (d *oauth2Domain) createFromProfile(
	ctx context.Context, profile authenticator.OAuth2User,
) (*entity.User, error) {
	username, err := uniqueUsername(ctx, d.userRepo, profile.Email)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:       profile.Email,
		Provider:    entity.ProviderGoogle,
		ProviderSub: sql.NullString{Valid: true, String: profile.Sub},
		Name:        profile.Name,
		Username:    sql.NullString{Valid: true, String: username},
		AvatarURL:   profile.Picture,
	}
	if err := d.userRepo.Create(ctx, user); err != nil {
		// A racer that passed the resolution lookups loses on the unique
		// index over email or provider_sub.
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists,
				"An account with this email already exists")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

// adoptProfile refreshes the account with the provider-reported identity.
// The profile is authoritative for name and avatar; a missing username is
// backfilled, an existing one is kept.
func (d *oauth2Domain) adoptProfile(
	ctx context.Context, user *entity.User, profile authenticator.OAuth2User,
) (*entity.User, error) {
	username := user.Username
	if !username.Valid || username.String == "" {
		derived, err := uniqueUsername(ctx, d.userRepo, profile.Email)
		if err != nil {
			return nil, err
		}
		username = sql.NullString{Valid: true, String: derived}
	}

	update := &entity.User{
		Provider:    entity.ProviderGoogle,
		ProviderSub: sql.NullString{Valid: true, String: profile.Sub},
		Name:        profile.Name,
		Username:    username,
		AvatarURL:   profile.Picture,
	}
	if err := d.userRepo.UpdateByID(ctx, user.ID, update); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists,
				"This Google account is already linked to another user")
		}

		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	return d.userRepo.GetByID(ctx, user.ID)
}

func (d *oauth2Domain) LinkStart(
	ctx context.Context, req *model.OAuth2LinkStartRequest,
) (*model.OAuth2LinkStartResponse, error) {
	if err := d.ensureConfigured(); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	state, err := d.issueState(ctx, entity.StatePurposeLink,
		sql.NullInt64{Valid: true, Int64: userID})
	if err != nil {
		return nil, err
	}

	return &model.OAuth2LinkStartResponse{
		AuthURL: d.oauth2Service.AuthCodeURL(state, "consent"),
	}, nil
}

func (d *oauth2Domain) LinkCallback(
	ctx context.Context, req *model.OAuth2LinkCallbackRequest,
) (*model.OAuth2LinkCallbackResponse, error) {
	if err := d.ensureConfigured(); err != nil {
		return nil, err
	}

	if req.Code == "" || req.State == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing code or state")
	}

	userID := xcontext.RequestUserID(ctx)
	record, err := d.consumeState(ctx, req.State, entity.StatePurposeLink)
	if err != nil {
		return nil, err
	}

	// The state must belong to the session that started the link flow.
	if !record.UserID.Valid || record.UserID.Int64 != userID {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired OAuth state")
	}

	profile, err := d.verifyCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if owner, err := d.userRepo.GetByProviderSub(ctx, profile.Sub); err == nil {
		if owner.ID != userID {
			return nil, errorx.New(errorx.AlreadyExists,
				"This Google account is already linked to another user")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot look up provider subject: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	user, err = d.adoptProfile(ctx, user, profile)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.OAuth2LinkCallbackResponse{
		User:        model.ConvertUser(user),
		RedirectURL: xcontext.Configs(ctx).ApiServer.FrontendURL,
	}, nil
}
