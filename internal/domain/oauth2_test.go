package domain

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/internal/model"
	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/authenticator"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/testutil"
	"github.com/pixelfit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOAuth2Domain(profile authenticator.OAuth2User) *oauth2Domain {
	return &oauth2Domain{
		userRepo:    repository.NewUserRepository(),
		sessionRepo: repository.NewSessionRepository(),
		stateRepo:   repository.NewOAuthStateRepository(),
		oauth2Service: &testutil.MockOAuth2Service{
			VerifyAuthorizationCodeFunc: func(context.Context, string) (authenticator.OAuth2User, error) {
				return profile, nil
			},
		},
	}
}

func loginState(t *testing.T, ctx context.Context, d *oauth2Domain) string {
	t.Helper()

	state, err := d.issueState(ctx, entity.StatePurposeLogin, sql.NullInt64{})
	require.NoError(t, err)
	return state
}

func Test_oauth2Domain_Login_Start(t *testing.T) {
	ctx := testutil.MockContext()

	var gotState, gotPrompt string
	domain := &oauth2Domain{
		userRepo:    repository.NewUserRepository(),
		sessionRepo: repository.NewSessionRepository(),
		stateRepo:   repository.NewOAuthStateRepository(),
		oauth2Service: &testutil.MockOAuth2Service{
			AuthCodeURLFunc: func(state, prompt string) string {
				gotState, gotPrompt = state, prompt
				return "https://example.com/auth?state=" + state
			},
		},
	}

	resp, err := domain.Login(ctx, &model.OAuth2LoginRequest{})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/auth?state="+gotState, resp.AuthURL)
	require.Equal(t, "consent", gotPrompt)

	// The redirected state is stored and redeemable.
	record, err := repository.NewOAuthStateRepository().Consume(ctx, gotState)
	require.NoError(t, err)
	require.Equal(t, entity.StatePurposeLogin, record.Purpose)
}

// unresolvableUserRepo makes both resolution lookups miss, as when two
// callbacks for the same profile race each other.
type unresolvableUserRepo struct {
	repository.UserRepository
}

func (r unresolvableUserRepo) GetByProviderSub(ctx context.Context, sub string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r unresolvableUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func Test_oauth2Domain_Callback_RaceOnEmail(t *testing.T) {
	ctx := testutil.MockContext()
	require.NoError(t, repository.NewUserRepository().Create(ctx, &entity.User{
		Email:       "alice@example.com",
		Provider:    entity.ProviderGoogle,
		ProviderSub: sql.NullString{Valid: true, String: "sub-1"},
		Username:    sql.NullString{Valid: true, String: "alice"},
	}))

	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	domain.userRepo = unresolvableUserRepo{domain.userRepo}

	_, err := domain.Callback(ctx, &model.OAuth2CallbackRequest{
		Code:  "code",
		State: loginState(t, ctx, domain),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_oauth2Domain_Callback_CreatesUser(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:     "sub-1",
		Email:   "alice@example.com",
		Name:    "Alice Smith",
		Picture: "https://example.com/alice.png",
	})

	resp, err := domain.Callback(ctx, &model.OAuth2CallbackRequest{
		Code:  "code",
		State: loginState(t, ctx, domain),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionToken)
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, entity.ProviderGoogle, resp.User.Provider)
	require.Equal(t, "Alice Smith", resp.User.Name)
	require.Empty(t, resp.User.Gender)

	// A second login with the same subject reuses the account.
	again, err := domain.Callback(ctx, &model.OAuth2CallbackRequest{
		Code:  "code",
		State: loginState(t, ctx, domain),
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, again.User.ID)
}

func Test_oauth2Domain_Callback_UsernameSuffix(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()
	for _, username := range []string{"alice", "alice2"} {
		err := userRepo.Create(ctx, &entity.User{
			Email:    username + "@taken.example.com",
			Provider: entity.ProviderLocal,
			Username: sql.NullString{Valid: true, String: username},
		})
		require.NoError(t, err)
	}

	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})

	resp, err := domain.Callback(ctx, &model.OAuth2CallbackRequest{
		Code:  "code",
		State: loginState(t, ctx, domain),
	})
	require.NoError(t, err)
	require.Equal(t, "alice3", resp.User.Username)
}

func Test_oauth2Domain_Callback_PasswordAccountConflict(t *testing.T) {
	ctx := testutil.MockContext()
	authD := &authDomain{
		userRepo:    repository.NewUserRepository(),
		sessionRepo: repository.NewSessionRepository(),
	}
	_, err := authD.Signup(ctx, &model.SignupRequest{
		Name:     "Alice",
		Username: "alice",
		Gender:   "female",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})

	_, err = domain.Callback(ctx, &model.OAuth2CallbackRequest{
		Code:  "code",
		State: loginState(t, ctx, domain),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_oauth2Domain_Callback_StateSingleUse(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})

	state := loginState(t, ctx, domain)
	_, err := domain.Callback(ctx, &model.OAuth2CallbackRequest{Code: "code", State: state})
	require.NoError(t, err)

	_, err = domain.Callback(ctx, &model.OAuth2CallbackRequest{Code: "code", State: state})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_oauth2Domain_LinkCallback(t *testing.T) {
	ctx := testutil.MockContext()
	authD := &authDomain{
		userRepo:    repository.NewUserRepository(),
		sessionRepo: repository.NewSessionRepository(),
	}
	signupResp, err := authD.Signup(ctx, &model.SignupRequest{
		Name:     "Alice",
		Username: "alice",
		Gender:   "female",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	userID := signupResp.User.ID

	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:     "sub-1",
		Email:   "alice@gmail.example.com",
		Name:    "Alice G",
		Picture: "https://example.com/pic.png",
	})

	userCtx := xcontext.WithRequestUserID(ctx, userID)
	state, err := domain.issueState(userCtx, entity.StatePurposeLink,
		sql.NullInt64{Valid: true, Int64: userID})
	require.NoError(t, err)

	resp, err := domain.LinkCallback(userCtx, &model.OAuth2LinkCallbackRequest{
		Code:  "code",
		State: state,
	})
	require.NoError(t, err)
	require.Equal(t, userID, resp.User.ID)
	require.Equal(t, entity.ProviderGoogle, resp.User.Provider)
	require.Equal(t, "alice", resp.User.Username)

	// After linking, both password login and google login hit the same account.
	loginResp, err := authD.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.Equal(t, userID, loginResp.User.ID)

	googleResp, err := domain.Callback(ctx, &model.OAuth2CallbackRequest{
		Code:  "code",
		State: loginState(t, ctx, domain),
	})
	require.NoError(t, err)
	require.Equal(t, userID, googleResp.User.ID)
}

func Test_oauth2Domain_LinkCallback_WrongUser(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})

	state, err := domain.issueState(ctx, entity.StatePurposeLink,
		sql.NullInt64{Valid: true, Int64: 1})
	require.NoError(t, err)

	// The state was minted for user 1 but the session belongs to user 2.
	_, err = domain.LinkCallback(xcontext.WithRequestUserID(ctx, 2), &model.OAuth2LinkCallbackRequest{
		Code:  "code",
		State: state,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_oauth2Domain_LinkCallback_SubOwnedByOther(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	owner := &entity.User{
		Email:       "owner@example.com",
		Provider:    entity.ProviderGoogle,
		ProviderSub: sql.NullString{Valid: true, String: "sub-1"},
		Username:    sql.NullString{Valid: true, String: "owner"},
	}
	require.NoError(t, userRepo.Create(ctx, owner))

	victim := &entity.User{
		Email:    "victim@example.com",
		Provider: entity.ProviderLocal,
		Username: sql.NullString{Valid: true, String: "victim"},
	}
	require.NoError(t, userRepo.Create(ctx, victim))

	domain := newOAuth2Domain(authenticator.OAuth2User{
		Sub:   "sub-1",
		Email: "owner@example.com",
	})

	state, err := domain.issueState(ctx, entity.StatePurposeLink,
		sql.NullInt64{Valid: true, Int64: victim.ID})
	require.NoError(t, err)

	_, err = domain.LinkCallback(xcontext.WithRequestUserID(ctx, victim.ID), &model.OAuth2LinkCallbackRequest{
		Code:  "code",
		State: state,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func Test_oauth2Domain_NotConfigured(t *testing.T) {
	ctx := testutil.MockContext()
	domain := &oauth2Domain{
		userRepo:    repository.NewUserRepository(),
		sessionRepo: repository.NewSessionRepository(),
		stateRepo:   repository.NewOAuthStateRepository(),
	}

	_, err := domain.Login(ctx, &model.OAuth2LoginRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}
