package authenticator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pixelfit/backend/config"
	"golang.org/x/oauth2"
)

// upstreamTimeout bounds the token exchange and userinfo calls. Neither is
// ever retried: authorization codes are single-use, so a retry would fail
// with the provider anyway.
const upstreamTimeout = 10 * time.Second

type OAuth2Service struct {
	*oidc.Provider
	oauth2.Config

	name string
}

func NewOAuth2Service(ctx context.Context, oauth2Cfg config.OAuth2Config) (*OAuth2Service, error) {
	if !oauth2Cfg.IsConfigured() {
		return nil, errors.New("oauth2 client credentials are not configured")
	}

	provider, err := oidc.NewProvider(ctx, oauth2Cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("cannot discover oidc provider: %w", err)
	}

	cfg := oauth2.Config{
		ClientID:     oauth2Cfg.ClientID,
		ClientSecret: oauth2Cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  oauth2Cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &OAuth2Service{name: oauth2Cfg.Name, Provider: provider, Config: cfg}, nil
}

func (a *OAuth2Service) Service() string {
	return a.name
}

// AuthCodeURL builds the authorization endpoint URL carrying the anti-CSRF
// state. Offline access matches the scopes the frontend consents to.
func (a *OAuth2Service) AuthCodeURL(state, prompt string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if prompt != "" {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", prompt))
	}

	return a.Config.AuthCodeURL(state, opts...)
}

// VerifyAuthorizationCode exchanges the code and fetches the userinfo
// profile in one blocking round trip.
func (a *OAuth2Service) VerifyAuthorizationCode(ctx context.Context, code string) (OAuth2User, error) {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	token, err := a.Exchange(ctx, code)
	if err != nil {
		return OAuth2User{}, fmt.Errorf("cannot exchange authorization code: %w", err)
	}

	userInfo, err := a.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return OAuth2User{}, fmt.Errorf("cannot fetch userinfo: %w", err)
	}

	var claims struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := userInfo.Claims(&claims); err != nil {
		return OAuth2User{}, fmt.Errorf("cannot decode userinfo claims: %w", err)
	}

	if userInfo.Subject == "" || userInfo.Email == "" {
		return OAuth2User{}, errors.New("userinfo is missing required fields")
	}

	return OAuth2User{
		Sub:     userInfo.Subject,
		Email:   strings.ToLower(userInfo.Email),
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
