package testutil

import (
	"context"

	"github.com/pixelfit/backend/pkg/authenticator"
	"github.com/pixelfit/backend/pkg/errorx"
)

type MockOAuth2Service struct {
	ServiceName                 string
	AuthCodeURLFunc             func(state, prompt string) string
	VerifyAuthorizationCodeFunc func(ctx context.Context, code string) (authenticator.OAuth2User, error)
}

func (m *MockOAuth2Service) Service() string {
	if m.ServiceName != "" {
		return m.ServiceName
	}

	return "google"
}

func (m *MockOAuth2Service) AuthCodeURL(state, prompt string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state, prompt)
	}

	return "https://example.com/auth?state=" + state
}

func (m *MockOAuth2Service) VerifyAuthorizationCode(
	ctx context.Context, code string,
) (authenticator.OAuth2User, error) {
	if m.VerifyAuthorizationCodeFunc != nil {
		return m.VerifyAuthorizationCodeFunc(ctx, code)
	}

	return authenticator.OAuth2User{}, errorx.New(errorx.Unavailable, "Not implemented")
}
