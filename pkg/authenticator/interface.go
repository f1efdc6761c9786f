package authenticator

import (
	"context"
)

// OAuth2User is the profile the identity provider reports for one login.
type OAuth2User struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

type IOAuth2Service interface {
	Service() string
	AuthCodeURL(state, prompt string) string
	VerifyAuthorizationCode(ctx context.Context, code string) (OAuth2User, error)
}
