package model

import (
	"context"
	"net/http"
)

type OAuth2LoginRequest struct{}

type OAuth2LoginResponse struct {
	AuthURL string `json:"-"`
}

func (r OAuth2LoginResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.AuthURL
}

type OAuth2CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type OAuth2CallbackResponse struct {
	User User `json:"user"`

	SessionToken string `json:"-"`
	RedirectURL  string `json:"-"`
}

func (r OAuth2CallbackResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{sessionCookie(ctx, r.SessionToken, sessionMaxAge(ctx))}
}

func (r OAuth2CallbackResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.RedirectURL
}

type OAuth2LinkStartRequest struct{}

type OAuth2LinkStartResponse struct {
	AuthURL string `json:"-"`
}

func (r OAuth2LinkStartResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.AuthURL
}

type OAuth2LinkCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type OAuth2LinkCallbackResponse struct {
	User User `json:"user"`

	RedirectURL string `json:"-"`
}

func (r OAuth2LinkCallbackResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.RedirectURL
}
