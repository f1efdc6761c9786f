package model

import (
	"context"
	"net/http"

	"github.com/pixelfit/backend/pkg/xcontext"
)

// sessionCookie builds the session cookie with the posture the configs
// demand. A negative maxAge produces an expired cookie for logout.
func sessionCookie(ctx context.Context, token string, maxAge int) http.Cookie {
	cfg := xcontext.Configs(ctx)
	return http.Cookie{
		Name:     cfg.Session.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: cfg.Session.CookieSameSite(),
		Secure:   cfg.Session.CookieSecure(cfg.Env),
	}
}

func sessionMaxAge(ctx context.Context) int {
	return int(xcontext.Configs(ctx).Session.Expiration.Seconds())
}

type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Gender   string `json:"gender"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	User User `json:"user"`

	SessionToken string `json:"-"`
}

func (r SignupResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{sessionCookie(ctx, r.SessionToken, sessionMaxAge(ctx))}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User User `json:"user"`

	SessionToken string `json:"-"`
}

func (r LoginResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{sessionCookie(ctx, r.SessionToken, sessionMaxAge(ctx))}
}

type LogoutRequest struct{}

type LogoutResponse struct{}

func (r LogoutResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{sessionCookie(ctx, "", -1)}
}
