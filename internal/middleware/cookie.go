package middleware

import (
	"context"
	"net/http"

	"github.com/pixelfit/backend/pkg/router"
	"github.com/pixelfit/backend/pkg/xcontext"
)

// CookieResponse is implemented by responses that set cookies on the way out.
type CookieResponse interface {
	CookieInfo(ctx context.Context) []http.Cookie
}

func HandleSetCookie() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		resp, ok := xcontext.Response(ctx).(CookieResponse)
		if !ok {
			return ctx, nil
		}

		w := xcontext.HTTPWriter(ctx)
		for _, cookie := range resp.CookieInfo(ctx) {
			c := cookie
			http.SetCookie(w, &c)
		}

		return ctx, nil
	}
}
