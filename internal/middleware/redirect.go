package middleware

import (
	"context"
	"net/http"

	"github.com/pixelfit/backend/pkg/router"
	"github.com/pixelfit/backend/pkg/xcontext"
)

// RedirectResponse is implemented by responses that answer the browser with
// a redirect instead of a JSON body.
type RedirectResponse interface {
	RedirectInfo() (code int, location string)
}

func HandleRedirect() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		resp, ok := xcontext.Response(ctx).(RedirectResponse)
		if !ok {
			return ctx, nil
		}

		code, location := resp.RedirectInfo()
		http.Redirect(xcontext.HTTPWriter(ctx), xcontext.HTTPRequest(ctx), location, code)

		// The redirect is the whole answer. Drop the response so the
		// writer does not append a JSON body.
		return xcontext.WithResponse(ctx, nil), nil
	}
}
