package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/pixelfit/backend/pkg/router"
	"github.com/pixelfit/backend/pkg/xcontext"
)

func WithRequestID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithRequestID(ctx, uuid.NewString()), nil
	}
}

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		logger := xcontext.Logger(ctx)
		requestID := xcontext.RequestID(ctx)

		if err := xcontext.Error(ctx); err != nil {
			logger.Errorf("%s %s %s: %v", requestID, req.Method, req.URL.Path, err)
			return
		}

		logger.Infof("%s %s %s", requestID, req.Method, req.URL.Path)
	}
}
