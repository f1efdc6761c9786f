package middleware

import (
	"net/http"

	"github.com/pixelfit/backend/config"
	"github.com/rs/cors"
)

// NewCors builds the CORS wrapper for browser clients. Credentials must be
// allowed so the session cookie travels on cross-origin requests.
func NewCors(cfg *config.Configs) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler
}
