package main

import (
	"fmt"
	"net/http"

	"github.com/pixelfit/backend/internal/domain"
	"github.com/pixelfit/backend/internal/middleware"
	"github.com/pixelfit/backend/migration"
	"github.com/pixelfit/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	s.loadRepos()
	s.loadAuthenticator()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.Wrap(middleware.NewCors(s.configs))
	s.router.Before(middleware.WithRequestID())
	s.router.After(middleware.HandleSetCookie())
	s.router.After(middleware.HandleRedirect())
	s.router.AddCloser(middleware.Logger())

	router.GET(s.router, "/health", domain.Health)
	router.GET(s.router, "/api/health", domain.Health)

	// Image API
	router.GET(s.router, "/sizes", s.fileDomain.Sizes)
	router.POST(s.router, "/resize", s.fileDomain.Resize)

	// Auth API
	router.POST(s.router, "/api/signup", s.authDomain.Signup)
	router.POST(s.router, "/api/login", s.authDomain.Login)
	router.POST(s.router, "/api/logout", s.authDomain.Logout)
	router.GET(s.router, "/api/auth/google/start", s.oauth2Domain.Login)
	router.GET(s.router, "/api/auth/google/callback", s.oauth2Domain.Callback)

	// These APIs need a live session.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier(s.sessionRepo)
	authRouter.Before(authVerifier.Middleware())
	{
		router.GET(authRouter, "/api/me", s.userDomain.GetMe)
		router.POST(authRouter, "/api/username", s.userDomain.UpdateUsername)
		router.GET(authRouter, "/api/auth/google/link/start", s.oauth2Domain.LinkStart)
		router.GET(authRouter, "/api/auth/google/link/callback", s.oauth2Domain.LinkCallback)
	}
}
