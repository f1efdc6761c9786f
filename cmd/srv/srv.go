package main

import (
	"context"
	"net/http"

	"github.com/pixelfit/backend/config"
	"github.com/pixelfit/backend/internal/domain"
	"github.com/pixelfit/backend/internal/repository"
	"github.com/pixelfit/backend/pkg/authenticator"
	"github.com/pixelfit/backend/pkg/logger"
	"github.com/pixelfit/backend/pkg/router"
	"github.com/pixelfit/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	oauthStateRepo repository.OAuthStateRepository

	googleService authenticator.IOAuth2Service

	authDomain   domain.AuthDomain
	oauth2Domain domain.OAuth2Domain
	userDomain   domain.UserDomain
	fileDomain   domain.FileDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.INFO)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	var dialector gorm.Dialector
	switch s.configs.Database.Driver {
	case "mysql":
		dialector = mysql.Open(s.configs.Database.ConnectionString())
	default:
		dialector = sqlite.Open(s.configs.Database.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.sessionRepo = repository.NewSessionRepository()
	s.oauthStateRepo = repository.NewOAuthStateRepository()
}

func (s *srv) loadAuthenticator() {
	if !s.configs.Auth.Google.IsConfigured() {
		s.logger.Warnf("Google OAuth is not configured, login and link flows are disabled")
		return
	}

	service, err := authenticator.NewOAuth2Service(s.ctx, s.configs.Auth.Google)
	if err != nil {
		panic(err)
	}

	s.googleService = service
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.sessionRepo)
	s.oauth2Domain = domain.NewOAuth2Domain(
		s.userRepo, s.sessionRepo, s.oauthStateRepo, s.googleService)
	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.fileDomain = domain.NewFileDomain()
}
