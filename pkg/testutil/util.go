package testutil

import (
	"context"
	"time"

	"github.com/pixelfit/backend/config"
	"github.com/pixelfit/backend/migration"
	"github.com/pixelfit/backend/pkg/logger"
	"github.com/pixelfit/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := &config.Configs{
		Env: "dev",
		ApiServer: config.ServerConfigs{
			Host:           "localhost",
			Port:           "8001",
			AllowedOrigins: []string{"http://localhost:5500"},
			FrontendURL:    "http://localhost:5500/index.html",
		},
		Auth: config.AuthConfigs{
			StateExpiration: 10 * time.Minute,
		},
		Session: config.SessionConfigs{
			Name:       "pixelfit_session",
			Expiration: time.Hour,
			SameSite:   "lax",
		},
		File: config.FileConfigs{
			MaxSize: 32 << 20,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.Migrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID int64) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
