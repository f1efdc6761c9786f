package migration

import (
	"context"
	"time"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// chain is the linear schema upgrade path. Steps run in order, each one
// idempotent and checked against the current database state, so replaying
// the chain against an up-to-date database is a no-op.
var chain = []func(context.Context) error{
	migrate0000,
	migrate0001,
	migrate0002,
}

// Migrators allows running a single step by name from the migrate command.
var Migrators = map[string]func(context.Context) error{
	"0000": migrate0000,
	"0001": migrate0001,
	"0002": migrate0002,
}

// Migrate brings the database to the latest schema version. Runs once per
// process start; safe against a database already at the target schema.
func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	var last entity.Migration
	err := db.Order("version desc").Take(&last).Error
	if err == nil {
		current = last.Version
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	for version := current + 1; version < len(chain); version++ {
		xcontext.Logger(ctx).Infof("applying schema migration %04d", version)
		if err := chain[version](ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: version, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}
