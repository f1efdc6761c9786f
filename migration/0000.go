package migration

import (
	"context"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
)

// migrate0000 creates any missing tables at the latest shape. On a fresh
// database this is the whole install; on an existing one it only fills in
// absent tables, leaving legacy shapes for the later steps.
func migrate0000(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	for _, model := range []any{&entity.User{}, &entity.Session{}, &entity.OAuthState{}} {
		if migrator.HasTable(model) {
			continue
		}

		if err := migrator.CreateTable(model); err != nil {
			return err
		}
	}

	return nil
}
