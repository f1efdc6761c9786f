package migration

import (
	"context"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
)

// migrate0002 appends columns that older installs are missing. All of them
// are nullable or carry a default, so the additions are safe on populated
// tables. The sessions.expires_at default of the epoch means every legacy
// session row is treated as expired and swept on the next read.
func migrate0002(ctx context.Context) error {
	db := xcontext.DB(ctx)
	migrator := db.Migrator()

	userColumns := []string{
		"provider", "provider_sub", "name", "username",
		"gender", "avatar_url", "password_hash", "salt",
	}
	for _, column := range userColumns {
		if migrator.HasColumn(&entity.User{}, column) {
			continue
		}

		if err := migrator.AddColumn(&entity.User{}, column); err != nil {
			return err
		}
	}

	// Session tables from before the numeric-id design cannot be altered
	// into shape. Sessions only hold live logins, so rebuilding the table
	// just forces a re-login.
	if !migrator.HasColumn(&entity.Session{}, "id") {
		if err := migrator.DropTable(&entity.Session{}); err != nil {
			return err
		}

		return migrator.CreateTable(&entity.Session{})
	}

	if !migrator.HasColumn(&entity.Session{}, "expires_at") {
		err := db.Exec(
			"ALTER TABLE sessions ADD COLUMN expires_at datetime NOT NULL DEFAULT '1970-01-01 00:00:00'",
		).Error
		if err != nil {
			return err
		}
	}

	return nil
}
