package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pixelfit/backend/internal/entity"
	"github.com/pixelfit/backend/pkg/xcontext"
)

// usersNew mirrors entity.User so the rebuilt table gets the target shape
// before being renamed into place.
type usersNew struct {
	entity.Base

	Email        string         `gorm:"unique;not null"`
	Provider     string         `gorm:"not null;default:local"`
	ProviderSub  sql.NullString `gorm:"unique"`
	Name         string
	Username     sql.NullString `gorm:"unique"`
	Gender       string
	AvatarURL    string
	PasswordHash sql.NullString
	Salt         sql.NullString
}

func (usersNew) TableName() string {
	return "users_new"
}

// migrate0001 upgrades a users table that predates the multi-provider
// design, detected by NOT NULL constraints on the password columns. The
// table is rebuilt with copy-and-rename since neither sqlite nor older
// mysql can relax NOT NULL in place. Legacy column names are mapped to
// their current ones; absent columns fall back to NULL or a default.
func migrate0001(ctx context.Context) error {
	db := xcontext.DB(ctx)
	migrator := db.Migrator()
	if !migrator.HasTable("users") {
		return nil
	}

	columnTypes, err := migrator.ColumnTypes("users")
	if err != nil {
		return err
	}

	existing := map[string]bool{}
	legacy := false
	for _, column := range columnTypes {
		existing[column.Name()] = true
		if column.Name() == "password_hash" || column.Name() == "salt" {
			if nullable, ok := column.Nullable(); ok && !nullable {
				legacy = true
			}
		}
	}

	if !legacy {
		return nil
	}

	if migrator.HasTable(&usersNew{}) {
		if err := migrator.DropTable(&usersNew{}); err != nil {
			return err
		}
	}

	if err := migrator.CreateTable(&usersNew{}); err != nil {
		return err
	}

	pick := func(names ...string) string {
		for _, name := range names {
			if existing[name] {
				return name
			}
		}
		return ""
	}

	selectParts := []string{
		selectOr(pick("id"), "NULL"),
		selectOr(pick("email"), "NULL"),
		selectOr(pick("auth_provider", "provider"), "'local'"),
		selectOr(pick("google_sub", "provider_sub"), "NULL"),
		selectOr(pick("name"), "NULL"),
		selectOr(pick("username"), "NULL"),
		selectOr(pick("gender"), "NULL"),
		selectOr(pick("avatar_url"), "NULL"),
		selectOr(pick("password_hash"), "NULL"),
		selectOr(pick("salt"), "NULL"),
		selectOr(pick("created_at"), "CURRENT_TIMESTAMP"),
		selectOr(pick("updated_at", "created_at"), "CURRENT_TIMESTAMP"),
	}

	copySQL := fmt.Sprintf(
		"INSERT INTO users_new (id, email, provider, provider_sub, name, username, gender, avatar_url, password_hash, salt, created_at, updated_at) SELECT %s FROM users",
		strings.Join(selectParts, ", "),
	)
	if err := db.Exec(copySQL).Error; err != nil {
		return err
	}

	if err := migrator.DropTable("users"); err != nil {
		return err
	}

	return migrator.RenameTable("users_new", "users")
}

func selectOr(column, fallback string) string {
	if column == "" {
		return fallback
	}
	return column
}
