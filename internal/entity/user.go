package entity

import "database/sql"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type User struct {
	Base

	Email    string `gorm:"unique;not null"`
	Provider string `gorm:"not null;default:local"`

	// ProviderSub is the external subject id. Unique when present; NULL for
	// accounts that never linked an external identity.
	ProviderSub sql.NullString `gorm:"unique"`

	Name      string
	Username  sql.NullString `gorm:"unique"`
	Gender    string
	AvatarURL string

	// PasswordHash and Salt are set only for password-capable accounts.
	PasswordHash sql.NullString
	Salt         sql.NullString
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != "" &&
		u.Salt.Valid && u.Salt.String != ""
}

// HasGoogleLink reports whether the account is bound to an external Google
// identity. Together with HasPassword this spans the three account shapes:
// local, google-only, and hybrid. An account always has at least one.
func (u *User) HasGoogleLink() bool {
	return u.ProviderSub.Valid && u.ProviderSub.String != ""
}
