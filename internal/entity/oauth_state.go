package entity

import (
	"database/sql"
	"time"
)

const (
	StatePurposeLogin = "login"
	StatePurposeLink  = "link"
)

// OAuthState correlates one authorization redirect round trip. Consumed
// exactly once with a read-and-delete; swept after a short TTL either way.
type OAuthState struct {
	State   string `gorm:"primarykey"`
	Purpose string `gorm:"not null"`

	// UserID is set only for link states, identifying whose account gets
	// linked on callback.
	UserID sql.NullInt64

	CreatedAt time.Time
}

func (OAuthState) TableName() string {
	return "oauth_states"
}
