package entity

import "time"

// Migration records the schema version the database is at. One row per
// applied step of the linear upgrade chain.
type Migration struct {
	Version   int `gorm:"primarykey"`
	AppliedAt time.Time
}
