package entity

import "time"

type Session struct {
	Base

	UserID int64 `gorm:"not null;index"`
	User   User  `gorm:"foreignKey:UserID"`

	Token     string    `gorm:"unique;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
