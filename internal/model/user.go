package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a local account. Federated-only accounts (first login via Google or
// Facebook) carry an empty Password; such accounts cannot authenticate with
// the password path.
type User struct {
	gorm.Model
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email;unique;not null"`
	Password  string    `gorm:"column:password;not null"`
	LastLogin time.Time `gorm:"column:last_login"`
	// RefreshTokenHash is the bcrypt hash of the single active refresh token.
	// NULL means no active session.
	RefreshTokenHash *string `gorm:"column:refresh_token_hash;default:null;index:idx_users_refresh_token_hash,where:refresh_token_hash IS NOT NULL"`

	Cars    []Car    `gorm:"foreignKey:OwnerID"`
	Reports []Report `gorm:"foreignKey:ReportedByID"`
}
