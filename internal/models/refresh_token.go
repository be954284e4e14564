package models

import (
	"time"
)

// RefreshToken is a stored, revocable refresh credential. Tokens rotate on
// every exchange: the presented row is revoked and a replacement is written,
// so a leaked token stops working the moment its owner refreshes.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Usable reports whether the token can still be exchanged at the given time.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}
