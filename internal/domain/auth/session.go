package auth

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque login session. The token doubles as the primary key
// and is what clients send in X-Session-Token.
type Session struct {
	Token     string    `gorm:"primaryKey;column:token" json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Role      string    `gorm:"not null;column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null;column:expires_at" json:"expires_at"`
}

func (Session) TableName() string { return "session" }

func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
