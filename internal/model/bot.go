package model

import (
	"time"

	"gorm.io/datatypes"
)

type Bot struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint                        `gorm:"not null;index" json:"user_id"`
	Name           string                      `gorm:"size:128;not null" json:"name"`
	StrictContext  bool                        `gorm:"not null;default:true" json:"strict_context"`
	APIKey         string                      `gorm:"size:64;not null;uniqueIndex" json:"api_key"`
	AllowedOrigins datatypes.JSONSlice[string] `json:"allowed_origins"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// AllowsOrigin reports whether a browser origin may call the chat endpoint.
// An empty list allows every origin.
func (b *Bot) AllowsOrigin(origin string) bool {
	if len(b.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range b.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
