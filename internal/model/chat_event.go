package model

import "time"

const (
	ChatEventAnswered = "answered"
	ChatEventFailed   = "failed"
)

// ChatEvent is one answered (or failed) widget query, written by the
// analytics worker.
type ChatEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BotID        string    `gorm:"size:36;not null;index" json:"bot_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Status       string    `gorm:"size:16;not null" json:"status"`
	QueryChars   int       `json:"query_chars"`
	ContextChars int       `json:"context_chars"`
	AnswerChars  int       `json:"answer_chars"`
	LatencyMs    int64     `json:"latency_ms"`
	Origin       string    `gorm:"size:255" json:"origin,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
