package model

import "time"

const (
	PlanFree    = "free"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

// UnlimitedBots marks a plan without a bot limit.
const UnlimitedBots = -1

type Subscription struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Plan              string     `gorm:"size:32;not null" json:"plan"`
	Status            string     `gorm:"size:32;not null" json:"status"`
	MaxBots           int        `gorm:"not null" json:"max_bots"`
	MaxTotalDocSizeMB int        `gorm:"not null" json:"max_total_doc_size_mb"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewSubscription returns an active subscription carrying the plan's limits.
// Unknown plans fall back to free.
func NewSubscription(userID uint, plan string) Subscription {
	sub := Subscription{UserID: userID, Plan: plan, Status: "active"}
	switch plan {
	case PlanPro:
		sub.MaxBots, sub.MaxTotalDocSizeMB = 5, 100
	case PlanPremium:
		sub.MaxBots, sub.MaxTotalDocSizeMB = UnlimitedBots, 1024
	default:
		sub.Plan = PlanFree
		sub.MaxBots, sub.MaxTotalDocSizeMB = 1, 10
	}
	return sub
}

func (s *Subscription) AllowsAnotherBot(current int64) bool {
	return s.MaxBots == UnlimitedBots || current < int64(s.MaxBots)
}
