package model

import "time"

// User carries the usage counters that chat and ingestion update.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	FullName         string    `gorm:"size:128" json:"full_name"`
	PasswordHash     string    `gorm:"size:255;not null" json:"-"`
	QueryCount       int64     `gorm:"not null;default:0" json:"query_count"`
	StorageUsedBytes int64     `gorm:"not null;default:0" json:"storage_used_bytes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
