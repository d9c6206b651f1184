package model

import "time"

const (
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusError      = "error"
)

type Document struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	BotID         string     `gorm:"size:36;not null;index" json:"bot_id"`
	FileName      string     `gorm:"size:255;not null" json:"file_name"`
	FileSizeBytes int64      `gorm:"not null" json:"file_size_bytes"`
	Status        string     `gorm:"size:16;not null" json:"status"`
	StoragePath   string     `gorm:"size:512" json:"storage_path"`
	CreatedAt     time.Time  `json:"uploaded_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// DocumentChunk rows are written once per document and never updated.
type DocumentChunk struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	DocumentID string    `gorm:"size:36;not null;index" json:"document_id"`
	BotID      string    `gorm:"size:36;not null;index" json:"bot_id"`
	ChunkIndex int       `gorm:"not null" json:"chunk_index"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
