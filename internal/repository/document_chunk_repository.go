package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"doctalkie/internal/model"
)

type DocumentChunkRepository struct {
	db *gorm.DB
}

func NewDocumentChunkRepository(db *gorm.DB) *DocumentChunkRepository {
	return &DocumentChunkRepository{db: db}
}

// CreateBatch inserts every chunk in one statement, so it either stores all
// rows or none.
func (r *DocumentChunkRepository) CreateBatch(ctx context.Context, chunks []model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&chunks).Error; err != nil {
		return fmt.Errorf("create document chunks failed: %w", err)
	}
	return nil
}

// ListContentByBotID returns chunk contents grouped by document in upload
// order, each document's chunks in index order.
func (r *DocumentChunkRepository) ListContentByBotID(ctx context.Context, botID string) ([]string, error) {
	var contents []string
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).
		Where("bot_id = ?", botID).
		Order("created_at ASC").Order("document_id ASC").Order("chunk_index ASC").
		Pluck("content", &contents).Error
	if err != nil {
		return nil, fmt.Errorf("list document chunks failed: %w", err)
	}
	return contents, nil
}
