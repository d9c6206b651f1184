package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"doctalkie/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) MarkReady(ctx context.Context, id string, processedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.DocumentStatusReady,
			"processed_at": processedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("mark document ready failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListByBotID(ctx context.Context, botID string) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.WithContext(ctx).Where("bot_id = ?", botID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}
