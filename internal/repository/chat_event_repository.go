package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"doctalkie/internal/model"
)

type ChatEventRepository struct {
	db *gorm.DB
}

func NewChatEventRepository(db *gorm.DB) *ChatEventRepository {
	return &ChatEventRepository{db: db}
}

func (r *ChatEventRepository) Create(ctx context.Context, event *model.ChatEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create chat event failed: %w", err)
	}
	return nil
}

func (r *ChatEventRepository) ListRecentByBotID(ctx context.Context, botID string, limit int) ([]model.ChatEvent, error) {
	var list []model.ChatEvent
	if err := r.db.WithContext(ctx).Where("bot_id = ?", botID).Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list chat events failed: %w", err)
	}
	return list, nil
}

// CountByStatus returns the number of events per status for a bot.
func (r *ChatEventRepository) CountByStatus(ctx context.Context, botID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.ChatEvent{}).
		Select("status, COUNT(*) AS total").
		Where("bot_id = ?", botID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count chat events failed: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
