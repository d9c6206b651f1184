package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"doctalkie/internal/model"
)

type BotRepository struct {
	db *gorm.DB
}

func NewBotRepository(db *gorm.DB) *BotRepository {
	return &BotRepository{db: db}
}

func (r *BotRepository) Create(ctx context.Context, bot *model.Bot) error {
	if err := r.db.WithContext(ctx).Create(bot).Error; err != nil {
		return fmt.Errorf("create bot failed: %w", err)
	}
	return nil
}

func (r *BotRepository) GetByID(ctx context.Context, id string) (*model.Bot, error) {
	var bot model.Bot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&bot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query bot failed: %w", err)
	}
	return &bot, nil
}

func (r *BotRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Bot, error) {
	var list []model.Bot
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list bots failed: %w", err)
	}
	return list, nil
}

func (r *BotRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Bot{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count bots failed: %w", err)
	}
	return n, nil
}

// Save writes the mutable settings columns of bot.
func (r *BotRepository) Save(ctx context.Context, bot *model.Bot) error {
	err := r.db.WithContext(ctx).Model(bot).
		Select("name", "strict_context", "api_key", "allowed_origins").
		Updates(bot).Error
	if err != nil {
		return fmt.Errorf("update bot failed: %w", err)
	}
	return nil
}
