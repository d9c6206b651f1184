package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"doctalkie/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithSubscription inserts the user and its initial subscription together.
func (r *UserRepository) CreateWithSubscription(ctx context.Context, user *model.User, plan string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		sub := model.NewSubscription(user.ID, plan)
		return tx.Create(&sub).Error
	})
	if err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// IncrementQueryCount is a single atomic UPDATE.
func (r *UserRepository) IncrementQueryCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("query_count", gorm.Expr("query_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment query count failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("increment query count failed: user %d not found", id)
	}
	return nil
}

func (r *UserRepository) SetStorageUsed(ctx context.Context, id uint, bytes int64) error {
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("storage_used_bytes", bytes).Error; err != nil {
		return fmt.Errorf("update storage usage failed: %w", err)
	}
	return nil
}
