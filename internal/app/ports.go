package app

import (
	"context"
	"time"

	"doctalkie/internal/model"
)

// Storage contracts consumed by the services. The gorm repositories satisfy
// them; tests use in-memory fakes.

type BotStore interface {
	Create(ctx context.Context, bot *model.Bot) error
	GetByID(ctx context.Context, id string) (*model.Bot, error)
	ListByUserID(ctx context.Context, userID uint) ([]model.Bot, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	Save(ctx context.Context, bot *model.Bot) error
}

type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id string) error
	MarkReady(ctx context.Context, id string, processedAt time.Time) error
	ListByBotID(ctx context.Context, botID string) ([]model.Document, error)
}

type ChunkStore interface {
	CreateBatch(ctx context.Context, chunks []model.DocumentChunk) error
	ListContentByBotID(ctx context.Context, botID string) ([]string, error)
}

type UserStore interface {
	CreateWithSubscription(ctx context.Context, user *model.User, plan string) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	IncrementQueryCount(ctx context.Context, id uint) error
	SetStorageUsed(ctx context.Context, id uint, bytes int64) error
}

type SubscriptionStore interface {
	GetByUserID(ctx context.Context, userID uint) (*model.Subscription, error)
}

type ChatEventStore interface {
	ListRecentByBotID(ctx context.Context, botID string, limit int) ([]model.ChatEvent, error)
	CountByStatus(ctx context.Context, botID string) (map[string]int64, error)
}

type BotCache interface {
	GetBot(ctx context.Context, botID string) (*model.Bot, bool, error)
	SetBot(ctx context.Context, bot *model.Bot) error
	DeleteBot(ctx context.Context, botID string) error
}

type ChatEventPublisher interface {
	Publish(ctx context.Context, event model.ChatEvent) error
}

// ownedBot loads a bot and checks it belongs to userID. A missing bot and a
// foreign bot produce the same error.
func ownedBot(ctx context.Context, bots BotStore, botID string, userID uint) (*model.Bot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if botID == "" {
		return nil, ErrForbidden
	}
	bot, err := bots.GetByID(ctx, botID)
	if err != nil {
		return nil, persistenceError("load bot", err)
	}
	if bot == nil || bot.UserID != userID {
		return nil, ErrForbidden
	}
	return bot, nil
}
