package app

import (
	"context"

	"doctalkie/internal/model"
)

const recentEventLimit = 50

type AnalyticsService struct {
	bots   BotStore
	events ChatEventStore
}

func NewAnalyticsService(bots BotStore, events ChatEventStore) *AnalyticsService {
	return &AnalyticsService{bots: bots, events: events}
}

type BotAnalytics struct {
	Answered int64             `json:"answered"`
	Failed   int64             `json:"failed"`
	Recent   []model.ChatEvent `json:"recent"`
}

func (s *AnalyticsService) ForBot(ctx context.Context, userID uint, botID string) (*BotAnalytics, error) {
	bot, err := ownedBot(ctx, s.bots, botID, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.events.CountByStatus(ctx, bot.ID)
	if err != nil {
		return nil, persistenceError("count chat events", err)
	}
	recent, err := s.events.ListRecentByBotID(ctx, bot.ID, recentEventLimit)
	if err != nil {
		return nil, persistenceError("list chat events", err)
	}
	return &BotAnalytics{
		Answered: counts[model.ChatEventAnswered],
		Failed:   counts[model.ChatEventFailed],
		Recent:   recent,
	}, nil
}
