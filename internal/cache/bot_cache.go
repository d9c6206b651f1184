package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"doctalkie/internal/model"
)

// BotCache keeps bot records for the public chat path, which looks the bot up
// on every widget request.
type BotCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewBotCache(client *redisv9.Client, ttl time.Duration) *BotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BotCache{client: client, ttl: ttl}
}

func (c *BotCache) GetBot(ctx context.Context, botID string) (*model.Bot, bool, error) {
	raw, err := c.client.Get(ctx, c.botKey(botID)).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get bot failed: %w", err)
	}

	var bot model.Bot
	if err := json.Unmarshal(raw, &bot); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached bot failed: %w", err)
	}
	return &bot, true, nil
}

func (c *BotCache) SetBot(ctx context.Context, bot *model.Bot) error {
	payload, err := json.Marshal(bot)
	if err != nil {
		return fmt.Errorf("marshal bot cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.botKey(bot.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set bot failed: %w", err)
	}
	return nil
}

func (c *BotCache) DeleteBot(ctx context.Context, botID string) error {
	if err := c.client.Del(ctx, c.botKey(botID)).Err(); err != nil {
		return fmt.Errorf("redis delete bot failed: %w", err)
	}
	return nil
}

func (c *BotCache) botKey(botID string) string {
	return fmt.Sprintf("doctalkie:bot:%s", botID)
}
