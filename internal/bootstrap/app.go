package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"doctalkie/internal/ai"
	"doctalkie/internal/config"
	"doctalkie/internal/model"
	"doctalkie/internal/pkg/logger"
	databaseClient "doctalkie/internal/platform/database"
	rabbitmqClient "doctalkie/internal/platform/rabbitmq"
	redisClient "doctalkie/internal/platform/redis"
	"doctalkie/internal/repository"
	"doctalkie/internal/storage"
	"doctalkie/internal/worker"
)

type App struct {
	Config          *config.Config
	DB              *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	Objects         storage.ObjectStore
	LLM             ai.Completer
	EventPublisher  *rabbitmqClient.ChatEventPublisher
	ChatEventWorker *worker.ChatEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logger.Init(cfg.App.LogLevel)
	log := logger.New("bootstrap")

	app := &App{Config: cfg, StartedAt: time.Now()}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	app.DB, err = databaseClient.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN(), time.Duration(cfg.Database.PingTimeoutSeconds)*time.Second)
	if err != nil {
		return fail(err)
	}
	if err := app.DB.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Bot{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.ChatEvent{},
	); err != nil {
		return fail(fmt.Errorf("auto migrate tables failed: %w", err))
	}

	app.Redis, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.Redis.DialTimeoutSeconds)*time.Second)
	if err != nil {
		return fail(err)
	}

	app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ChatEventsQueue)
	if err != nil {
		return fail(err)
	}
	app.EventPublisher = rabbitmqClient.NewChatEventPublisher(app.MQConn, cfg.RabbitMQ.ChatEventsQueue)

	app.Objects, err = storage.New(ctx, cfg.Storage)
	if err != nil {
		return fail(err)
	}

	app.LLM, err = newCompleter(ctx, cfg.LLM)
	if err != nil {
		return fail(err)
	}

	app.ChatEventWorker = worker.NewChatEventWorker(app.MQConn, repository.NewChatEventRepository(app.DB), cfg.RabbitMQ.ChatEventsQueue)
	if err := app.ChatEventWorker.Start(ctx); err != nil {
		return fail(fmt.Errorf("start chat event worker failed: %w", err))
	}

	log.WithFields(map[string]interface{}{
		"db_driver":      cfg.Database.Driver,
		"llm_provider":   cfg.LLM.Provider,
		"storage_driver": cfg.Storage.Driver,
	}).Info("dependencies ready")
	return app, nil
}

func newCompleter(ctx context.Context, cfg config.LLMConfig) (ai.Completer, error) {
	opts := ai.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	switch cfg.Provider {
	case "gemini":
		client, err := ai.NewGeminiClient(ctx, cfg.APIKey, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return ai.NewOpenAICompatibleClient(cfg.BaseURL, cfg.APIKey, opts), nil
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.ChatEventWorker != nil {
		a.ChatEventWorker.Close()
	}
	if a.EventPublisher != nil {
		if err := a.EventPublisher.Close(); err != nil {
			closeErr = err
		}
	}
	if closer, ok := a.LLM.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
