package http

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	appsvc "doctalkie/internal/app"
	"doctalkie/internal/bootstrap"
	"doctalkie/internal/cache"
	"doctalkie/internal/repository"
	"doctalkie/internal/transport/http/handler"
	"doctalkie/internal/transport/http/middleware"
)

// Services are the application services the router exposes.
type Services struct {
	Auth      *appsvc.AuthService
	Bots      *appsvc.BotService
	Ingest    *appsvc.IngestService
	Chat      *appsvc.ChatService
	Analytics *appsvc.AnalyticsService
}

type RouterOptions struct {
	GinMode      string
	JWTSecret    string
	CookieName   string
	CookieSecure bool
	MaxFileBytes int64
	Health       *handler.HealthHandler
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config

	userRepo := repository.NewUserRepository(app.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(app.DB)
	botRepo := repository.NewBotRepository(app.DB)
	documentRepo := repository.NewDocumentRepository(app.DB)
	chunkRepo := repository.NewDocumentChunkRepository(app.DB)
	eventRepo := repository.NewChatEventRepository(app.DB)
	botCache := cache.NewBotCache(app.Redis, time.Duration(cfg.Redis.BotCacheTTLSeconds)*time.Second)

	services := Services{
		Auth: appsvc.NewAuthService(userRepo, subscriptionRepo, cfg.Auth.JWTSecret, cfg.JWTExpiration()),
		Bots: appsvc.NewBotService(botRepo, subscriptionRepo, botCache, cfg.App.PublicBaseURL),
		Ingest: appsvc.NewIngestService(
			botRepo, documentRepo, chunkRepo, userRepo, app.Objects,
			cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap,
		),
		Chat: appsvc.NewChatService(
			botRepo, chunkRepo, userRepo, botCache, app.EventPublisher, app.LLM,
			cfg.Chat.MaxContextChars,
		),
		Analytics: appsvc.NewAnalyticsService(botRepo, eventRepo),
	}

	health := handler.NewHealthHandler(cfg.App.Name, cfg.App.Env, app.StartedAt,
		handler.DependencyCheck{Name: cfg.Database.Driver, Check: func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		handler.DependencyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		}},
		handler.DependencyCheck{Name: "rabbitmq", Check: func(context.Context) error {
			if app.MQConn == nil || app.MQConn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}},
	)

	return NewRouterWithServices(services, RouterOptions{
		GinMode:      cfg.App.GinMode,
		JWTSecret:    cfg.Auth.JWTSecret,
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
		MaxFileBytes: cfg.Ingest.MaxFileBytes,
		Health:       health,
	})
}

// NewRouterWithServices mounts the routes on already built services.
func NewRouterWithServices(s Services, opts RouterOptions) *gin.Engine {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	if opts.Health != nil {
		router.GET("/healthz", opts.Health.Check)
	}

	authHandler := handler.NewAuthHandler(s.Auth, opts.CookieName, opts.CookieSecure)
	botHandler := handler.NewBotHandler(s.Bots)
	documentHandler := handler.NewDocumentHandler(s.Ingest, opts.MaxFileBytes)
	chatHandler := handler.NewChatHandler(s.Chat)
	analyticsHandler := handler.NewAnalyticsHandler(s.Analytics)
	requireSession := middleware.AuthSession(opts.JWTSecret, opts.CookieName)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", requireSession, authHandler.Me)

	assistants := api.Group("/assistants", requireSession)
	assistants.POST("", botHandler.Create)
	assistants.GET("", botHandler.List)
	assistants.GET("/:id", botHandler.Get)
	assistants.PUT("/:id", botHandler.Update)
	assistants.POST("/:id/api-key", botHandler.RotateKey)
	assistants.POST("/:id/documents/process", documentHandler.Process)
	assistants.GET("/:id/documents", documentHandler.List)
	assistants.GET("/:id/analytics", analyticsHandler.ForBot)

	chat := api.Group("/chat/:id", middleware.ChatCORS(s.Chat.OriginAllowed))
	chat.POST("", chatHandler.Ask)
	chat.OPTIONS("", chatHandler.Preflight)
	chat.GET("/getName", chatHandler.GetName)
	chat.OPTIONS("/getName", chatHandler.Preflight)

	return router
}
