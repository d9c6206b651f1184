package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"doctalkie/internal/model"
	"doctalkie/internal/pkg/logger"
)

const apiKeyPrefix = "dt_"

type BotService struct {
	bots          BotStore
	subscriptions SubscriptionStore
	cache         BotCache
	publicBaseURL string

	log   *logrus.Entry
	newID func() string
}

func NewBotService(bots BotStore, subscriptions SubscriptionStore, cache BotCache, publicBaseURL string) *BotService {
	return &BotService{
		bots:          bots,
		subscriptions: subscriptions,
		cache:         cache,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           logger.New("bots"),
		newID:         uuid.NewString,
	}
}

type CreateBotInput struct {
	UserID uint
	Name   string
}

// UpdateBotInput changes only the fields that are set.
type UpdateBotInput struct {
	UserID         uint
	BotID          string
	Name           *string
	StrictContext  *bool
	AllowedOrigins *[]string
}

// BotView is a bot plus the URL its widget posts to.
type BotView struct {
	model.Bot
	APIURL string `json:"api_url"`
}

func (s *BotService) Create(ctx context.Context, input CreateBotInput) (*BotView, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > 128 {
		return nil, fmt.Errorf("%w: name must be 1-128 characters", ErrInvalidInput)
	}

	sub, err := s.subscriptions.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, persistenceError("load subscription", err)
	}
	if sub == nil {
		free := model.NewSubscription(input.UserID, model.PlanFree)
		sub = &free
	}
	count, err := s.bots.CountByUserID(ctx, input.UserID)
	if err != nil {
		return nil, persistenceError("count bots", err)
	}
	if !sub.AllowsAnotherBot(count) {
		return nil, ErrBotLimitReached
	}

	bot := &model.Bot{
		ID:            s.newID(),
		UserID:        input.UserID,
		Name:          name,
		StrictContext: true,
		APIKey:        s.newAPIKey(),
	}
	if err := s.bots.Create(ctx, bot); err != nil {
		return nil, persistenceError("create bot", err)
	}
	return s.view(bot), nil
}

func (s *BotService) List(ctx context.Context, userID uint) ([]BotView, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	bots, err := s.bots.ListByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceError("list bots", err)
	}
	out := make([]BotView, 0, len(bots))
	for i := range bots {
		out = append(out, *s.view(&bots[i]))
	}
	return out, nil
}

func (s *BotService) Get(ctx context.Context, userID uint, botID string) (*BotView, error) {
	bot, err := ownedBot(ctx, s.bots, botID, userID)
	if err != nil {
		return nil, err
	}
	return s.view(bot), nil
}

func (s *BotService) UpdateSettings(ctx context.Context, input UpdateBotInput) (*BotView, error) {
	bot, err := ownedBot(ctx, s.bots, input.BotID, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > 128 {
			return nil, fmt.Errorf("%w: name must be 1-128 characters", ErrInvalidInput)
		}
		bot.Name = name
	}
	if input.StrictContext != nil {
		bot.StrictContext = *input.StrictContext
	}
	if input.AllowedOrigins != nil {
		origins, err := normalizeOrigins(*input.AllowedOrigins)
		if err != nil {
			return nil, err
		}
		bot.AllowedOrigins = origins
	}
	if err := s.save(ctx, bot); err != nil {
		return nil, err
	}
	return s.view(bot), nil
}

// RotateAPIKey replaces the key; widgets using the old key stop working.
func (s *BotService) RotateAPIKey(ctx context.Context, userID uint, botID string) (*BotView, error) {
	bot, err := ownedBot(ctx, s.bots, botID, userID)
	if err != nil {
		return nil, err
	}
	bot.APIKey = s.newAPIKey()
	if err := s.save(ctx, bot); err != nil {
		return nil, err
	}
	return s.view(bot), nil
}

func (s *BotService) save(ctx context.Context, bot *model.Bot) error {
	if err := s.bots.Save(ctx, bot); err != nil {
		return persistenceError("update bot", err)
	}
	if s.cache != nil {
		if err := s.cache.DeleteBot(ctx, bot.ID); err != nil {
			s.log.WithError(err).WithField("bot_id", bot.ID).Warn("invalidate bot cache failed")
		}
	}
	return nil
}

func (s *BotService) view(bot *model.Bot) *BotView {
	return &BotView{Bot: *bot, APIURL: s.publicBaseURL + "/api/chat/" + bot.ID}
}

func (s *BotService) newAPIKey() string {
	return apiKeyPrefix + s.newID()
}

func normalizeOrigins(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		origin := strings.TrimRight(strings.TrimSpace(raw), "/")
		if origin == "" || seen[origin] {
			continue
		}
		if origin != "*" {
			u, err := url.Parse(origin)
			if err != nil || u.Scheme == "" || u.Host == "" || (u.Path != "" && u.Path != "/") {
				return nil, fmt.Errorf("%w: invalid origin %q", ErrInvalidInput, raw)
			}
		}
		seen[origin] = true
		out = append(out, origin)
	}
	return out, nil
}
