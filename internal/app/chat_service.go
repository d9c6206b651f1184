package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"doctalkie/internal/ai"
	"doctalkie/internal/model"
	"doctalkie/internal/pkg/logger"
)

const (
	DefaultMaxContextChars = 25000
	contextSeparator       = "\n\n"
	fallbackAnswer         = "Sorry, I could not generate a response."
	publishTimeout         = 2 * time.Second
)

type ChatService struct {
	bots      BotStore
	chunks    ChunkStore
	users     UserStore
	cache     BotCache
	publisher ChatEventPublisher
	llm       ai.Completer

	maxContextChars int

	log *logrus.Entry
	now func() time.Time
}

// NewChatService wires the chat path. cache and publisher may be nil.
func NewChatService(
	bots BotStore,
	chunks ChunkStore,
	users UserStore,
	cache BotCache,
	publisher ChatEventPublisher,
	llm ai.Completer,
	maxContextChars int,
) *ChatService {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	return &ChatService{
		bots:            bots,
		chunks:          chunks,
		users:           users,
		cache:           cache,
		publisher:       publisher,
		llm:             llm,
		maxContextChars: maxContextChars,
		log:             logger.New("chat"),
		now:             time.Now,
	}
}

type ChatInput struct {
	BotID  string
	APIKey string
	Query  string
	Origin string
}

type ChatResult struct {
	Answer string
}

// Ask runs one widget query: authenticate the key, assemble the bot's whole
// corpus as context, check its size, prompt the model and record usage.
func (s *ChatService) Ask(ctx context.Context, input ChatInput) (*ChatResult, error) {
	query := strings.TrimSpace(input.Query)
	if input.BotID == "" || query == "" {
		return nil, ErrInvalidInput
	}
	if input.APIKey == "" {
		return nil, ErrUnauthenticated
	}

	bot, err := s.LookupBot(ctx, input.BotID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrBotNotFound
	}
	if subtle.ConstantTimeCompare([]byte(bot.APIKey), []byte(input.APIKey)) != 1 {
		return nil, ErrInvalidAPIKey
	}

	contextText, err := s.AssembleContext(ctx, bot.ID)
	if err != nil {
		return nil, err
	}
	contextChars := utf8.RuneCountInString(contextText)
	if contextChars > s.maxContextChars {
		return nil, &ContextTooLargeError{Size: contextChars, Limit: s.maxContextChars}
	}

	started := s.now()
	answer, err := s.llm.Complete(ctx, ai.CompletionRequest{
		System: systemInstruction,
		Prompt: BuildPrompt(query, contextText, bot.StrictContext),
	})
	event := model.ChatEvent{
		BotID:        bot.ID,
		UserID:       bot.UserID,
		QueryChars:   utf8.RuneCountInString(query),
		ContextChars: contextChars,
		LatencyMs:    s.now().Sub(started).Milliseconds(),
		Origin:       input.Origin,
	}
	if err != nil {
		event.Status = model.ChatEventFailed
		s.publish(ctx, event)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = fallbackAnswer
	}

	if err := s.users.IncrementQueryCount(ctx, bot.UserID); err != nil {
		s.log.WithError(err).WithField("user_id", bot.UserID).Error("increment query count failed")
	}
	event.Status = model.ChatEventAnswered
	event.AnswerChars = utf8.RuneCountInString(answer)
	s.publish(ctx, event)

	return &ChatResult{Answer: answer}, nil
}

// AssembleContext joins every chunk of the bot with a blank line.
func (s *ChatService) AssembleContext(ctx context.Context, botID string) (string, error) {
	contents, err := s.chunks.ListContentByBotID(ctx, botID)
	if err != nil {
		return "", persistenceError("load document chunks", err)
	}
	return strings.Join(contents, contextSeparator), nil
}

// LookupBot reads through the bot cache. A nil bot with nil error means the
// id is unknown.
func (s *ChatService) LookupBot(ctx context.Context, botID string) (*model.Bot, error) {
	if s.cache != nil {
		bot, ok, err := s.cache.GetBot(ctx, botID)
		if err != nil {
			s.log.WithError(err).Warn("bot cache read failed")
		} else if ok {
			return bot, nil
		}
	}

	bot, err := s.bots.GetByID(ctx, botID)
	if err != nil {
		return nil, persistenceError("load bot", err)
	}
	if bot != nil && s.cache != nil {
		if err := s.cache.SetBot(ctx, bot); err != nil {
			s.log.WithError(err).Warn("bot cache write failed")
		}
	}
	return bot, nil
}

// BotName is the public lookup used by the widget header.
func (s *ChatService) BotName(ctx context.Context, botID string) (string, error) {
	if botID == "" {
		return "", ErrInvalidInput
	}
	bot, err := s.LookupBot(ctx, botID)
	if err != nil {
		return "", err
	}
	if bot == nil {
		return "", ErrBotNotFound
	}
	return bot.Name, nil
}

// OriginAllowed reports whether a browser origin may call the bot's chat
// endpoints. Unknown bots are allowed here so the handler can answer 404.
func (s *ChatService) OriginAllowed(ctx context.Context, botID, origin string) bool {
	bot, err := s.LookupBot(ctx, botID)
	if err != nil || bot == nil {
		return !errors.Is(err, ErrPersistence)
	}
	return bot.AllowsOrigin(origin)
}

func (s *ChatService) publish(ctx context.Context, event model.ChatEvent) {
	if s.publisher == nil {
		return
	}
	event.CreatedAt = s.now()
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.log.WithError(err).WithField("bot_id", event.BotID).Warn("publish chat event failed")
	}
}
