package http

import (
	"context"
	"sync"
	"time"

	"doctalkie/internal/ai"
	"doctalkie/internal/model"
)

// In-memory stores backing the router tests.

type memBots struct {
	mu   sync.Mutex
	rows map[string]model.Bot
}

func (m *memBots) Create(_ context.Context, bot *model.Bot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[bot.ID] = *bot
	return nil
}

func (m *memBots) GetByID(_ context.Context, id string) (*model.Bot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBots) ListByUserID(_ context.Context, userID uint) ([]model.Bot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Bot
	for _, b := range m.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBots) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	list, _ := m.ListByUserID(ctx, userID)
	return int64(len(list)), nil
}

func (m *memBots) Save(ctx context.Context, bot *model.Bot) error {
	return m.Create(ctx, bot)
}

type memDocuments struct {
	mu   sync.Mutex
	rows []model.Document
}

func (m *memDocuments) Create(_ context.Context, doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.CreatedAt = time.Now()
	m.rows = append(m.rows, *doc)
	return nil
}

func (m *memDocuments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.rows {
		if d.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memDocuments) MarkReady(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = model.DocumentStatusReady
			m.rows[i].ProcessedAt = &at
		}
	}
	return nil
}

func (m *memDocuments) ListByBotID(_ context.Context, botID string) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Document
	for _, d := range m.rows {
		if d.BotID == botID {
			out = append(out, d)
		}
	}
	return out, nil
}

type memChunks struct {
	mu   sync.Mutex
	rows []model.DocumentChunk
}

func (m *memChunks) CreateBatch(_ context.Context, chunks []model.DocumentChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, chunks...)
	return nil
}

func (m *memChunks) ListContentByBotID(_ context.Context, botID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.rows {
		if c.BotID == botID {
			out = append(out, c.Content)
		}
	}
	return out, nil
}

type memUsers struct {
	mu     sync.Mutex
	rows   map[uint]model.User
	subs   map[uint]model.Subscription
	nextID uint
}

func (m *memUsers) CreateWithSubscription(_ context.Context, user *model.User, plan string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	m.rows[user.ID] = *user
	m.subs[user.ID] = model.NewSubscription(user.ID, plan)
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByID(_ context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) IncrementQueryCount(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.rows[id]
	u.QueryCount++
	m.rows[id] = u
	return nil
}

func (m *memUsers) SetStorageUsed(_ context.Context, id uint, bytes int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.rows[id]
	u.StorageUsedBytes = bytes
	m.rows[id] = u
	return nil
}

func (m *memUsers) GetByUserID(_ context.Context, userID uint) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type memEvents struct{}

func (memEvents) ListRecentByBotID(context.Context, string, int) ([]model.ChatEvent, error) {
	return nil, nil
}

func (memEvents) CountByStatus(context.Context, string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type scriptedCompleter struct {
	mu       sync.Mutex
	answer   string
	err      error
	requests []ai.CompletionRequest
}

func (s *scriptedCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.answer, s.err
}

func (s *scriptedCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
