package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"doctalkie/internal/ai"
	"doctalkie/internal/model"
)

var errStoreDown = errors.New("store down")

type fakeBots struct {
	mu   sync.Mutex
	bots map[string]*model.Bot
}

func newFakeBots(bots ...*model.Bot) *fakeBots {
	f := &fakeBots{bots: map[string]*model.Bot{}}
	for _, b := range bots {
		f.bots[b.ID] = b
	}
	return f
}

func (f *fakeBots) Create(_ context.Context, bot *model.Bot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *bot
	f.bots[bot.ID] = &cp
	return nil
}

func (f *fakeBots) GetByID(_ context.Context, id string) (*model.Bot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bots[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBots) ListByUserID(_ context.Context, userID uint) ([]model.Bot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Bot
	for _, b := range f.bots {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBots) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	list, _ := f.ListByUserID(ctx, userID)
	return int64(len(list)), nil
}

func (f *fakeBots) Save(_ context.Context, bot *model.Bot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *bot
	f.bots[bot.ID] = &cp
	return nil
}

type fakeDocuments struct {
	mu        sync.Mutex
	docs      map[string]*model.Document
	createErr error
	deleteErr error
	readyErr  error
	deleted   []string
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[string]*model.Document{}}
}

func (f *fakeDocuments) Create(_ context.Context, doc *model.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *doc
	cp.CreatedAt = time.Now()
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocuments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocuments) MarkReady(_ context.Context, id string, at time.Time) error {
	if f.readyErr != nil {
		return f.readyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return errors.New("no such document")
	}
	d.Status = model.DocumentStatusReady
	d.ProcessedAt = &at
	return nil
}

func (f *fakeDocuments) ListByBotID(_ context.Context, botID string) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Document
	for _, d := range f.docs {
		if d.BotID == botID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

type fakeChunks struct {
	mu        sync.Mutex
	rows      []model.DocumentChunk
	createErr error
	listErr   error
}

func (f *fakeChunks) CreateBatch(_ context.Context, chunks []model.DocumentChunk) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, chunks...)
	return nil
}

func (f *fakeChunks) ListContentByBotID(_ context.Context, botID string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.rows {
		if c.BotID == botID {
			out = append(out, c.Content)
		}
	}
	return out, nil
}

type fakeUsers struct {
	mu         sync.Mutex
	users      map[uint]*model.User
	nextID     uint
	incErr     error
	setErr     error
	plans      map[uint]string
	beforeSet  func()
	increments int
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[uint]*model.User{}, plans: map[uint]string{}, nextID: 100}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) CreateWithSubscription(_ context.Context, user *model.User, plan string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	f.plans[user.ID] = plan
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) IncrementQueryCount(_ context.Context, id uint) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].QueryCount++
	f.increments++
	return nil
}

func (f *fakeUsers) SetStorageUsed(_ context.Context, id uint, bytes int64) error {
	if f.beforeSet != nil {
		f.beforeSet()
	}
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].StorageUsedBytes = bytes
	return nil
}

func (f *fakeUsers) get(id uint) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.users[id]
}

type fakeSubscriptions struct {
	subs map[uint]*model.Subscription
}

func (f *fakeSubscriptions) GetByUserID(_ context.Context, userID uint) (*model.Subscription, error) {
	if s, ok := f.subs[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (f *fakeObjects) Put(_ context.Context, key string, data []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

type fakeCompleter struct {
	mu       sync.Mutex
	answer   string
	err      error
	calls    int
	requests []ai.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, req)
	return f.answer, f.err
}

type fakeCache struct {
	bots    map[string]*model.Bot
	deletes []string
}

func (f *fakeCache) GetBot(_ context.Context, id string) (*model.Bot, bool, error) {
	b, ok := f.bots[id]
	if !ok {
		return nil, false, nil
	}
	cp := *b
	return &cp, true, nil
}

func (f *fakeCache) SetBot(_ context.Context, bot *model.Bot) error {
	if f.bots == nil {
		f.bots = map[string]*model.Bot{}
	}
	cp := *bot
	f.bots[bot.ID] = &cp
	return nil
}

func (f *fakeCache) DeleteBot(_ context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	delete(f.bots, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.ChatEvent
}

func (f *fakePublisher) Publish(_ context.Context, event model.ChatEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeEvents struct {
	events []model.ChatEvent
}

func (f *fakeEvents) ListRecentByBotID(_ context.Context, botID string, limit int) ([]model.ChatEvent, error) {
	var out []model.ChatEvent
	for _, e := range f.events {
		if e.BotID == botID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) CountByStatus(_ context.Context, botID string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, e := range f.events {
		if e.BotID == botID {
			out[e.Status]++
		}
	}
	return out, nil
}
