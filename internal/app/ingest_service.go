package app

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"doctalkie/internal/extract"
	"doctalkie/internal/model"
	"doctalkie/internal/pkg/chunker"
	"doctalkie/internal/pkg/logger"
	"doctalkie/internal/storage"
)

type IngestService struct {
	bots      BotStore
	documents DocumentStore
	chunks    ChunkStore
	users     UserStore
	objects   storage.ObjectStore

	chunkSize    int
	chunkOverlap int

	log   *logrus.Entry
	now   func() time.Time
	newID func() string
}

func NewIngestService(
	bots BotStore,
	documents DocumentStore,
	chunks ChunkStore,
	users UserStore,
	objects storage.ObjectStore,
	chunkSize, chunkOverlap int,
) *IngestService {
	return &IngestService{
		bots:         bots,
		documents:    documents,
		chunks:       chunks,
		users:        users,
		objects:      objects,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		log:          logger.New("ingest"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

type IngestInput struct {
	UserID      uint
	BotID       string
	FileName    string
	ContentType string
	Data        []byte
}

type IngestResult struct {
	DocumentID string
	ChunkCount int
}

// Authorize checks that userID owns botID before an upload is read.
func (s *IngestService) Authorize(ctx context.Context, userID uint, botID string) error {
	_, err := ownedBot(ctx, s.bots, botID, userID)
	return err
}

// Ingest turns an uploaded file into a ready Document with its chunks.
// An empty file goes through extraction and fails as an empty document.
// Nothing is written before extraction succeeds. If the chunk insert fails
// the document row is removed again.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	bot, err := ownedBot(ctx, s.bots, input.BotID, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.FileName == "" {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	text, err := extract.Extract(input.Data, input.ContentType, input.FileName)
	if err != nil {
		return nil, err
	}
	pieces := chunker.Split(text, s.chunkSize, s.chunkOverlap)

	log := s.log.WithFields(logrus.Fields{"bot_id": bot.ID, "file": input.FileName})
	doc := &model.Document{
		ID:            s.newID(),
		BotID:         bot.ID,
		FileName:      input.FileName,
		FileSizeBytes: int64(len(input.Data)),
		Status:        model.DocumentStatusProcessing,
	}

	steps := []sagaStep{
		{
			name:       "archive-original",
			action:     func(ctx context.Context) error { s.archive(ctx, log, doc, input); return nil },
			compensate: func(ctx context.Context) error { return s.unarchive(ctx, doc) },
		},
		{
			name: "insert-document",
			action: func(ctx context.Context) error {
				if err := s.documents.Create(ctx, doc); err != nil {
					return persistenceError("save document metadata", err)
				}
				return nil
			},
			compensate: func(ctx context.Context) error { return s.documents.Delete(ctx, doc.ID) },
		},
		{
			name: "insert-chunks",
			action: func(ctx context.Context) error {
				rows := make([]model.DocumentChunk, len(pieces))
				for i, content := range pieces {
					rows[i] = model.DocumentChunk{
						ID:         s.newID(),
						DocumentID: doc.ID,
						BotID:      bot.ID,
						ChunkIndex: i,
						Content:    content,
					}
				}
				if err := s.chunks.CreateBatch(ctx, rows); err != nil {
					return persistenceError("save document content", err)
				}
				return nil
			},
		},
	}
	if err := runSaga(ctx, log, steps); err != nil {
		return nil, err
	}

	if err := s.documents.MarkReady(ctx, doc.ID, s.now()); err != nil {
		log.WithError(err).WithField("document_id", doc.ID).Warn("document stored but status update to ready failed")
	}
	s.addStorageUsage(ctx, log, bot.UserID, doc.FileSizeBytes)

	log.WithFields(logrus.Fields{"document_id": doc.ID, "chunks": len(pieces)}).Info("document ingested")
	return &IngestResult{DocumentID: doc.ID, ChunkCount: len(pieces)}, nil
}

// ListDocuments returns the bot's documents, newest first.
func (s *IngestService) ListDocuments(ctx context.Context, userID uint, botID string) ([]model.Document, error) {
	bot, err := ownedBot(ctx, s.bots, botID, userID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByBotID(ctx, bot.ID)
	if err != nil {
		return nil, persistenceError("list documents", err)
	}
	return docs, nil
}

// archive keeps the original upload when an object store is configured.
// Failure leaves StoragePath empty and does not stop ingestion.
func (s *IngestService) archive(ctx context.Context, log *logrus.Entry, doc *model.Document, input IngestInput) {
	if s.objects == nil {
		return
	}
	key := path.Join("bots", doc.BotID, doc.ID+"-"+sanitizeFileName(input.FileName))
	contentType := input.ContentType
	if contentType == "" {
		contentType = extract.TypeBinary
	}
	if err := s.objects.Put(ctx, key, input.Data, contentType); err != nil {
		log.WithError(err).Warn("archive original upload failed")
		return
	}
	doc.StoragePath = key
}

func (s *IngestService) unarchive(ctx context.Context, doc *model.Document) error {
	if s.objects == nil || doc.StoragePath == "" {
		return nil
	}
	return s.objects.Delete(ctx, doc.StoragePath)
}

// addStorageUsage is a read-modify-write; concurrent uploads by the same
// owner can lose an update.
func (s *IngestService) addStorageUsage(ctx context.Context, log *logrus.Entry, userID uint, size int64) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		log.WithError(err).WithField("user_id", userID).Error("load user for storage usage failed")
		return
	}
	if err := s.users.SetStorageUsed(ctx, userID, user.StorageUsedBytes+size); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("update storage usage failed")
	}
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
