package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"doctalkie/internal/extract"
	"doctalkie/internal/model"
	"doctalkie/internal/pkg/logger"
)

type ingestFixture struct {
	svc     *IngestService
	docs    *fakeDocuments
	chunks  *fakeChunks
	users   *fakeUsers
	objects *fakeObjects
}

func newIngestFixture() *ingestFixture {
	bots := newFakeBots(
		&model.Bot{ID: "bot-1", UserID: 1, Name: "Docs", APIKey: "dt_1"},
		&model.Bot{ID: "bot-2", UserID: 2, Name: "Other", APIKey: "dt_2"},
	)
	f := &ingestFixture{
		docs:    newFakeDocuments(),
		chunks:  &fakeChunks{},
		users:   newFakeUsers(&model.User{ID: 1, Email: "owner@example.com", StorageUsedBytes: 50}),
		objects: &fakeObjects{},
	}
	f.svc = NewIngestService(bots, f.docs, f.chunks, f.users, f.objects, 1000, 100)
	f.svc.log = logger.Discard()
	n := 0
	f.svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return f
}

func textInput(body string) IngestInput {
	return IngestInput{
		UserID:      1,
		BotID:       "bot-1",
		FileName:    "guide.txt",
		ContentType: "text/plain",
		Data:        []byte(body),
	}
}

func TestIngestPlainTextEndToEnd(t *testing.T) {
	f := newIngestFixture()
	body := strings.Repeat("abcdefghij", 250)

	res, err := f.svc.Ingest(context.Background(), textInput(body))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.ChunkCount != 3 {
		t.Fatalf("chunk count = %d, want 3", res.ChunkCount)
	}

	wantLens := []int{1000, 1000, 700}
	for i, row := range f.chunks.rows {
		if row.ChunkIndex != i || row.DocumentID != res.DocumentID || row.BotID != "bot-1" {
			t.Fatalf("chunk %d has wrong linkage: %+v", i, row)
		}
		if got := utf8.RuneCountInString(row.Content); got != wantLens[i] {
			t.Fatalf("chunk %d length = %d, want %d", i, got, wantLens[i])
		}
	}

	doc := f.docs.docs[res.DocumentID]
	if doc == nil || doc.Status != model.DocumentStatusReady || doc.ProcessedAt == nil {
		t.Fatalf("document not ready: %+v", doc)
	}
	if doc.FileSizeBytes != 2500 || doc.FileName != "guide.txt" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.StoragePath == "" || f.objects.objects[doc.StoragePath] == nil {
		t.Fatalf("original upload not archived: %q", doc.StoragePath)
	}
	if got := f.users.get(1).StorageUsedBytes; got != 2550 {
		t.Fatalf("storage used = %d, want 2550", got)
	}
}

func TestIngestUnsupportedTypeWritesNothing(t *testing.T) {
	f := newIngestFixture()
	in := textInput("binary")
	in.ContentType = "image/png"
	in.FileName = "logo.png"

	_, err := f.svc.Ingest(context.Background(), in)
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	if f.docs.count() != 0 || len(f.chunks.rows) != 0 || len(f.objects.objects) != 0 {
		t.Fatal("unsupported upload left persisted state behind")
	}
	if got := f.users.get(1).StorageUsedBytes; got != 50 {
		t.Fatalf("storage usage changed to %d", got)
	}
}

func TestIngestEmptyTextWritesNothing(t *testing.T) {
	f := newIngestFixture()
	_, err := f.svc.Ingest(context.Background(), textInput("   \n "))
	if !errors.Is(err, extract.ErrEmptyDocument) {
		t.Fatalf("expected empty document error, got %v", err)
	}
	if f.docs.count() != 0 {
		t.Fatal("empty upload created a document")
	}
}

func TestIngestZeroByteFileIsEmptyDocument(t *testing.T) {
	f := newIngestFixture()
	in := textInput("")
	in.Data = nil
	_, err := f.svc.Ingest(context.Background(), in)
	if !errors.Is(err, extract.ErrEmptyDocument) {
		t.Fatalf("expected empty document error, got %v", err)
	}
	if f.docs.count() != 0 {
		t.Fatal("empty upload created a document")
	}
}

func TestAuthorizeUpload(t *testing.T) {
	f := newIngestFixture()
	if err := f.svc.Authorize(context.Background(), 1, "bot-1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := f.svc.Authorize(context.Background(), 1, "bot-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign bot: %v", err)
	}
	if err := f.svc.Authorize(context.Background(), 0, "bot-1"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous: %v", err)
	}
}

func TestIngestChunkFailureRemovesDocument(t *testing.T) {
	f := newIngestFixture()
	f.chunks.createErr = errStoreDown

	_, err := f.svc.Ingest(context.Background(), textInput("some content"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if f.docs.count() != 0 {
		t.Fatal("document row left behind after chunk failure")
	}
	if len(f.docs.deleted) != 1 {
		t.Fatalf("compensating delete ran %d times", len(f.docs.deleted))
	}
	if len(f.objects.objects) != 0 {
		t.Fatal("archived upload left behind after chunk failure")
	}
	if got := f.users.get(1).StorageUsedBytes; got != 50 {
		t.Fatalf("storage usage changed to %d", got)
	}
}

func TestIngestCompensationFailureStillReportsOriginalError(t *testing.T) {
	f := newIngestFixture()
	f.chunks.createErr = errStoreDown
	f.docs.deleteErr = errors.New("delete failed")

	_, err := f.svc.Ingest(context.Background(), textInput("some content"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !strings.Contains(err.Error(), "save document content") {
		t.Fatalf("error should describe the chunk insert, got %v", err)
	}
}

func TestIngestDocumentInsertFailure(t *testing.T) {
	f := newIngestFixture()
	f.docs.createErr = errStoreDown

	_, err := f.svc.Ingest(context.Background(), textInput("some content"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if len(f.docs.deleted) != 0 || len(f.chunks.rows) != 0 {
		t.Fatal("nothing should be compensated or inserted")
	}
}

func TestIngestPostSuccessStepsAreBestEffort(t *testing.T) {
	f := newIngestFixture()
	f.docs.readyErr = errStoreDown
	f.users.setErr = errStoreDown
	f.objects.putErr = errStoreDown

	res, err := f.svc.Ingest(context.Background(), textInput("short text"))
	if err != nil {
		t.Fatalf("ingest should succeed, got %v", err)
	}
	doc := f.docs.docs[res.DocumentID]
	if doc.Status != model.DocumentStatusProcessing {
		t.Fatalf("status = %s, want processing", doc.Status)
	}
	if doc.StoragePath != "" {
		t.Fatalf("storage path should be empty when archiving fails, got %q", doc.StoragePath)
	}
}

func TestIngestOwnership(t *testing.T) {
	f := newIngestFixture()
	cases := []struct {
		name   string
		userID uint
		botID  string
		want   error
	}{
		{"anonymous", 0, "bot-1", ErrUnauthenticated},
		{"foreign bot", 1, "bot-2", ErrForbidden},
		{"missing bot", 1, "nope", ErrForbidden},
	}
	for _, tc := range cases {
		in := textInput("content")
		in.UserID, in.BotID = tc.userID, tc.botID
		if _, err := f.svc.Ingest(context.Background(), in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if f.docs.count() != 0 {
		t.Fatal("rejected uploads created documents")
	}
}

// Storage accounting is a read-modify-write, so two uploads racing on the
// same owner can lose one increment.
func TestIngestConcurrentStorageUsageMayLoseUpdate(t *testing.T) {
	f := newIngestFixture()
	var barrier sync.WaitGroup
	barrier.Add(2)
	f.users.beforeSet = func() {
		barrier.Done()
		barrier.Wait()
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.svc.addStorageUsage(context.Background(), f.svc.log, 1, 100)
		}()
	}
	wg.Wait()

	if got := f.users.get(1).StorageUsedBytes; got != 150 {
		t.Fatalf("storage used = %d, want 150 (one update lost)", got)
	}
}

func TestListDocumentsRequiresOwnership(t *testing.T) {
	f := newIngestFixture()
	if _, err := f.svc.Ingest(context.Background(), textInput("hello")); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	docs, err := f.svc.ListDocuments(context.Background(), 1, "bot-1")
	if err != nil || len(docs) != 1 {
		t.Fatalf("list: %v (%d docs)", err, len(docs))
	}
	if _, err := f.svc.ListDocuments(context.Background(), 1, "bot-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign list: got %v", err)
	}
}
