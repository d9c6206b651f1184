package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/app"
	"doctalkie/internal/extract"
	"doctalkie/internal/model"
	"doctalkie/internal/transport/http/response"
)

type DocumentHandler struct {
	ingestService *app.IngestService
	maxFileBytes  int64
}

type ProcessDocumentResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DocumentID  string `json:"documentId"`
	ChunksCount int    `json:"chunksCount"`
}

type documentView struct {
	ID            string     `json:"id"`
	FileName      string     `json:"file_name"`
	FileSizeBytes int64      `json:"file_size_bytes"`
	Status        string     `json:"status"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

func NewDocumentHandler(ingestService *app.IngestService, maxFileBytes int64) *DocumentHandler {
	return &DocumentHandler{ingestService: ingestService, maxFileBytes: maxFileBytes}
}

// Process ingests the multipart "file" field into the assistant's corpus.
func (h *DocumentHandler) Process(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	botID := c.Param("id")
	if err := h.ingestService.Authorize(c.Request.Context(), userID, botID); err != nil {
		response.FromError(c, err, "Failed to verify bot ownership")
		return
	}

	// 8KB of slack for the multipart framing around the file.
	if h.maxFileBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileBytes+8<<10)
	}
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, "File is too large")
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid form data or file missing")
		return
	}
	if file.Filename == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "File is required")
		return
	}
	if h.maxFileBytes > 0 && file.Size > h.maxFileBytes {
		response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, "File is too large")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		UserID:      userID,
		BotID:       botID,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeIngestError(c, err)
		return
	}

	response.OK(c, ProcessDocumentResponse{
		Success:     true,
		Message:     "Processed " + file.Filename,
		DocumentID:  result.DocumentID,
		ChunksCount: result.ChunkCount,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	docs, err := h.ingestService.ListDocuments(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.FromError(c, err, "list documents failed")
		return
	}
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, newDocumentView(d))
	}
	response.OK(c, gin.H{"documents": out})
}

func writeIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrExtraction), errors.Is(err, extract.ErrEmptyDocument):
		response.Error(c, http.StatusInternalServerError, response.CodeExtraction, "Failed to process file: "+err.Error())
	case errors.Is(err, app.ErrPersistence):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeDatabase, "Database error during processing")
	default:
		response.FromError(c, err, "Failed to process file")
	}
}

func newDocumentView(d model.Document) documentView {
	return documentView{
		ID:            d.ID,
		FileName:      d.FileName,
		FileSizeBytes: d.FileSizeBytes,
		Status:        d.Status,
		UploadedAt:    d.CreatedAt,
		ProcessedAt:   d.ProcessedAt,
	}
}
