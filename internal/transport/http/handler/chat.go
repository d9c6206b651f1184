package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/app"
	"doctalkie/internal/transport/http/response"
)

// ChatHandler serves the public widget endpoints. Callers authenticate with
// the bot's API key, not a session.
type ChatHandler struct {
	chatService *app.ChatService
}

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid JSON body")
		return
	}

	botID := strings.TrimSpace(c.Param("id"))
	if botID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Assistant ID is missing")
		return
	}

	apiKey, ok := bearerKey(c.GetHeader("Authorization"))
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authorization header is missing or invalid")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Query parameter is required")
		return
	}

	result, err := h.chatService.Ask(c.Request.Context(), app.ChatInput{
		BotID:  botID,
		APIKey: apiKey,
		Query:  req.Query,
		Origin: c.GetHeader("Origin"),
	})
	if err != nil {
		if errors.Is(err, app.ErrUpstream) || errors.Is(err, app.ErrPersistence) {
			_ = c.Error(err)
		}
		response.FromError(c, err, "Failed to process chat request")
		return
	}

	response.OK(c, ChatResponse{Answer: result.Answer})
}

func (h *ChatHandler) GetName(c *gin.Context) {
	name, err := h.chatService.BotName(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Assistant ID is missing or invalid URL")
		case errors.Is(err, app.ErrBotNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Assistant not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeDatabase, "Database error")
		}
		return
	}
	response.OK(c, gin.H{"name": name})
}

// Preflight runs only for OPTIONS requests the CORS layer did not answer.
func (h *ChatHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func bearerKey(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	key := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return key, key != ""
}
