package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/app"
	"doctalkie/internal/transport/http/response"
)

type BotHandler struct {
	botService *app.BotService
}

type CreateBotRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type UpdateBotRequest struct {
	Name           *string   `json:"name" binding:"omitempty,max=128"`
	StrictContext  *bool     `json:"strict_context"`
	AllowedOrigins *[]string `json:"allowed_origins"`
}

func NewBotHandler(botService *app.BotService) *BotHandler {
	return &BotHandler{botService: botService}
}

func (h *BotHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req CreateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	bot, err := h.botService.Create(c.Request.Context(), app.CreateBotInput{UserID: userID, Name: req.Name})
	if err != nil {
		response.FromError(c, err, "create assistant failed")
		return
	}
	c.JSON(http.StatusCreated, bot)
}

func (h *BotHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	bots, err := h.botService.List(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, "list assistants failed")
		return
	}
	response.OK(c, gin.H{"assistants": bots})
}

func (h *BotHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	bot, err := h.botService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.FromError(c, err, "fetch assistant failed")
		return
	}
	response.OK(c, bot)
}

func (h *BotHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req UpdateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	bot, err := h.botService.UpdateSettings(c.Request.Context(), app.UpdateBotInput{
		UserID:         userID,
		BotID:          c.Param("id"),
		Name:           req.Name,
		StrictContext:  req.StrictContext,
		AllowedOrigins: req.AllowedOrigins,
	})
	if err != nil {
		response.FromError(c, err, "update assistant failed")
		return
	}
	response.OK(c, bot)
}

func (h *BotHandler) RotateKey(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	bot, err := h.botService.RotateAPIKey(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.FromError(c, err, "rotate api key failed")
		return
	}
	response.OK(c, bot)
}
