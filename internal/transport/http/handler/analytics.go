package handler

import (
	"github.com/gin-gonic/gin"

	"doctalkie/internal/app"
	"doctalkie/internal/transport/http/response"
)

type AnalyticsHandler struct {
	analyticsService *app.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *app.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) ForBot(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.analyticsService.ForBot(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.FromError(c, err, "load analytics failed")
		return
	}
	response.OK(c, stats)
}
