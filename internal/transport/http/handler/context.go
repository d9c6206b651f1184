package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/transport/http/middleware"
	"doctalkie/internal/transport/http/response"
)

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized: User not found")
	}
	return userID, ok
}
