package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/app"
	"doctalkie/internal/model"
	"doctalkie/internal/transport/http/middleware"
	"doctalkie/internal/transport/http/response"
)

type AuthHandler struct {
	authService  *app.AuthService
	cookieName   string
	cookieSecure bool
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

type userView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type authView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

type usageView struct {
	QueryCount       int64 `json:"query_count"`
	StorageUsedBytes int64 `json:"storage_used_bytes"`
}

type profileView struct {
	userView
	Usage        usageView           `json:"usage"`
	Subscription *model.Subscription `json:"subscription"`
}

func NewAuthHandler(authService *app.AuthService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.FromError(c, err, "register failed")
		return
	}

	h.setSession(c, result)
	response.OK(c, newAuthView(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(c, err, "login failed")
		return
	}

	h.setSession(c, result)
	response.OK(c, newAuthView(result))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	profile, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, "fetch current user failed")
		return
	}

	response.OK(c, profileView{
		userView: newUserView(profile.User),
		Usage: usageView{
			QueryCount:       profile.User.QueryCount,
			StorageUsedBytes: profile.User.StorageUsedBytes,
		},
		Subscription: profile.Subscription,
	})
}

func (h *AuthHandler) setSession(c *gin.Context, result *app.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, result.Token, maxAge, "/", "", h.cookieSecure, true)
}

func newAuthView(result *app.AuthResult) authView {
	return authView{Token: result.Token, ExpiresAt: result.ExpiresAt, User: newUserView(result.User)}
}

func newUserView(u *model.User) userView {
	return userView{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
