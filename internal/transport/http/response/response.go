package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"doctalkie/internal/app"
	"doctalkie/internal/extract"
)

const (
	CodeBadRequest         = 40000
	CodeFileTooLarge       = 40001
	CodeUnauthorized       = 40100
	CodeInvalidAPIKey      = 40101
	CodeInvalidCredentials = 40102
	CodeForbidden          = 40300
	CodeBotLimitReached    = 40301
	CodeNotFound           = 40400
	CodeEmailExists        = 40900
	CodeContextTooLarge    = 41300
	CodeUnsupportedType    = 41500
	CodeInternalServer     = 50000
	CodeDatabase           = 50001
	CodeUpstream           = 50002
	CodeExtraction         = 50003
)

type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, ErrorBody{
		Error: message,
		Code:  code,
	})
}

// FromError writes a service error. Client errors carry their own message;
// server errors are replaced by fallback.
func FromError(c *gin.Context, err error, fallback string) {
	status := app.StatusOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = fallback
	}
	Error(c, status, CodeOf(err), message)
}

func CodeOf(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return CodeBadRequest
	case errors.Is(err, app.ErrInvalidAPIKey):
		return CodeInvalidAPIKey
	case errors.Is(err, app.ErrInvalidCredential):
		return CodeInvalidCredentials
	case errors.Is(err, app.ErrUnauthenticated):
		return CodeUnauthorized
	case errors.Is(err, app.ErrBotLimitReached):
		return CodeBotLimitReached
	case errors.Is(err, app.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, app.ErrBotNotFound):
		return CodeNotFound
	case errors.Is(err, app.ErrEmailExists):
		return CodeEmailExists
	case errors.Is(err, app.ErrContextTooLarge):
		return CodeContextTooLarge
	case errors.Is(err, extract.ErrUnsupportedType):
		return CodeUnsupportedType
	case errors.Is(err, app.ErrPersistence):
		return CodeDatabase
	case errors.Is(err, app.ErrUpstream):
		return CodeUpstream
	case errors.Is(err, extract.ErrExtraction), errors.Is(err, extract.ErrEmptyDocument):
		return CodeExtraction
	default:
		return CodeInternalServer
	}
}
