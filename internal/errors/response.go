package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have access to this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again shortly"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field messages keyed by the JSON field name.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, errorCode, message string, fields map[string]string) {
	if message == "" {
		message = "The request contains invalid fields"
	}
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   errorCode,
		Message: message,
		Fields:  fields,
	})
}
