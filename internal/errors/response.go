package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code for frontend mapping
	Message string `json:"message"` // human-readable description
}

// RespondWithError writes the standard error envelope.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthand helpers for the common responses.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
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

func UnprocessableEntity(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "an internal error occurred, please retry"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationErrorResponse reports per-field validation problems.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "input validation failed",
		Fields:  fields,
	})
}

// ParseAndRespond parses err and writes the envelope in one step.
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
