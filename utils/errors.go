package utils

import (
	"errors"
	"net/http"

	"pdf-chat-backend/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithPipelineError maps a typed pipeline error to its HTTP status
// class: 400 for validation, 404 for unknown sessions, 500 for everything
// else. Only the message string is exposed to the client.
func RespondWithPipelineError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		RespondWithBadRequest(c, validationErr.Msg, nil)
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		RespondWithNotFound(c, notFoundErr.Msg)
		return
	}

	var upstreamErr *services.UpstreamError
	if errors.As(err, &upstreamErr) {
		RespondWithError(c, http.StatusInternalServerError, "upstream_error",
			err.Error(), gin.H{"service": upstreamErr.Service})
		return
	}

	RespondWithInternalError(c, err.Error(), nil)
}
