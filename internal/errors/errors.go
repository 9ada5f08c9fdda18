package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape. Every blocked precondition yields
// a failure envelope with a specific message; csrf_token is refreshed on
// session-bearing flows.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

const envelopeCSRFKey = "envelope_csrf_token"

// SetCSRFToken records the token to include in every envelope written for
// this request. Set by the auth middleware once a session is established.
func SetCSRFToken(c *gin.Context, token string) {
	c.Set(envelopeCSRFKey, token)
}

func csrfToken(c *gin.Context) string {
	token, _ := c.Get(envelopeCSRFKey)
	s, _ := token.(string)
	return s
}

// OK writes a success envelope.
func OK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		CSRFToken: csrfToken(c),
	})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		CSRFToken: csrfToken(c),
	})
}

// Fail writes a failure envelope with the given status.
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Success:   false,
		Message:   message,
		CSRFToken: csrfToken(c),
	})
}

// Unauthorized sends a 401 failure.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 failure.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	Fail(c, http.StatusForbidden, message)
}

// NotFound sends a 404 failure.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Fail(c, http.StatusNotFound, message)
}

// BadRequest sends a 400 failure.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	Fail(c, http.StatusBadRequest, message)
}

// Conflict sends a 409 failure.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	Fail(c, http.StatusConflict, message)
}

// TooManyRequests sends a 429 failure.
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Rate limit exceeded. Please try again later."
	}
	Fail(c, http.StatusTooManyRequests, message)
}

// InternalError sends a 500 failure. Internals are never surfaced.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Fail(c, http.StatusInternalServerError, message)
}
