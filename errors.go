package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	// ErrNotFound marks a lookup key (username, character, subject, topic)
	// that is absent from the store.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable wraps any other storage failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUsernameTaken    = errors.New("username taken")
)

// ValidationError is a recoverable input error whose Message is shown to the player as is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// storeErr classifies a gorm error. what names the looked up entity.
func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", what, ErrStoreUnavailable, err)
}

// statusFor maps an error to its HTTP status and error body.
func statusFor(err error) (int, gin.H) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	default:
		return http.StatusServiceUnavailable, gin.H{"error": "store unavailable, try again"}
	}
}

// abortWithError writes the error body used by every handler.
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err))
}
