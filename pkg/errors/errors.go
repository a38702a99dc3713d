package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents fetch/transport errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents extraction and price parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeStore represents observation store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeNotification represents alert delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeValidation represents item validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// TrackerError represents an error tied to a monitored item
type TrackerError struct {
	Type    ErrorType
	Item    string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Item, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Item, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying on a later cycle
func (e *TrackerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeStore:
		return true
	case ErrorTypeRateLimit:
		return false
	case ErrorTypeParsing:
		return false
	default:
		return false
	}
}

// New creates a new TrackerError
func New(errType ErrorType, item, message string, err error) *TrackerError {
	return &TrackerError{
		Type:    errType,
		Item:    item,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(item, message string, err error) *TrackerError {
	return New(ErrorTypeNetwork, item, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(item, message string, err error) *TrackerError {
	return New(ErrorTypeParsing, item, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(item string, duration time.Duration) *TrackerError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, item, message, nil)
}

// NewStore creates a new store error
func NewStore(item, message string, err error) *TrackerError {
	return New(ErrorTypeStore, item, message, err)
}

// NewNotification creates a new notification error
func NewNotification(item, message string, err error) *TrackerError {
	return New(ErrorTypeNotification, item, message, err)
}

// NewValidation creates a new validation error
func NewValidation(item, message string) *TrackerError {
	return New(ErrorTypeValidation, item, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *TrackerError {
	return New(ErrorTypeConfiguration, "", message, err)
}
