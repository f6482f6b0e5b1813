package types

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is
var (
	ErrEmptyText           = errors.New("text is empty")
	ErrZeroVector          = errors.New("zero-norm vector")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ValidationError represents malformed or empty input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ProviderError represents an unreachable or failing external collaborator
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ComputationError represents an internal math edge case inside one signal
type ComputationError struct {
	Signal  SignalKind
	Message string
	Cause   error
}

func (e *ComputationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s signal computation failed: %s: %v", e.Signal, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s signal computation failed: %s", e.Signal, e.Message)
}

func (e *ComputationError) Unwrap() error {
	return e.Cause
}

// CacheError represents a storage or serialization failure inside the cache
type CacheError struct {
	Op    string
	Key   string
	Cause error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache %s failed for %s: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("cache %s failed for %s", e.Op, e.Key)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ErrorKind maps err onto the error taxonomy: validation, provider, timeout, computation,
// cache or unknown. Used to label logs and metrics.
func ErrorKind(err error) string {
	var (
		validationErr  *ValidationError
		providerErr    *ProviderError
		computationErr *ComputationError
		cacheErr       *CacheError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &validationErr), errors.Is(err, ErrEmptyText):
		return "validation"
	case errors.As(err, &providerErr), errors.Is(err, ErrProviderUnavailable):
		return "provider"
	case errors.As(err, &computationErr), errors.Is(err, ErrZeroVector):
		return "computation"
	case errors.As(err, &cacheErr):
		return "cache"
	}
	return "unknown"
}
