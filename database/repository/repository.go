// Package repository holds helpers shared by the per-entity Mongo
// repositories under this directory.
package repository

import (
	"context"
	"errors"
	"time"

	"lawlink/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	maxAttempts = 3
	baseBackoff = 100 * time.Millisecond
)

// NewContext creates a context with the given timeout. Every store
// call is bounded so operations surface StoreUnavailable instead of
// hanging.
func NewContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// IsTransient reports whether err looks like a transient
// infrastructure failure worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// WithRetry runs fn up to maxAttempts times, backing off between
// transient failures. A still-failing transient error is surfaced as
// StoreUnavailable; other errors pass through untouched.
func WithRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
		utils.GetLogger().Warn("transient store failure, retrying",
			zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(baseBackoff * time.Duration(attempt))
	}
	return utils.StoreUnavailable("store unavailable: " + op)
}
