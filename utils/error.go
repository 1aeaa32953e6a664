package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service error codes. Every user-facing failure raised by a service
// carries exactly one of these.
const (
	CodeUnauthenticated   = "unauthenticated"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "notFound"
	CodeInvalidTransition = "invalidTransition"
	CodeInvalidInput      = "invalidInput"
	CodeAlreadyExists     = "alreadyExists"
	CodeAlreadyResponded  = "alreadyResponded"
	CodeStoreUnavailable  = "storeUnavailable"
)

// ServiceError is a typed, user-facing failure.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func Unauthenticated(msg string) *ServiceError { return NewServiceError(CodeUnauthenticated, msg) }
func Forbidden(msg string) *ServiceError       { return NewServiceError(CodeForbidden, msg) }
func NotFound(msg string) *ServiceError        { return NewServiceError(CodeNotFound, msg) }
func InvalidTransition(msg string) *ServiceError {
	return NewServiceError(CodeInvalidTransition, msg)
}
func InvalidInput(msg string) *ServiceError     { return NewServiceError(CodeInvalidInput, msg) }
func AlreadyExists(msg string) *ServiceError    { return NewServiceError(CodeAlreadyExists, msg) }
func AlreadyResponded(msg string) *ServiceError { return NewServiceError(CodeAlreadyResponded, msg) }
func StoreUnavailable(msg string) *ServiceError { return NewServiceError(CodeStoreUnavailable, msg) }

// AsServiceError unwraps err to a *ServiceError if one is in the chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// StatusForCode maps a service error code to an HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidTransition, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeAlreadyExists, CodeAlreadyResponded:
		return http.StatusConflict
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, Envelope{
					Success: false,
					Error:   "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
