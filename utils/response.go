package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSONSuccess writes a success envelope.
func JSONSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// JSONError writes a failure envelope with the given status.
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// JSONFromError maps a service error to its status code and writes the
// failure envelope. Unknown errors become a logged 500.
func JSONFromError(c *gin.Context, err error) {
	if se, ok := AsServiceError(err); ok {
		JSONError(c, StatusForCode(se.Code), se.Message)
		return
	}
	GetLogger().Error("unexpected error", zap.Error(err))
	JSONError(c, http.StatusInternalServerError, "Internal server error")
}
