package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"lawlink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ExternalIDKey is the gin context key the auth middleware stores the
// verified identity-provider subject under.
const ExternalIDKey = "externalID"

// JWTAuthMiddleware verifies the Bearer token and puts the external id
// in the request context. Verified token hashes are cached in Redis so
// repeat requests skip signature validation.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Envelope{
				Success: false,
				Error:   "Authentication required",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Envelope{
				Success: false,
				Error:   "Authentication required",
			})
			return
		}

		ctx := context.Background()
		tokenHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + tokenHash

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			externalID, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil && externalID != "" {
				_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
				c.Set(ExternalIDKey, externalID)
				c.Next()
				return
			}
			if err != nil && err != redis.Nil {
				utils.GetLogger().Warn("Auth cache lookup failed, validating token directly", zap.Error(err))
			}
		}

		externalID, err := utils.ExtractExternalIDFromToken(tokenString)
		if err != nil || externalID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Envelope{
				Success: false,
				Error:   "Invalid or expired token",
			})
			return
		}

		if authCache != nil {
			if err := authCache.Set(ctx, cacheKey, externalID, time.Hour).Err(); err != nil {
				utils.GetLogger().Warn("Failed to cache auth token", zap.Error(err))
			}
		}

		c.Set(ExternalIDKey, externalID)
		c.Next()
	}
}

// ExternalID returns the verified subject the auth middleware stored,
// or "" when the request is unauthenticated.
func ExternalID(c *gin.Context) string {
	val, exists := c.Get(ExternalIDKey)
	if !exists {
		return ""
	}
	id, _ := val.(string)
	return id
}
