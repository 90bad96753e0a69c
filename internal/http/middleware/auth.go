package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobledger/internal/http/handlers/common"
	"github.com/ignatzorin/jobledger/internal/service"
)

// AuthMiddleware проверяет JWT и кладёт идентичность подписанта
// в контекст запроса.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		signer, err := tokens.Parse(raw)
		if err != nil || signer == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(common.ContextSignerKey, signer)
		c.Next()
	}
}

// OptionalAuthMiddleware кладёт подписанта в контекст, если токен
// передан и валиден, но не требует его.
func OptionalAuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			if signer, err := tokens.Parse(strings.TrimPrefix(auth, "Bearer ")); err == nil && signer != "" {
				c.Set(common.ContextSignerKey, signer)
			}
		}
		c.Next()
	}
}
