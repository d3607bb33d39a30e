package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/services"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
)

var publicPaths = map[string]struct{}{
	"/":         {},
	"/login":    {},
	"/register": {},
	"/health":   {},
}

const publicPrefix = "/static/"

// IsPublic reports whether path is served without a token.
func IsPublic(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, publicPrefix)
}

type AuthMiddleware struct {
	log         *logger.Logger
	authService *services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth rejects every request outside the public allow-list that does
// not carry a valid bearer token. The token may also come from ?token= for
// clients that cannot set headers, such as browser websockets.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}
		claims, err := am.authService.ValidateToken(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("token")
}
