package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/inventory_api/internal/utils"
)

// JWTMiddleware guards the admin API with bearer tokens.
type JWTMiddleware struct {
	jwt      *utils.JWTManager
	disabled bool
}

// NewJWTMiddleware constructs a JWTMiddleware. When disabled is true every
// request passes through unauthenticated.
func NewJWTMiddleware(jwt *utils.JWTManager, disabled bool) *JWTMiddleware {
	return &JWTMiddleware{jwt: jwt, disabled: disabled}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.disabled {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		claims, err := m.jwt.Validate(token)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// bearerToken reads the Authorization header. EventSource cannot set
// headers, so a token query parameter is accepted as well.
func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return c.Query("token")
}
