// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"strings"

	"leadflow-service/internal/domain/agent"
	"leadflow-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the identity provider's access tokens. This service only
// verifies them; issuing lives elsewhere.
type Claims struct {
	AgentID string `json:"sub"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Auth validates the bearer token and loads the agent identity into the
// request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		})
		if err != nil || !parsed.Valid {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("agent_id", claims.AgentID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminOnly requires an Admin role. MUST be used after Auth().
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != agent.RoleAdmin {
			response.Forbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Websocket clients cannot set headers from the browser.
	return c.Query("token")
}

// AgentID returns the authenticated agent id set by Auth().
func AgentID(c *gin.Context) string {
	id, _ := c.Get("agent_id")
	s, _ := id.(string)
	return s
}
