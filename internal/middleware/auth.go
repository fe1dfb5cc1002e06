package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pimpraxis/therapy-scheduler/internal/config"
)

const (
	ContextUserID     = "userID"
	ContextUserEmail  = "userEmail"
	ContextUserGroups = "userGroups"

	AdminGroup = "ADMIN"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}
		email, _ := claims["email"].(string)

		c.Set(ContextUserID, sub)
		c.Set(ContextUserEmail, email)
		c.Set(ContextUserGroups, parseGroups(claims["cognito:groups"]))

		c.Next()
	}
}

// parseGroups accepts both claim shapes the identity provider emits: a JSON
// list and a space-joined string.
func parseGroups(v any) []string {
	switch groups := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(groups))
		for _, g := range groups {
			if s, ok := g.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if groups == "" {
			return nil
		}
		return strings.Fields(groups)
	default:
		return nil
	}
}

// IsAdmin reports whether the caller's group membership contains ADMIN.
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get(ContextUserGroups)
	if !exists {
		return false
	}
	groups, ok := v.([]string)
	if !ok {
		return false
	}
	for _, g := range groups {
		if g == AdminGroup {
			return true
		}
	}
	return false
}

// RequireAdmin aborts with 403 for non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_required"})
			return
		}
		c.Next()
	}
}
