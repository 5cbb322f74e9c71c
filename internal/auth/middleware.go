package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxTeamID = "team_id"
)

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"reason":    code,
			"message":   message,
			"retryable": false,
		},
	})
}

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxTeamID, claims.TeamID)

		c.Next()
	}
}

// RequireRole lets the request through only if the token carries one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
	}
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (string, bool) {
	return c.GetString(ctxUserID), c.GetString(ctxUserID) != ""
}

func GetRole(c *gin.Context) (string, bool) {
	role := c.GetString(ctxRole)
	return role, role != ""
}

// GetTeamID returns the team a team token is bound to
func GetTeamID(c *gin.Context) (string, bool) {
	teamID := c.GetString(ctxTeamID)
	return teamID, teamID != ""
}

// Actor names the caller for the audit log
func Actor(c *gin.Context) string {
	userID, ok := GetUserID(c)
	if !ok {
		return "anonymous"
	}
	role, _ := GetRole(c)
	return role + ":" + userID
}
