package middleware

import (
	"strings"

	"github.com/campuspool/campuspool-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func tokenFromRequest(c *gin.Context) string {
	// First try the Authorization header
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Fall back to a query parameter (for WebSocket)
	return c.Query("token")
}

func setClaims(c *gin.Context, claims jwt.MapClaims) bool {
	id, ok := claims["id"].(float64)
	if !ok {
		return false
	}
	userType, ok := claims["userType"].(string)
	if !ok {
		return false
	}
	c.Set("userId", uint(id))
	c.Set("userType", userType)
	return true
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !setClaims(c, claims) {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token is
// present and lets guests through untouched. Guest-accessible endpoints
// (posting rides, requesting seats) sit behind this.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString != "" {
			if token, err := utils.ValidateToken(tokenString); err == nil && token.Valid {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					setClaims(c, claims)
				}
			}
		}
		c.Next()
	}
}
