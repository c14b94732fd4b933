package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"insurewise-backend/internal/models"
	"insurewise-backend/pkg/utils"
)

// AuthMiddleware validates the bearer token and puts the caller's identity
// on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Missing authorization token", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Malformed authorization header", nil)
			c.Abort()
			return
		}

		token, err := utils.ValidateAccessToken(parts[1])
		if err != nil || !token.Valid {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid token claims", nil)
			c.Abort()
			return
		}

		// JWT numbers decode as float64
		var userID uint64
		if val, ok := claims["sub"].(float64); ok {
			userID = uint64(val)
		}
		role, _ := claims["role"].(string)

		if userID == 0 {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid token subject", nil)
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

// AdminOnly gates admin-facing routes.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleAdmin {
			utils.APIResponse(c, http.StatusForbidden, false, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OwnerOrAdmin allows the resource owner named by the :id param, or any
// admin.
func OwnerOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role == models.RoleAdmin {
			c.Next()
			return
		}

		userID, _ := c.Get("userID")
		if utils.StringToUint64(c.Param(param)) != userID.(uint64) {
			utils.APIResponse(c, http.StatusForbidden, false, "You can only access your own resources", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
