package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gotruck.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// ActorIDKey is the context key for the authenticated actor ID
	ActorIDKey = "actorId"
	// ActorEmailKey is the context key for the actor email
	ActorEmailKey = "actorEmail"
	// ActorRoleKey is the context key for the actor role
	ActorRoleKey = "actorRole"

	// RoleAdmin is the role claim carried by back-office tokens
	RoleAdmin = "admin"
)

// AuthMiddleware validates the bearer token and loads the claims into the
// gin context.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(ActorIDKey, claims.ActorID)
		c.Set(ActorEmailKey, claims.Email)
		c.Set(ActorRoleKey, claims.Role)

		c.Next()
	}
}

// GetActorID gets the authenticated actor ID from context
func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	actorID, exists := c.Get(ActorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return actorID.(uuid.UUID), true
}

// GetActorRole gets the actor role from context
func GetActorRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ActorRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorRole, exists := GetActorRole(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Actor role not found",
			})
			return
		}

		for _, role := range roles {
			if actorRole == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}

// RequireAdmin creates a middleware that requires the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}
