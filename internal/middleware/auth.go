package middleware

import (
	"net/http"
	"strings"

	"kanboard/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the JWT for server-rendered pages.
const SessionCookie = "kb_session"

// JWTAuthMiddleware validates the JWT from the Authorization header, the
// session cookie, or the token query parameter (websocket clients).
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or missing authorization token",
			})
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// PageAuthMiddleware is JWTAuthMiddleware for HTML pages: it redirects to
// the login page instead of answering with JSON.
func PageAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context) (*auth.Claims, bool) {
	tokenString := ""
	if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
		tokenString = parts[1]
	}
	if tokenString == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenString = cookie
		}
	}
	// browsers cannot set headers on websocket upgrades
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return nil, false
	}

	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setUser(c *gin.Context, claims *auth.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", claims.Role)
}
