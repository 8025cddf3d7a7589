package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"kanboard/internal/auth"
	"kanboard/internal/database"
	"kanboard/internal/middleware"
	"kanboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// Login handles the login endpoint
// POST /api/login
func Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}

	user, err := repository.NewUserRepository(database.GetDB()).Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Failed to authenticate")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Message:  "Login successful",
	})
}

// LoginPage handles GET /login
func LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "auth/login", gin.H{"title": "Sign in"})
}

// LoginForm handles POST /login and stores the token in the session cookie.
func LoginForm(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	values := map[string]string{"username": username}

	user, err := repository.NewUserRepository(database.GetDB()).Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err == nil {
		var token string
		token, err = auth.GenerateToken(user.ID, user.Username, user.Role)
		if err == nil {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(middleware.SessionCookie, token, int(auth.TokenTTL.Seconds()), "/", "", false, true)
			slog.Info("user signed in", "user_id", user.ID, "username", user.Username)
			c.Redirect(http.StatusSeeOther, "/projects")
			return
		}
	}

	if statusFor(err) == http.StatusInternalServerError {
		renderError(c, err, "Unable to sign in.")
		return
	}
	render(c, http.StatusUnauthorized, "auth/login", gin.H{
		"title":  "Sign in",
		"errors": []string{"Bad username or password"},
		"values": values,
	})
}

// Logout handles GET /logout
func Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}
