package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kanboard/internal/middleware"
	"kanboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func userRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware())
	r.GET("/api/users", GetAllUsers)
	r.POST("/api/users", CreateUser)
	return r
}

func TestGetAllUsers(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice", "secret1", models.RoleAdmin)
	seedUser(t, "bob", "secret2", "")

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", bearer(t, alice.ID, alice.Username, alice.Role))
	w := httptest.NewRecorder()

	userRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "password")

	resp := decode[struct {
		Users []UserResponse `json:"users"`
		Count int            `json:"count"`
	}](t, w)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "alice", resp.Users[0].Username)
	require.Equal(t, models.RoleUser, resp.Users[1].Role)
}

func TestGetAllUsers_RequiresToken(t *testing.T) {
	setupTestDB(t)

	w := doGet(userRouter(), "/api/users")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUser(t *testing.T) {
	setupTestDB(t)
	admin := seedUser(t, "admin", "secret1", models.RoleAdmin)
	member := seedUser(t, "bob", "secret2", models.RoleUser)

	post := func(token string, body map[string]string) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		userRouter().ServeHTTP(w, req)
		return w
	}
	adminToken := bearer(t, admin.ID, admin.Username, admin.Role)

	w := post(bearer(t, member.ID, member.Username, member.Role), map[string]string{"username": "carol", "password": "secret3"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = post(adminToken, map[string]string{"username": "carol", "password": "secret3"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[UserResponse](t, w)
	require.Equal(t, "carol", created.Username)
	require.Equal(t, models.RoleUser, created.Role)

	w = post(adminToken, map[string]string{"username": "carol", "password": "secret3"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = post(adminToken, map[string]string{"username": "dave", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = post(adminToken, map[string]string{"username": "dave", "password": "secret4", "role": "root"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
