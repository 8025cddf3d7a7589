package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kanboard/internal/database"
	"kanboard/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRoutes()
	w := serve(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRoutes()
	w := serve(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "kanboard_realtime_clients")
}

func TestProtectedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRoutes()

	w := serve(r, http.MethodGet, "/api/projects/1/categories")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/project/1/columns")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	r := SetupRoutes()
	w := serve(r, http.MethodGet, "/login")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Sign in")
}
