package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campuspark/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	r.GET("/me", JWTAuthWithConfig(cfg), func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID)
	})
	r.GET("/admin", JWTAuthWithConfig(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthWithConfig(t *testing.T) {
	r := setupTestRouter()
	exp := time.Now().Add(time.Hour).Unix()

	access := signedToken(t, jwt.MapClaims{"user_id": "user-1", "role": "USER", "type": "access", "exp": exp})
	refresh := signedToken(t, jwt.MapClaims{"user_id": "user-1", "role": "USER", "type": "refresh", "exp": exp})
	expired := signedToken(t, jwt.MapClaims{"user_id": "user-1", "type": "access", "exp": time.Now().Add(-time.Minute).Unix()})

	w := request(r, "/me", "Bearer "+access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "Token "+access).Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "Bearer "+refresh).Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "Bearer "+expired).Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "Bearer not.a.token").Code)
}

func TestRequireAdmin(t *testing.T) {
	r := setupTestRouter()
	exp := time.Now().Add(time.Hour).Unix()

	user := signedToken(t, jwt.MapClaims{"user_id": "user-1", "role": "USER", "type": "access", "exp": exp})
	admin := signedToken(t, jwt.MapClaims{"user_id": "admin-1", "role": "ADMIN", "type": "access", "exp": exp})

	assert.Equal(t, http.StatusForbidden, request(r, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusOK, request(r, "/admin", "Bearer "+admin).Code)
}

func TestCurrentUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUserID(c)
	assert.False(t, ok)

	c.Set("user_id", 42)
	_, ok = CurrentUserID(c)
	assert.False(t, ok)
}
