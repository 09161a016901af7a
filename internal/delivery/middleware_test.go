package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", RequireAdmin(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": c.GetString("admin")})
	})
	return r
}

func signToken(t *testing.T, secret []byte, expiresAt int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "admin",
		ExpiresAt: expiresAt,
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestRequireAdmin(t *testing.T) {
	secret := []byte("test-secret")
	r := adminRouter(secret)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Token abc")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret"), time.Now().Add(time.Hour).Unix()))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, time.Now().Add(-time.Hour).Unix()))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, time.Now().Add(time.Hour).Unix()))
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})
}
