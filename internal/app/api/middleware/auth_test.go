package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/fieldline/portal/pkg/config"
)

func authTestRouter(t *testing.T, cfg *cfgpkg.Config) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		seen = UserID(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: "test-secret"}}
	r, seen := authTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "profile-42"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "profile-42", *seen)
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	cfg := &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: "test-secret"}}
	r, _ := authTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsWrongSecret(t *testing.T) {
	cfg := &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: "test-secret"}}
	r, _ := authTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "profile-42"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsTokenWithoutSubject(t *testing.T) {
	cfg := &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: "test-secret"}}
	r, _ := authTestRouter(t, cfg)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
