package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter(tokens *auth.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(tokens))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func TestJWTAuth_Success(t *testing.T) {
	tokens := auth.NewManager("test-secret", "iss", "aud")
	r := newRouter(tokens)

	token, err := tokens.GenerateToken("user-1", "alice@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "user-1")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	tokens := auth.NewManager("test-secret", "iss", "aud")
	r := newRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_QueryParamFallback(t *testing.T) {
	tokens := auth.NewManager("test-secret", "iss", "aud")
	r := newRouter(tokens)

	token, err := tokens.GenerateToken("user-1", "alice@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_BadToken(t *testing.T) {
	tokens := auth.NewManager("test-secret", "iss", "aud")
	r := newRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
