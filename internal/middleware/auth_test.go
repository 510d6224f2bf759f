package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-mod/internal/pkg"
	redisrepo "community-mod/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRig(t *testing.T) (*gin.Engine, *pkg.JWTManager, *redisrepo.SessionRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := redisrepo.NewSessionRepository(client)
	tokens := pkg.NewJWTManager("test-secret", 30*time.Minute)

	r := gin.New()
	r.GET("/ping", Auth(tokens, sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r, tokens, sessions
}

func TestAuthAccepted(t *testing.T) {
	t.Parallel()
	r, tokens, sessions := newAuthRig(t)

	token, err := tokens.GenerateAccess(7)
	require.NoError(t, err)
	require.NoError(t, sessions.Set(context.Background(), 7, token))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthRejected(t *testing.T) {
	t.Parallel()
	r, tokens, sessions := newAuthRig(t)

	token, err := tokens.GenerateAccess(7)
	require.NoError(t, err)

	// 没有 header
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// redis 里没有登录态副本
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 副本是别的 token：账号在他处重新登录过
	require.NoError(t, sessions.Set(context.Background(), 7, "other-token"))
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
