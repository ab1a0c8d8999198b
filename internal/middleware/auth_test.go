package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/config"
	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/internal/token"
)

func newAuthEngine(t *testing.T) (*gin.Engine, *token.TokenDto) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.RefreshToken{}))

	provider := token.NewProvider(config.JWTConfig{
		Secret:          "auth-test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}, repository.NewRefreshTokenRepository(db))

	user := &model.User{ID: uuid.New().String(), Email: "a@x.com", Nickname: "n1"}
	dto, err := provider.GenerateTokenDto(context.Background(), user)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(provider), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r, dto
}

func TestAuth(t *testing.T) {
	r, dto := newAuthEngine(t)

	do := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("有效令牌注入用户", func(t *testing.T) {
		w := do("Bearer " + dto.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("刷新令牌不可当访问令牌用", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+dto.RefreshToken).Code)
	})

	t.Run("缺少头", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("").Code)
	})

	t.Run("非 Bearer 格式", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Basic abc").Code)
	})

	t.Run("令牌不可解析", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Bearer not-a-jwt").Code)
	})
}
