package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(rate.Limit(0.01), 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// 突发额度内放行
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// 不同 IP 各自独立计数
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestLimiterPoolSweep(t *testing.T) {
	pool := newLimiterPool(rate.Limit(1), 1)
	now := time.Now()

	pool.allow("stale", now)
	pool.allow("fresh", now.Add(3*time.Minute))
	require.Len(t, pool.clients, 2)

	// 下一次请求顺带清理失活条目
	pool.allow("fresh", now.Add(5*time.Minute))
	require.Len(t, pool.clients, 1)
	assert.Contains(t, pool.clients, "fresh")

	// 被清理的 key 重新计数，突发额度恢复
	assert.True(t, pool.allow("stale", now.Add(6*time.Minute)))
}
