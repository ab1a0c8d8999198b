package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/dodam/pkg/response"
)

const (
	limiterSweepEvery = time.Minute
	limiterStaleAfter = 3 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool 按 key 维护限流器；失活条目在请求路径上惰性清理，
// 不起后台 goroutine
type limiterPool struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rate      rate.Limit
	burst     int
	lastSweep time.Time
}

func newLimiterPool(r rate.Limit, burst int) *limiterPool {
	return &limiterPool{clients: make(map[string]*clientLimiter), rate: r, burst: burst, lastSweep: time.Now()}
}

func (p *limiterPool) allow(key string, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if now.Sub(p.lastSweep) >= limiterSweepEvery {
		p.sweepLocked(now)
	}

	cl, ok := p.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(p.rate, p.burst)}
		p.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}

func (p *limiterPool) sweepLocked(now time.Time) {
	for key, cl := range p.clients {
		if now.Sub(cl.lastSeen) > limiterStaleAfter {
			delete(p.clients, key)
		}
	}
	p.lastSweep = now
}

// RateLimit 按客户端 IP 限流，用于登录/验证码等易被滥用的入口
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	pool := newLimiterPool(r, burst)
	return func(c *gin.Context) {
		if !pool.allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, response.Response{
				Success:      false,
				ErrorCode:    response.CodeBadRequest,
				ErrorMessage: "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
