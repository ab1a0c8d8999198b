package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	_ "github.com/d60-Lab/dodam/docs"
	"github.com/d60-Lab/dodam/internal/api/handler"
	"github.com/d60-Lab/dodam/internal/middleware"
	"github.com/d60-Lab/dodam/internal/token"
)

// NewRouter 组装全部路由与通用中间件
func NewRouter(h *handler.Handler, provider *token.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("dodam-api"))
	// SSE 订阅流不能过 gzip 缓冲
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/notifications/subscribe"})))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.Auth(provider)
	// 登录/注册/验证码入口按 IP 限流
	authLimit := middleware.RateLimit(rate.Limit(5), 10)

	user := r.Group("/api/user")
	{
		user.POST("/signup", authLimit, h.Signup)
		user.POST("/login", authLimit, h.Login)
		user.POST("/logout", auth, h.Logout)
		user.POST("/emailcheck", h.EmailCheck)
		user.POST("/nicknamecheck", h.NicknameCheck)
		user.POST("/email", authLimit, h.SendCertification)
		user.POST("/certification", authLimit, h.Certify)
		user.PUT("/profile", auth, h.EditProfile)
		user.POST("/refresh", h.Refresh)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", h.SearchPosts)
		posts.POST("", auth, h.CreatePost)
		posts.POST("/:postId/pick", auth, h.PickPost)
		posts.POST("/posting", auth, h.LegacyPosting)
	}

	notifications := r.Group("/api/notifications", auth)
	{
		notifications.GET("/subscribe", h.Subscribe)
		notifications.PUT("/:notificationId/read", h.ChangeIsRead)
	}

	return r
}
