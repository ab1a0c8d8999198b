package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/dodam/config"
	"github.com/d60-Lab/dodam/internal/api"
	"github.com/d60-Lab/dodam/internal/api/handler"
	"github.com/d60-Lab/dodam/internal/mail"
	"github.com/d60-Lab/dodam/internal/middleware"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/internal/service"
	"github.com/d60-Lab/dodam/internal/storage"
	"github.com/d60-Lab/dodam/internal/telemetry"
	"github.com/d60-Lab/dodam/internal/token"
	"github.com/d60-Lab/dodam/pkg/database"
	"github.com/d60-Lab/dodam/pkg/logger"
)

// @title dodam API
// @version 1.0
// @description social posting platform backend
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := telemetry.InitSentry(cfg.Sentry); err != nil {
		logger.Fatal("init sentry", zap.Error(err))
	}
	defer telemetry.FlushSentry()

	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Otel)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	uploader, err := storage.NewS3Uploader(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("init s3 uploader", zap.Error(err))
	}

	if err := middleware.RegisterValidations(); err != nil {
		logger.Fatal("register validations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	certStore := repository.NewCertificationStore(rdb, 10*time.Minute)

	provider := token.NewProvider(cfg.JWT, refreshRepo)

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo)
	dispatcher := service.NewDispatcher(notificationRepo, notificationSvc, 10000)
	stopDispatcher := dispatcher.Start(4)

	userSvc := service.NewUserService(userRepo, refreshRepo, provider, uploader)
	emailSvc := service.NewEmailService(certStore, mail.NewSMTPSender(cfg.SMTP))
	postSvc := service.NewPostService(postRepo, userRepo, uploader, dispatcher)

	h := handler.New(userSvc, emailSvc, postSvc, notificationSvc, provider)
	router := api.NewRouter(h, provider)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	_ = stopDispatcher(shutdownCtx)
	_ = shutdownTracing(shutdownCtx)
	_ = rdb.Close()
}
