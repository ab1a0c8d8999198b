package handler

import (
	"github.com/d60-Lab/dodam/internal/service"
	"github.com/d60-Lab/dodam/internal/token"
)

// Handler HTTP 入口，聚合各业务服务
type Handler struct {
	userSvc         service.UserService
	emailSvc        service.EmailService
	postSvc         service.PostService
	notificationSvc *service.NotificationService
	provider        *token.Provider
}

func New(
	userSvc service.UserService,
	emailSvc service.EmailService,
	postSvc service.PostService,
	notificationSvc *service.NotificationService,
	provider *token.Provider,
) *Handler {
	return &Handler{
		userSvc:         userSvc,
		emailSvc:        emailSvc,
		postSvc:         postSvc,
		notificationSvc: notificationSvc,
		provider:        provider,
	}
}
