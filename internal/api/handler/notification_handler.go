package handler

import (
	"io"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/dodam/internal/middleware"
	"github.com/d60-Lab/dodam/internal/service"
	"github.com/d60-Lab/dodam/pkg/response"
)

// Subscribe 建立 SSE 订阅流：先回放在库通知，之后保持实时推送。
// 空闲 1 小时或客户端断开即结束，登记随之清理。
// @Summary 订阅通知流
// @Tags 通知
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Security BearerAuth
// @Router /api/notifications/subscribe [get]
func (h *Handler) Subscribe(c *gin.Context) {
	userID := middleware.UserID(c)

	stream, err := h.notificationSvc.Subscribe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer h.notificationSvc.Unsubscribe(userID, stream)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	idle := time.NewTimer(service.DefaultStreamTimeout)
	defer idle.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-stream.Events():
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(service.DefaultStreamTimeout)
			c.Render(-1, sse.Event{Id: ev.ID, Event: ev.Name, Data: ev.Data})
			return true
		case <-idle.C:
			return false
		case <-stream.Done():
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ChangeIsRead 翻转通知已读标记
// @Summary 通知标记已读/未读
// @Tags 通知
// @Produce json
// @Param notificationId path string true "通知ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /api/notifications/{notificationId}/read [put]
func (h *Handler) ChangeIsRead(c *gin.Context) {
	isRead, err := h.notificationSvc.ChangeIsRead(c.Request.Context(), c.Param("notificationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"isRead": isRead})
}
