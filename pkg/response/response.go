package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/dodam/pkg/logger"
)

// Response 统一返回包装
type Response struct {
	Success      bool        `json:"success"`
	Data         interface{} `json:"data,omitempty"`
	ErrorCode    Code        `json:"errorCode,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

// Success 业务成功
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Fail 已知业务失败，按错误码映射 HTTP 状态
func Fail(c *gin.Context, ce *CodeError) {
	c.JSON(ce.Status, Response{Success: false, ErrorCode: ce.Code, ErrorMessage: ce.Message})
}

// BadRequest 参数绑定/校验失败
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, ErrorCode: CodeBadRequest, ErrorMessage: msg})
}

// Error 分流：业务错误走 Fail，其余按内部错误兜底（不泄露细节）
func Error(c *gin.Context, err error) {
	var ce *CodeError
	if errors.As(err, &ce) {
		Fail(c, ce)
		return
	}
	InternalError(c, err)
}

// InternalError 不可预期错误
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{
		Success:      false,
		ErrorCode:    CodeInternalError,
		ErrorMessage: "internal server error",
	})
}
