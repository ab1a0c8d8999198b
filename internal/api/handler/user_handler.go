package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/dodam/internal/middleware"
	"github.com/d60-Lab/dodam/internal/service"
	"github.com/d60-Lab/dodam/internal/token"
	"github.com/d60-Lab/dodam/pkg/response"
)

type emailCheckRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type nicknameCheckRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

type mailRequest struct {
	Address string `json:"address" binding:"required,email"`
}

type certificationRequest struct {
	Email            string `json:"email" binding:"required,email"`
	CertificationNum string `json:"certificationNum" binding:"required,len=6"`
}

// Signup 注册
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.SignupRequest true "注册信息"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/user/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.userSvc.Signup(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"msg": "signup success"})
}

// Login 登录；成功时令牌同时写入响应头
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/user/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	tokenToHeaders(c, res.Token)
	response.Success(c, res)
}

// Logout 登出，删除在库刷新令牌
// @Summary 登出
// @Tags 用户
// @Produce json
// @Param Refresh-Token header string true "刷新令牌"
// @Success 200 {object} response.Response
// @Router /api/user/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	err := h.userSvc.Logout(c.Request.Context(), middleware.UserID(c), c.GetHeader("Refresh-Token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"msg": "logout success"})
}

// EmailCheck 邮箱可用性检查
// @Summary 邮箱重复检查
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body emailCheckRequest true "邮箱"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/user/emailcheck [post]
func (h *Handler) EmailCheck(c *gin.Context) {
	var req emailCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.userSvc.EmailCheck(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"msg": "email available"})
}

// NicknameCheck 昵称可用性检查
// @Summary 昵称重复检查
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body nicknameCheckRequest true "昵称"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/user/nicknamecheck [post]
func (h *Handler) NicknameCheck(c *gin.Context) {
	var req nicknameCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.userSvc.NicknameCheck(c.Request.Context(), req.Nickname); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"msg": "nickname available"})
}

// SendCertification 下发邮箱验证码
// @Summary 发送验证码邮件
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body mailRequest true "收件地址"
// @Success 200 {object} response.Response
// @Router /api/user/email [post]
func (h *Handler) SendCertification(c *gin.Context) {
	var req mailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.emailSvc.SendCertification(c.Request.Context(), req.Address); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"msg": "certification mail sent"})
}

// Certify 核对验证码
// @Summary 校验验证码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body certificationRequest true "邮箱与验证码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/user/certification [post]
func (h *Handler) Certify(c *gin.Context) {
	var req certificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.emailSvc.Certify(c.Request.Context(), req.Email, req.CertificationNum); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"msg": "certified"})
}

// EditProfile 修改资料（multipart：可选 imageFile + 可选 nickname）
// @Summary 修改资料
// @Tags 用户
// @Accept mpfd
// @Produce json
// @Param imageFile formData file false "头像"
// @Param nickname formData string false "新昵称"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /api/user/profile [put]
func (h *Handler) EditProfile(c *gin.Context) {
	image, err := c.FormFile("imageFile")
	if err != nil {
		image = nil // 未提供头像，保持原值
	}
	nickname := c.PostForm("nickname")

	res, err := h.userSvc.EditProfile(c.Request.Context(), middleware.UserID(c), image, nickname)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Refresh 刷新令牌（轮换）
// @Summary 刷新令牌
// @Tags 用户
// @Produce json
// @Param Refresh-Token header string true "刷新令牌"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/user/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	dto, err := h.userSvc.Refresh(c.Request.Context(), c.GetHeader("Refresh-Token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	tokenToHeaders(c, dto)
	response.Success(c, dto)
}

func tokenToHeaders(c *gin.Context, dto *token.TokenDto) {
	c.Header("Authorization", "Bearer "+dto.AccessToken)
	c.Header("Refresh-Token", dto.RefreshToken)
	c.Header("Access-Token-Expire-Time", strconv.FormatInt(dto.AccessTokenExpiresIn, 10))
}
