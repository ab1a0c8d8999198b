package handler

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/dodam/internal/middleware"
	"github.com/d60-Lab/dodam/internal/service"
	"github.com/d60-Lab/dodam/pkg/response"
)

// legacy /posts/posting 表单路径
type legacyCreateRequest struct {
	Title    string `form:"title" binding:"required,max=255"`
	Content  string `form:"content"`
	Category string `form:"category"`
}

// SearchPosts 帖子检索；检索词与分类均可省略
// @Summary 帖子全量/检索分页查询
// @Tags 帖子
// @Produce json
// @Param searchValue query string false "检索词"
// @Param category query string false "分类"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(5)
// @Success 200 {object} response.Response
// @Router /posts [get]
func (h *Handler) SearchPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "5"))
	res, err := h.postSvc.Search(c.Request.Context(), c.Query("searchValue"), c.Query("category"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// CreatePost 发帖；multipart 时取 requestDto JSON 部分 + imageFileList 附图
// @Summary 发帖
// @Tags 帖子
// @Accept mpfd
// @Produce json
// @Param requestDto formData string true "帖子内容 JSON"
// @Param imageFileList formData file false "附图"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.PostCreateRequest

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/") {
		raw := c.PostForm("requestDto")
		if raw == "" {
			response.BadRequest(c, "missing requestDto part")
			return
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if req.Title == "" {
			response.BadRequest(c, "title is required")
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	var images []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		images = form.File["imageFileList"]
	}

	res, err := h.postSvc.Create(c.Request.Context(), middleware.UserID(c), req, images)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// PickPost 收藏开关
// @Summary 收藏/取消收藏帖子
// @Tags 帖子
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /posts/{postId}/pick [post]
func (h *Handler) PickPost(c *gin.Context) {
	res, err := h.postSvc.Pick(c.Request.Context(), middleware.UserID(c), c.Param("postId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// LegacyPosting 旧版表单发帖路径，无附图
// @Summary 发帖（旧表单路径）
// @Tags 帖子
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /posts/posting [post]
func (h *Handler) LegacyPosting(c *gin.Context) {
	var req legacyCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.postSvc.Create(c.Request.Context(), middleware.UserID(c), service.PostCreateRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
