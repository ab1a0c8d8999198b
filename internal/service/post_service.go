package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/internal/storage"
	"github.com/d60-Lab/dodam/pkg/response"
)

const defaultPageSize = 5

type PostCreateRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	PickCount int64     `json:"pickCount"`
	ImageURLs []string  `json:"imageUrls"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostPage 游标式分页：只给 hasNext，不做总数统计
type PostPage struct {
	Content []PostResponse `json:"content"`
	Page    int            `json:"page"`
	Size    int            `json:"size"`
	HasNext bool           `json:"hasNext"`
}

type PickResponse struct {
	PostID    string `json:"postId"`
	Picked    bool   `json:"picked"`
	PickCount int64  `json:"pickCount"`
}

// PostService 帖子域：检索 / 发布 / 收藏
type PostService interface {
	Search(ctx context.Context, searchValue, category string, page, size int) (*PostPage, error)
	Create(ctx context.Context, authorID string, req PostCreateRequest, images []*multipart.FileHeader) (*PostResponse, error)
	Pick(ctx context.Context, userID, postID string) (*PickResponse, error)
}

type postService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	uploader   storage.Uploader
	dispatcher *Dispatcher
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	uploader storage.Uploader,
	dispatcher *Dispatcher,
) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo, uploader: uploader, dispatcher: dispatcher}
}

// Search 创建时间倒序；两个过滤条件都为空即全量信息流
func (s *postService) Search(ctx context.Context, searchValue, category string, page, size int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	offset := (page - 1) * size

	// 多取一条以判定 hasNext，避免 count 查询
	posts, err := s.postRepo.Search(ctx, searchValue, category, offset, size+1)
	if err != nil {
		return nil, err
	}

	hasNext := len(posts) > size
	if hasNext {
		posts = posts[:size]
	}

	content := make([]PostResponse, len(posts))
	for i, p := range posts {
		content[i] = toPostResponse(p)
	}
	return &PostPage{Content: content, Page: page, Size: size, HasNext: hasNext}, nil
}

// Create 先上传附图，再单事务落地帖子与图片行；任一上传失败则整体不落库
func (s *postService) Create(ctx context.Context, authorID string, req PostCreateRequest, images []*multipart.FileHeader) (*PostResponse, error) {
	imageRows := make([]model.PostImage, 0, len(images))
	for _, f := range images {
		url, err := s.uploader.Upload(ctx, f, "static/post")
		if err != nil {
			return nil, err
		}
		imageRows = append(imageRows, model.PostImage{ID: uuid.New().String(), URL: url})
	}

	post := &model.Post{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	if err := s.postRepo.CreateWithImages(ctx, post, imageRows); err != nil {
		return nil, err
	}

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	resp := toPostResponse(created)
	return &resp, nil
}

// Pick 幂等开关；收藏成功时向帖子作者投递通知
func (s *postService) Pick(ctx context.Context, userID, postID string) (*PickResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, response.ErrPostNotFound
	}

	picked, count, err := s.postRepo.TogglePick(ctx, userID, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if picked && post.AuthorID != userID && s.dispatcher != nil {
		actor, err := s.userRepo.FindByID(ctx, userID)
		if err == nil && actor != nil {
			s.dispatcher.Enqueue(post.AuthorID, fmt.Sprintf("%s picked your post %q", actor.Nickname, post.Title))
		}
	}

	return &PickResponse{PostID: postID, Picked: picked, PickCount: count}, nil
}

func toPostResponse(p *model.Post) PostResponse {
	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	return PostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		PickCount: p.PickCount,
		ImageURLs: urls,
		CreatedAt: p.CreatedAt,
	}
}
