package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
)

type PostRepository interface {
	// CreateWithImages 帖子与附图同一事务落地
	CreateWithImages(ctx context.Context, post *model.Post, images []model.PostImage) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// Search 按创建时间倒序；searchValue / category 均可为空
	Search(ctx context.Context, searchValue, category string, offset, limit int) ([]*model.Post, error)
	// TogglePick 幂等收藏开关；再次收藏即取消。返回切换后的状态与计数
	TogglePick(ctx context.Context, userID, postID string) (picked bool, pickCount int64, err error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) CreateWithImages(ctx context.Context, post *model.Post, images []model.PostImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].PostID = post.ID
		}
		return tx.Create(&images).Error
	})
}

// FindByID 未命中返回 (nil, nil)
func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Preload("Images").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Search(ctx context.Context, searchValue, category string, offset, limit int) ([]*model.Post, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{}).Preload("Images")
	if searchValue != "" {
		like := "%" + searchValue + "%"
		q = q.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var res []*model.Post
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *postRepository) TogglePick(ctx context.Context, userID, postID string) (bool, int64, error) {
	var picked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Pick{})
		if res.Error != nil {
			return res.Error
		}
		delta := int64(-1)
		if res.RowsAffected == 0 {
			// 尚未收藏，建立收藏
			if err := tx.Create(&model.Pick{ID: uuid.New().String(), UserID: userID, PostID: postID}).Error; err != nil {
				return err
			}
			picked = true
			delta = 1
		}
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).
			Update("pick_count", gorm.Expr("pick_count + ?", delta)).Error; err != nil {
			return err
		}
		// 更新后回读，返回值与在库计数一致
		var updated model.Post
		if err := tx.Select("pick_count").Where("id = ?", postID).Take(&updated).Error; err != nil {
			return err
		}
		count = updated.PickCount
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, gorm.ErrRecordNotFound
	}
	return picked, count, err
}
