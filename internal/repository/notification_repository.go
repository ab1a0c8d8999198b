package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListByUser 按存储顺序（创建时间升序）返回
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	// MarkRead 翻转已读标记，返回更新后的值
	MarkRead(ctx context.Context, id string) (bool, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	var res []*model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&res).Error
	return res, err
}

// FindByID 未命中返回 (nil, nil)
func (r *notificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&n).Error; err != nil {
			return err
		}
		n.IsRead = !n.IsRead
		return tx.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", n.IsRead).Error
	})
	if err != nil {
		return false, err
	}
	return n.IsRead, nil
}
