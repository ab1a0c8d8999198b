package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/internal/model"
)

type RefreshTokenRepository interface {
	// Replace 单事务内替换该用户的刷新令牌，保证不会出现 0 条或 2 条
	Replace(ctx context.Context, userID, value string) error
	FindByValue(ctx context.Context, value string) (*model.RefreshToken, error)
	// DeleteByUserID 返回是否确有记录被删除
	DeleteByUserID(ctx context.Context, userID string) (bool, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Replace(ctx context.Context, userID, value string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.RefreshToken{
			ID:     uuid.New().String(),
			UserID: userID,
			Value:  value,
		}).Error
	})
}

// FindByValue 未命中返回 (nil, nil)
func (r *refreshTokenRepository) FindByValue(ctx context.Context, value string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	err := r.db.WithContext(ctx).Where("value = ?", value).First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
