package model

import "time"

// Pick 用户收藏帖子
// 复合唯一键，避免重复收藏
// idx_pick_pair = (user_id, post_id)
type Pick struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_pick_user;index:idx_pick_pair,unique;not null"`
	PostID    string `gorm:"type:varchar(36);not null;index:idx_pick_pair,unique"`
	CreatedAt time.Time
}

func (Pick) TableName() string { return "picks" }
