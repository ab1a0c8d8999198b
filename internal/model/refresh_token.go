package model

import "time"

// RefreshToken 每个用户至多一条；登录/刷新时整条替换
type RefreshToken struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Value     string `gorm:"type:varchar(512);index:idx_refresh_value;not null"`
	CreatedAt time.Time
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
