package model

import "time"

// User 注册用户；email / nickname 全局唯一
type User struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Nickname   string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Password   string `gorm:"type:varchar(255);not null"` // bcrypt hash
	ProfileURL string `gorm:"type:varchar(512)"`
	Location   string `gorm:"type:varchar(64)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (User) TableName() string { return "users" }
