package model

import "time"

// Notification 站内通知；订阅时按创建顺序回放
type Notification struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);index:idx_notification_user;not null"`
	Content   string    `gorm:"type:text"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index:idx_notification_created"`
}

func (Notification) TableName() string { return "notifications" }
