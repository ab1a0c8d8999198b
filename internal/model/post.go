package model

import "time"

// Post 内容主体；归属发帖用户
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text"`
	Category  string    `gorm:"type:varchar(32);index:idx_post_category"`
	PickCount int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index:idx_post_created"`
	UpdatedAt time.Time

	Images []PostImage `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string { return "posts" }

// PostImage 帖子附图（对象存储 URL）
type PostImage struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_post_image_post;not null"`
	URL       string `gorm:"type:varchar(512);not null"`
	CreatedAt time.Time
}

func (PostImage) TableName() string { return "post_images" }
