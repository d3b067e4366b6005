package models

import (
	"time"
)

type Comment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uint      `gorm:"not null;index:idx_comment_post" json:"post_id"`
	Post           Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorUsername string    `gorm:"not null" json:"author_username"` // snapshot at creation
	Content        string    `gorm:"size:1000;not null" json:"content"`
	ReplyCount     int       `gorm:"default:0" json:"reply_count"`
	ReactionCount  int       `gorm:"default:0" json:"reaction_count"`
	IsDeleted      bool      `gorm:"default:false" json:"-"`
	CreatedAt      time.Time `gorm:"index:idx_comment_post" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
