package models

import (
	"time"
)

// Reply belongs to exactly one Comment; PostID is denormalized so the
// post's combined comment counter can be maintained without an extra
// lookup.
type Reply struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CommentID      uint      `gorm:"not null;index:idx_reply_comment" json:"comment_id"`
	Comment        Comment   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID         uint      `gorm:"not null;index" json:"post_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorUsername string    `gorm:"not null" json:"author_username"`
	Content        string    `gorm:"size:1000;not null" json:"content"`
	ReactionCount  int       `gorm:"default:0" json:"reaction_count"`
	IsDeleted      bool      `gorm:"default:false" json:"-"`
	CreatedAt      time.Time `gorm:"index:idx_reply_comment" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
