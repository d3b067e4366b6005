package models

import (
	"time"
)

// Post visibility tiers.
const (
	VisibilityDraft   = "draft"
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorUsername  string     `gorm:"not null" json:"author_username"` // snapshot at creation
	Title           string     `gorm:"size:200;not null" json:"title"`
	Subtitle        string     `gorm:"size:200" json:"subtitle"`
	Slug            string     `gorm:"uniqueIndex;size:110;not null" json:"slug"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Excerpt         string     `gorm:"size:300" json:"excerpt"`
	Image           string     `json:"image"`
	Visibility      string     `gorm:"size:10;default:'draft';not null;index" json:"visibility"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	PublishedAt     *time.Time `gorm:"index" json:"published_at"`
	CategoryID      *uint      `gorm:"index" json:"category_id"`
	Category        *Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Tags            []string   `gorm:"serializer:json" json:"tags"`
	MetaTitle       string     `gorm:"size:200" json:"meta_title"`
	MetaDescription string     `gorm:"size:300" json:"meta_description"`
	ReadTimeMins    int        `gorm:"default:1" json:"read_time_mins"`
	ViewCount       int        `gorm:"default:0" json:"view_count"`
	CommentCount    int        `gorm:"default:0" json:"comment_count"` // includes replies
	ReactionCount   int        `gorm:"default:0" json:"reaction_count"`
	ShareCount      int        `gorm:"default:0" json:"share_count"`
	AllowComments   bool       `gorm:"default:true" json:"allow_comments"`
	IsDeleted       bool       `gorm:"default:false;index" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ValidVisibility(v string) bool {
	return v == VisibilityDraft || v == VisibilityPublic || v == VisibilityPrivate
}
