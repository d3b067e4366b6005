package models

import (
	"time"
)

// Media file kinds, derived from the upload mimetype.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaPDF   = "pdf"
	MediaOther = "other"
)

// Media is an independent entity referenced by URL from post content;
// the row owns the file's lifecycle.
type Media struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UploaderID   uint      `gorm:"not null;index" json:"uploader_id"`
	Uploader     User      `gorm:"foreignKey:UploaderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Filename     string    `gorm:"not null" json:"filename"` // stored name on disk
	OriginalName string    `json:"original_name"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	Size         int64     `json:"size"`
	Type         string    `gorm:"size:10;default:'other';index" json:"type"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Path         string    `json:"-"`
	URL          string    `gorm:"not null" json:"url"`
	AltText      string    `gorm:"size:300" json:"alt_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
