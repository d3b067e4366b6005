package models

import (
	"time"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex;size:50" json:"name"`
	Slug        string    `gorm:"not null;uniqueIndex;size:60" json:"slug"`
	Description string    `gorm:"size:200" json:"description"`
	Color       string    `gorm:"size:10;default:'#1a8917'" json:"color"`
	Icon        string    `gorm:"size:30;default:'tag'" json:"icon"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
