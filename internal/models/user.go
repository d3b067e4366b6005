package models

import (
	"time"
)

// User roles. Every authenticated, active account is a "member" for the
// purposes of private-content access; admins additionally bypass
// ownership checks on posts.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash
	DisplayName string    `gorm:"size:50" json:"display_name"`
	Bio         string    `gorm:"size:500" json:"bio"`
	Avatar      string    `json:"avatar"`
	Role        string    `gorm:"size:20;default:'member';not null" json:"role"`
	IsActive    bool      `gorm:"default:true" json:"is_active"` // deactivation only, never hard-deleted
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicProfile is the shape of a user embedded in post/comment payloads.
type PublicProfile struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) PublicProfile() PublicProfile {
	display := u.DisplayName
	if display == "" {
		display = u.Username
	}
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: display,
		Bio:         u.Bio,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
	}
}
