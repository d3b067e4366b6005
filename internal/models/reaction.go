package models

import (
	"time"
)

// Reaction target kinds.
const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetReply   = "reply"
)

// Reaction kinds. The UI narrows practical use to "love" but the full
// set stays accepted at the API.
const (
	ReactionLike       = "like"
	ReactionLove       = "love"
	ReactionInsightful = "insightful"
	ReactionFunny      = "funny"
)

// Reaction is unique per (user, target type, target id); the database
// constraint is the backstop for concurrent toggles by the same user.
type Reaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TargetType    string    `gorm:"size:10;not null;uniqueIndex:idx_user_target;index:idx_target" json:"target_type"`
	TargetID      uint      `gorm:"not null;uniqueIndex:idx_user_target;index:idx_target" json:"target_id"`
	TargetOwnerID uint      `gorm:"not null;index" json:"target_owner_id"` // denormalized for "my interactions"
	ReactionType  string    `gorm:"size:20;default:'love';not null" json:"reaction_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ValidTargetType(t string) bool {
	return t == TargetPost || t == TargetComment || t == TargetReply
}

func ValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionInsightful, ReactionFunny:
		return true
	}
	return false
}
