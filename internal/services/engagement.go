package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"byteandbeyond/internal/db"
	"byteandbeyond/internal/models"
	"byteandbeyond/internal/policy"
	"byteandbeyond/internal/utils"

	"gorm.io/gorm"
)

const maxCommentLen = 1000

// increment bumps a counter column by one.
func increment(model interface{}, id uint, column string) {
	err := db.DB.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
	if err != nil {
		log.Printf("Failed to increment %s: %v", column, err)
	}
}

// decrement lowers a counter column by one, never below zero. The floor
// lives in the WHERE clause so concurrent decrements stay safe.
func decrement(model interface{}, id uint, column string) {
	err := db.DB.Model(model).Where("id = ? AND "+column+" > 0", id).
		UpdateColumn(column, gorm.Expr(column+" - ?", 1)).Error
	if err != nil {
		log.Printf("Failed to decrement %s: %v", column, err)
	}
}

func loadComment(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := db.DB.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if comment.IsDeleted {
		return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
	}
	return &comment, nil
}

func loadReply(id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := db.DB.First(&reply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reply %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load reply: %w", err)
	}
	if reply.IsDeleted {
		return nil, fmt.Errorf("%w: reply %d", ErrNotFound, id)
	}
	return &reply, nil
}

func validateBody(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if len([]rune(content)) > maxCommentLen {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, maxCommentLen)
	}
	return nil
}

func notifyOwner(mail *MailService, ownerID, actorID uint, actorName, postTitle, content string) {
	if mail == nil || ownerID == actorID {
		return
	}
	var owner models.User
	if err := db.DB.First(&owner, ownerID).Error; err != nil {
		return
	}
	mail.SendEngagementNotification(owner.Email, actorName, postTitle, utils.MakeExcerpt(content, 120))
}

// CreateComment adds a top-level comment to a post and bumps the post's
// combined comment counter. The post owner gets an async notification.
func CreateComment(postID uint, author *models.User, content string, mail *MailService) (*models.Comment, error) {
	if err := validateBody(content); err != nil {
		return nil, err
	}
	post, err := loadPost(postID)
	if err != nil {
		return nil, err
	}
	viewer := &policy.Viewer{ID: author.ID, Role: author.Role}
	if !policy.CanEngage(post, viewer, time.Now()) {
		return nil, fmt.Errorf("%w: commenting not allowed here", ErrForbidden)
	}

	comment := &models.Comment{
		PostID:         post.ID,
		UserID:         author.ID,
		AuthorUsername: author.Username,
		Content:        content,
	}
	if err := db.DB.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	increment(&models.Post{}, post.ID, "comment_count")
	notifyOwner(mail, post.UserID, author.ID, author.Username, post.Title, content)
	return comment, nil
}

// UpdateComment edits a comment's body. Only the author may edit, admins
// included in the refusal.
func UpdateComment(id uint, viewer *policy.Viewer, content string) (*models.Comment, error) {
	if err := validateBody(content); err != nil {
		return nil, err
	}
	comment, err := loadComment(id)
	if err != nil {
		return nil, err
	}
	if viewer.Anonymous() || viewer.ID != comment.UserID {
		return nil, fmt.Errorf("%w: not your comment", ErrForbidden)
	}
	comment.Content = content
	if err := db.DB.Save(comment).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment soft-deletes a comment and lowers the post's comment
// counter by one. Replies stay in place but become unreachable through
// normal traversal.
func DeleteComment(id uint, viewer *policy.Viewer) error {
	comment, err := loadComment(id)
	if err != nil {
		return err
	}
	if viewer.Anonymous() || viewer.ID != comment.UserID {
		return fmt.Errorf("%w: not your comment", ErrForbidden)
	}
	if err := db.DB.Model(comment).UpdateColumn("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	decrement(&models.Post{}, comment.PostID, "comment_count")
	return nil
}

// CreateReply adds a reply under a comment. Both the parent comment's
// reply counter and the post's combined comment counter go up.
func CreateReply(commentID uint, author *models.User, content string, mail *MailService) (*models.Reply, error) {
	if err := validateBody(content); err != nil {
		return nil, err
	}
	comment, err := loadComment(commentID)
	if err != nil {
		return nil, err
	}
	post, err := loadPost(comment.PostID)
	if err != nil {
		return nil, err
	}
	viewer := &policy.Viewer{ID: author.ID, Role: author.Role}
	if !policy.CanEngage(post, viewer, time.Now()) {
		return nil, fmt.Errorf("%w: commenting not allowed here", ErrForbidden)
	}

	reply := &models.Reply{
		CommentID:      comment.ID,
		PostID:         post.ID,
		UserID:         author.ID,
		AuthorUsername: author.Username,
		Content:        content,
	}
	if err := db.DB.Create(reply).Error; err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	increment(&models.Comment{}, comment.ID, "reply_count")
	increment(&models.Post{}, post.ID, "comment_count")
	notifyOwner(mail, comment.UserID, author.ID, author.Username, post.Title, content)
	return reply, nil
}

func UpdateReply(id uint, viewer *policy.Viewer, content string) (*models.Reply, error) {
	if err := validateBody(content); err != nil {
		return nil, err
	}
	reply, err := loadReply(id)
	if err != nil {
		return nil, err
	}
	if viewer.Anonymous() || viewer.ID != reply.UserID {
		return nil, fmt.Errorf("%w: not your reply", ErrForbidden)
	}
	reply.Content = content
	if err := db.DB.Save(reply).Error; err != nil {
		return nil, fmt.Errorf("update reply: %w", err)
	}
	return reply, nil
}

// DeleteReply soft-deletes a reply and lowers both parent counters.
func DeleteReply(id uint, viewer *policy.Viewer) error {
	reply, err := loadReply(id)
	if err != nil {
		return err
	}
	if viewer.Anonymous() || viewer.ID != reply.UserID {
		return fmt.Errorf("%w: not your reply", ErrForbidden)
	}
	if err := db.DB.Model(reply).UpdateColumn("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	decrement(&models.Comment{}, reply.CommentID, "reply_count")
	decrement(&models.Post{}, reply.PostID, "comment_count")
	return nil
}

// reactionTarget resolves a (type, id) pair to its owner and the model
// used for the reaction counter.
func reactionTarget(targetType string, targetID uint) (ownerID uint, counterModel interface{}, err error) {
	switch targetType {
	case models.TargetPost:
		post, err := loadPost(targetID)
		if err != nil {
			return 0, nil, err
		}
		return post.UserID, &models.Post{}, nil
	case models.TargetComment:
		comment, err := loadComment(targetID)
		if err != nil {
			return 0, nil, err
		}
		return comment.UserID, &models.Comment{}, nil
	case models.TargetReply:
		reply, err := loadReply(targetID)
		if err != nil {
			return 0, nil, err
		}
		return reply.UserID, &models.Reply{}, nil
	}
	return 0, nil, fmt.Errorf("%w: invalid target type %q", ErrValidation, targetType)
}

// ToggleResult reports what a toggle did: "added", "updated" or "removed".
type ToggleResult struct {
	Status   string           `json:"status"`
	Reaction *models.Reaction `json:"reaction,omitempty"`
}

// ToggleReaction implements the tri-state toggle. Same type again removes
// the reaction, a different type updates it in place, otherwise one is
// added. The unique index on (user, target type, target id) backstops
// concurrent toggles: a duplicate-key insert is retried as an update.
func ToggleReaction(viewer *policy.Viewer, targetType string, targetID uint, reactionType string) (*ToggleResult, error) {
	if !models.ValidTargetType(targetType) {
		return nil, fmt.Errorf("%w: invalid target type %q", ErrValidation, targetType)
	}
	if reactionType == "" {
		reactionType = models.ReactionLove
	}
	if !models.ValidReactionType(reactionType) {
		return nil, fmt.Errorf("%w: invalid reaction type %q", ErrValidation, reactionType)
	}

	ownerID, counterModel, err := reactionTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReact(targetType, ownerID, viewer) {
		return nil, fmt.Errorf("%w: cannot react to your own post", ErrForbidden)
	}

	var existing models.Reaction
	err = db.DB.Where("user_id = ? AND target_type = ? AND target_id = ?",
		viewer.ID, targetType, targetID).First(&existing).Error
	switch {
	case err == nil:
		if existing.ReactionType == reactionType {
			if err := db.DB.Delete(&existing).Error; err != nil {
				return nil, fmt.Errorf("remove reaction: %w", err)
			}
			decrement(counterModel, targetID, "reaction_count")
			return &ToggleResult{Status: "removed"}, nil
		}
		existing.ReactionType = reactionType
		if err := db.DB.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("update reaction: %w", err)
		}
		return &ToggleResult{Status: "updated", Reaction: &existing}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := &models.Reaction{
			UserID:        viewer.ID,
			TargetType:    targetType,
			TargetID:      targetID,
			TargetOwnerID: ownerID,
			ReactionType:  reactionType,
		}
		if err := db.DB.Create(reaction).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with ourselves; switch the existing row instead.
				updateErr := db.DB.Model(&models.Reaction{}).
					Where("user_id = ? AND target_type = ? AND target_id = ?", viewer.ID, targetType, targetID).
					Update("reaction_type", reactionType).Error
				if updateErr != nil {
					return nil, fmt.Errorf("toggle reaction: %w", updateErr)
				}
				return &ToggleResult{Status: "updated"}, nil
			}
			return nil, fmt.Errorf("add reaction: %w", err)
		}
		increment(counterModel, targetID, "reaction_count")
		return &ToggleResult{Status: "added", Reaction: reaction}, nil
	default:
		return nil, fmt.Errorf("toggle reaction: %w", err)
	}
}

// RemoveReaction deletes a reaction by id. Only its owner may do so.
func RemoveReaction(id uint, viewer *policy.Viewer) error {
	var reaction models.Reaction
	if err := db.DB.First(&reaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reaction %d", ErrNotFound, id)
		}
		return fmt.Errorf("load reaction: %w", err)
	}
	if viewer.Anonymous() || viewer.ID != reaction.UserID {
		return fmt.Errorf("%w: not your reaction", ErrForbidden)
	}
	if err := db.DB.Delete(&reaction).Error; err != nil {
		return fmt.Errorf("remove reaction: %w", err)
	}

	counterModel := map[string]interface{}{
		models.TargetPost:    &models.Post{},
		models.TargetComment: &models.Comment{},
		models.TargetReply:   &models.Reply{},
	}[reaction.TargetType]
	if counterModel != nil {
		decrement(counterModel, reaction.TargetID, "reaction_count")
	}
	return nil
}
