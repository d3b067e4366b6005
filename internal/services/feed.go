package services

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"byteandbeyond/internal/db"
	"byteandbeyond/internal/models"
	"byteandbeyond/internal/policy"
	"byteandbeyond/internal/utils"

	"gorm.io/gorm"
)

const defaultPreviewLimit = 400

// Pagination is the envelope every list endpoint carries.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func paginate(page, limit, defaultLimit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

func buildPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages == 0 {
		pages = 1
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// feedOrder sorts newest published first. Posts that went live through
// a schedule keep published_at NULL, and Postgres would sort those NULLs
// first under a plain DESC, so the schedule time stands in.
const feedOrder = "COALESCE(published_at, scheduled_at) DESC"

// publiclyListed scopes a post query to what anonymous feeds may show:
// public, not deleted, and not scheduled in the future.
func publiclyListed(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_deleted = ?", false).
			Where("visibility = ?", models.VisibilityPublic).
			Where("scheduled_at IS NULL OR scheduled_at <= ?", now)
	}
}

// FeedOptions are the public feed filters.
type FeedOptions struct {
	CategorySlug string
	Tag          string
	Search       string
	Page         int
	Limit        int
}

// ListFeed returns publicly listed posts, newest published first.
func ListFeed(opts FeedOptions) ([]models.Post, Pagination, error) {
	page, limit, offset := paginate(opts.Page, opts.Limit, 10, 50)

	query := db.DB.Model(&models.Post{}).Scopes(publiclyListed(time.Now()))

	if opts.CategorySlug != "" {
		var category models.Category
		if err := db.DB.Where("slug = ?", opts.CategorySlug).First(&category).Error; err != nil {
			// Unknown category filters everything out rather than erroring
			return []models.Post{}, buildPagination(page, limit, 0), nil
		}
		query = query.Where("category_id = ?", category.ID)
	}
	if opts.Tag != "" {
		query = query.Where("tags LIKE ?", `%"`+opts.Tag+`"%`)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(subtitle) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count feed: %w", err)
	}

	var posts []models.Post
	err := query.Preload("Category").
		Order(feedOrder).
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list feed: %w", err)
	}
	return posts, buildPagination(page, limit, total), nil
}

func previewLimit() int {
	if raw := os.Getenv("CONTENT_PREVIEW_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultPreviewLimit
}

// GetPost resolves a post by numeric id or by slug and enforces access.
// Anonymous viewers of private posts get a truncated preview; everyone
// else reads in full or not at all. A successful full read of a listed
// post records a view.
func GetPost(idOrSlug string, viewer *policy.Viewer) (*models.Post, bool, error) {
	var post models.Post
	var err error
	if id, convErr := strconv.ParseUint(idOrSlug, 10, 64); convErr == nil {
		err = db.DB.Preload("Category").First(&post, uint(id)).Error
	} else {
		err = db.DB.Preload("Category").Where("slug = ?", idOrSlug).First(&post).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: post %s", ErrNotFound, idOrSlug)
		}
		return nil, false, fmt.Errorf("load post: %w", err)
	}
	if post.IsDeleted {
		return nil, false, fmt.Errorf("%w: post %s", ErrNotFound, idOrSlug)
	}

	now := time.Now()
	if policy.CanView(&post, viewer, now) {
		RecordView(&post)
		return &post, false, nil
	}
	if policy.PreviewOnly(&post, viewer, now) {
		post.Content = utils.MakeExcerpt(utils.StripMarkup(post.Content), previewLimit())
		return &post, true, nil
	}
	if viewer.Anonymous() {
		return nil, false, fmt.Errorf("%w: post %s", ErrNotFound, idOrSlug)
	}
	return nil, false, fmt.Errorf("%w: no access to this post", ErrForbidden)
}

// UserPostsOptions filter an author's library.
type UserPostsOptions struct {
	Status   string // published | hidden | draft (owner only)
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// statusToVisibility maps the API's status names onto stored visibility.
var statusToVisibility = map[string]string{
	"published": models.VisibilityPublic,
	"hidden":    models.VisibilityPrivate,
	"draft":     models.VisibilityDraft,
}

// ListUserPosts returns a user's posts. The owner (or an admin) sees the
// whole library with status filtering; everyone else sees only what is
// publicly listed.
func ListUserPosts(userID uint, viewer *policy.Viewer, opts UserPostsOptions) ([]models.Post, Pagination, error) {
	page, limit, offset := paginate(opts.Page, opts.Limit, 10, 50)
	isOwner := !viewer.Anonymous() && (viewer.ID == userID || viewer.Admin())

	query := db.DB.Model(&models.Post{}).Where("user_id = ?", userID)
	if isOwner {
		query = query.Where("is_deleted = ?", false)
		if opts.Status != "" {
			visibility, ok := statusToVisibility[opts.Status]
			if !ok {
				return nil, Pagination{}, fmt.Errorf("%w: unknown status %q", ErrValidation, opts.Status)
			}
			query = query.Where("visibility = ?", visibility)
		}
	} else {
		query = query.Scopes(publiclyListed(time.Now()))
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?)", pattern)
	}
	if opts.DateFrom != nil {
		query = query.Where("created_at >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		query = query.Where("created_at <= ?", *opts.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count user posts: %w", err)
	}

	var posts []models.Post
	err := query.Preload("Category").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list user posts: %w", err)
	}
	return posts, buildPagination(page, limit, total), nil
}

// GetRelatedPosts finds recent publicly listed posts sharing the
// category. Posts without a category relate to nothing.
func GetRelatedPosts(postID uint, limit int) ([]models.Post, error) {
	if limit < 1 {
		limit = 3
	}
	post, err := loadPost(postID)
	if err != nil {
		return nil, err
	}
	if post.CategoryID == nil {
		return []models.Post{}, nil
	}

	var related []models.Post
	err = db.DB.Scopes(publiclyListed(time.Now())).
		Where("category_id = ? AND id != ?", *post.CategoryID, post.ID).
		Order(feedOrder).
		Limit(limit).
		Find(&related).Error
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}
	return related, nil
}

// CommentView is a comment plus the viewer's reaction state.
type CommentView struct {
	models.Comment
	IsLiked bool `json:"is_liked"`
}

// ReplyView is a reply plus the viewer's reaction state.
type ReplyView struct {
	models.Reply
	IsLiked bool `json:"is_liked"`
}

// likedSet returns which of the target ids the viewer has reacted to.
func likedSet(viewer *policy.Viewer, targetType string, ids []uint) map[uint]bool {
	liked := make(map[uint]bool)
	if viewer.Anonymous() || len(ids) == 0 {
		return liked
	}
	var reactions []models.Reaction
	db.DB.Where("user_id = ? AND target_type = ? AND target_id IN ?", viewer.ID, targetType, ids).
		Find(&reactions)
	for _, r := range reactions {
		liked[r.TargetID] = true
	}
	return liked
}

// GetCommentsForPost lists a post's live comments newest first, with a
// per-viewer isLiked annotation. Requires view access to the post.
func GetCommentsForPost(postID uint, viewer *policy.Viewer, page, limit int) ([]CommentView, Pagination, error) {
	post, err := loadPost(postID)
	if err != nil {
		return nil, Pagination{}, err
	}
	if !policy.CanView(post, viewer, time.Now()) {
		return nil, Pagination{}, fmt.Errorf("%w: no access to this post", ErrForbidden)
	}

	page, limit, offset := paginate(page, limit, 20, 100)
	query := db.DB.Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count comments: %w", err)
	}

	var comments []models.Comment
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&comments).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	liked := likedSet(viewer, models.TargetComment, ids)

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Comment: c, IsLiked: liked[c.ID]}
	}
	return views, buildPagination(page, limit, total), nil
}

// GetRepliesForComment lists a comment's live replies oldest first.
func GetRepliesForComment(commentID uint, viewer *policy.Viewer, page, limit int) ([]ReplyView, Pagination, error) {
	comment, err := loadComment(commentID)
	if err != nil {
		return nil, Pagination{}, err
	}
	post, err := loadPost(comment.PostID)
	if err != nil {
		return nil, Pagination{}, err
	}
	if !policy.CanView(post, viewer, time.Now()) {
		return nil, Pagination{}, fmt.Errorf("%w: no access to this post", ErrForbidden)
	}

	page, limit, offset := paginate(page, limit, 20, 100)
	query := db.DB.Model(&models.Reply{}).
		Where("comment_id = ? AND is_deleted = ?", commentID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count replies: %w", err)
	}

	var replies []models.Reply
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&replies).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("list replies: %w", err)
	}

	ids := make([]uint, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}
	liked := likedSet(viewer, models.TargetReply, ids)

	views := make([]ReplyView, len(replies))
	for i, r := range replies {
		views[i] = ReplyView{Reply: r, IsLiked: liked[r.ID]}
	}
	return views, buildPagination(page, limit, total), nil
}

// Commenter is a distinct participant in a post's comment section.
type Commenter struct {
	UserID        uint      `json:"user_id"`
	Username      string    `json:"username"`
	LastCommentAt time.Time `json:"last_comment_at"`
}

// GetCommenters lists distinct commenters on a post, most recently
// active first.
func GetCommenters(postID uint, viewer *policy.Viewer) ([]Commenter, error) {
	post, err := loadPost(postID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(post, viewer, time.Now()) {
		return nil, fmt.Errorf("%w: no access to this post", ErrForbidden)
	}

	var commenters []Commenter
	err = db.DB.Model(&models.Comment{}).
		Select("user_id, author_username AS username, MAX(created_at) AS last_comment_at").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Group("user_id, author_username").
		Order("last_comment_at DESC").
		Scan(&commenters).Error
	if err != nil {
		return nil, fmt.Errorf("list commenters: %w", err)
	}
	return commenters, nil
}

// Interaction is one row of the "my interactions" stream.
type Interaction struct {
	Kind      string    `json:"kind"` // reaction | comment | reply
	ActorID   uint      `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	TargetID  uint      `json:"target_id"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const interactionsCap = 20

// GetMyInteractions merges other people's reactions on the viewer's
// content, comments on their posts and replies to their comments, newest
// first, capped at 20.
func GetMyInteractions(viewer *policy.Viewer) ([]Interaction, error) {
	if viewer.Anonymous() {
		return nil, fmt.Errorf("%w: sign in required", ErrForbidden)
	}

	var items []Interaction

	var reactions []models.Reaction
	err := db.DB.Where("target_owner_id = ? AND user_id != ?", viewer.ID, viewer.ID).
		Order("created_at DESC").Limit(interactionsCap).
		Find(&reactions).Error
	if err != nil {
		return nil, fmt.Errorf("my interactions: %w", err)
	}
	for _, r := range reactions {
		var actor models.User
		name := ""
		if db.DB.Select("username").First(&actor, r.UserID).Error == nil {
			name = actor.Username
		}
		items = append(items, Interaction{
			Kind:      "reaction",
			ActorID:   r.UserID,
			ActorName: name,
			TargetID:  r.TargetID,
			Content:   r.ReactionType,
			CreatedAt: r.CreatedAt,
		})
	}

	myPosts := db.DB.Model(&models.Post{}).Select("id").Where("user_id = ?", viewer.ID)
	var comments []models.Comment
	err = db.DB.Where("post_id IN (?) AND user_id != ? AND is_deleted = ?", myPosts, viewer.ID, false).
		Order("created_at DESC").Limit(interactionsCap).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("my interactions: %w", err)
	}
	for _, c := range comments {
		items = append(items, Interaction{
			Kind:      "comment",
			ActorID:   c.UserID,
			ActorName: c.AuthorUsername,
			TargetID:  c.PostID,
			Content:   utils.MakeExcerpt(c.Content, 120),
			CreatedAt: c.CreatedAt,
		})
	}

	myComments := db.DB.Model(&models.Comment{}).Select("id").Where("user_id = ?", viewer.ID)
	var replies []models.Reply
	err = db.DB.Where("comment_id IN (?) AND user_id != ? AND is_deleted = ?", myComments, viewer.ID, false).
		Order("created_at DESC").Limit(interactionsCap).
		Find(&replies).Error
	if err != nil {
		return nil, fmt.Errorf("my interactions: %w", err)
	}
	for _, r := range replies {
		items = append(items, Interaction{
			Kind:      "reply",
			ActorID:   r.UserID,
			ActorName: r.AuthorUsername,
			TargetID:  r.CommentID,
			Content:   utils.MakeExcerpt(r.Content, 120),
			CreatedAt: r.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > interactionsCap {
		items = items[:interactionsCap]
	}
	return items, nil
}

// ReactionSummary carries the reactions on a target plus per-type counts.
type ReactionSummary struct {
	Reactions []models.Reaction `json:"reactions"`
	ByType    map[string]int    `json:"by_type"`
	Total     int               `json:"total"`
}

// GetReactions lists who reacted to a target, grouped by reaction type.
func GetReactions(targetType string, targetID uint) (*ReactionSummary, error) {
	if !models.ValidTargetType(targetType) {
		return nil, fmt.Errorf("%w: invalid target type %q", ErrValidation, targetType)
	}
	if _, _, err := reactionTarget(targetType, targetID); err != nil {
		return nil, err
	}

	var reactions []models.Reaction
	err := db.DB.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&reactions).Error
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}

	byType := make(map[string]int)
	for _, r := range reactions {
		byType[r.ReactionType]++
	}
	return &ReactionSummary{Reactions: reactions, ByType: byType, Total: len(reactions)}, nil
}
