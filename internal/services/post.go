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

const excerptLimit = 150

// CreatePostInput carries the writable post fields from the API layer.
type CreatePostInput struct {
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt"`
	Image           string     `json:"image"`
	Visibility      string     `json:"visibility"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	CategoryID      *uint      `json:"category_id"`
	Tags            []string   `json:"tags"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	AllowComments   *bool      `json:"allow_comments"`
}

// UpdatePostInput uses pointers so absent fields stay untouched.
type UpdatePostInput struct {
	Title           *string    `json:"title"`
	Subtitle        *string    `json:"subtitle"`
	Content         *string    `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	Image           *string    `json:"image"`
	Visibility      *string    `json:"visibility"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	ClearSchedule   bool       `json:"clear_schedule"`
	CategoryID      *uint      `json:"category_id"`
	Tags            *[]string  `json:"tags"`
	MetaTitle       *string    `json:"meta_title"`
	MetaDescription *string    `json:"meta_description"`
	AllowComments   *bool      `json:"allow_comments"`
}

// generateUniqueSlug derives a slug from the title and probes -1, -2, ...
// until no post row holds it. Deleted posts keep their slugs, so they
// participate in the probe.
func generateUniqueSlug(title string) string {
	base := utils.Slugify(title)
	slug := base
	for i := 1; ; i++ {
		var count int64
		db.DB.Model(&models.Post{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func applyDerivedFields(post *models.Post, explicitExcerpt string) {
	plain := utils.StripMarkup(post.Content)
	post.ReadTimeMins = utils.ReadTimeMins(utils.CountWords(plain))
	if explicitExcerpt != "" {
		post.Excerpt = explicitExcerpt
	} else {
		post.Excerpt = utils.MakeExcerpt(plain, excerptLimit)
	}
}

func resolveCategory(id *uint) *uint {
	if id == nil {
		return nil
	}
	var category models.Category
	if err := db.DB.First(&category, *id).Error; err != nil {
		log.Printf("Ignoring unknown category id %d", *id)
		return nil
	}
	return id
}

// CreatePost validates, derives slug/excerpt/read time and persists a new
// post for the author. PublishedAt is set only when the post goes public
// immediately, not while scheduled in the future.
func CreatePost(author *models.User, input CreatePostInput) (*models.Post, error) {
	if input.Title == "" || input.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = models.VisibilityDraft
	}
	if !models.ValidVisibility(visibility) {
		return nil, fmt.Errorf("%w: invalid visibility %q", ErrValidation, visibility)
	}

	post := &models.Post{
		UserID:          author.ID,
		AuthorUsername:  author.Username,
		Title:           input.Title,
		Subtitle:        input.Subtitle,
		Slug:            generateUniqueSlug(input.Title),
		Content:         input.Content,
		Image:           input.Image,
		Visibility:      visibility,
		ScheduledAt:     input.ScheduledAt,
		CategoryID:      resolveCategory(input.CategoryID),
		Tags:            input.Tags,
		MetaTitle:       input.MetaTitle,
		MetaDescription: input.MetaDescription,
		AllowComments:   true,
	}
	if input.AllowComments != nil {
		post.AllowComments = *input.AllowComments
	}
	applyDerivedFields(post, input.Excerpt)

	now := time.Now()
	if visibility == models.VisibilityPublic && !policy.ScheduledInFuture(post, now) {
		post.PublishedAt = &now
	}

	if err := db.DB.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func loadPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post.IsDeleted {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
	}
	return &post, nil
}

// UpdatePost applies a partial edit. The slug never changes after
// creation, even when the title does. Visibility transitions manage
// PublishedAt: entering public stamps it, leaving public clears it.
func UpdatePost(id uint, viewer *policy.Viewer, input UpdatePostInput) (*models.Post, error) {
	post, err := loadPost(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(post, viewer) {
		return nil, fmt.Errorf("%w: not your post", ErrForbidden)
	}

	contentChanged := false
	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		post.Title = *input.Title
	}
	if input.Subtitle != nil {
		post.Subtitle = *input.Subtitle
	}
	if input.Content != nil {
		if *input.Content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		post.Content = *input.Content
		contentChanged = true
	}
	if input.Image != nil {
		post.Image = *input.Image
	}
	if input.CategoryID != nil {
		post.CategoryID = resolveCategory(input.CategoryID)
	}
	if input.Tags != nil {
		post.Tags = *input.Tags
	}
	if input.MetaTitle != nil {
		post.MetaTitle = *input.MetaTitle
	}
	if input.MetaDescription != nil {
		post.MetaDescription = *input.MetaDescription
	}
	if input.AllowComments != nil {
		post.AllowComments = *input.AllowComments
	}
	if input.ClearSchedule {
		post.ScheduledAt = nil
	} else if input.ScheduledAt != nil {
		post.ScheduledAt = input.ScheduledAt
	}

	explicitExcerpt := ""
	if input.Excerpt != nil {
		explicitExcerpt = *input.Excerpt
	}
	if contentChanged || explicitExcerpt != "" {
		applyDerivedFields(post, explicitExcerpt)
	}

	if input.Visibility != nil {
		if !models.ValidVisibility(*input.Visibility) {
			return nil, fmt.Errorf("%w: invalid visibility %q", ErrValidation, *input.Visibility)
		}
		post.Visibility = *input.Visibility
	}

	now := time.Now()
	if post.Visibility == models.VisibilityPublic && !policy.ScheduledInFuture(post, now) {
		if post.PublishedAt == nil {
			post.PublishedAt = &now
		}
	} else {
		post.PublishedAt = nil
	}

	if err := db.DB.Save(post).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost marks the post deleted. Comments, replies and reactions are
// left in place; read paths exclude them by following the post flag.
func DeletePost(id uint, viewer *policy.Viewer) error {
	post, err := loadPost(id)
	if err != nil {
		return err
	}
	if !policy.CanModify(post, viewer) {
		return fmt.Errorf("%w: not your post", ErrForbidden)
	}
	if err := db.DB.Model(post).UpdateColumn("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ToggleVisibility is the hide/unhide quick action: public becomes
// private and private becomes public. Drafts are left untouched;
// publishing a draft goes through UpdatePost.
func ToggleVisibility(id uint, viewer *policy.Viewer) (*models.Post, error) {
	post, err := loadPost(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(post, viewer) {
		return nil, fmt.Errorf("%w: not your post", ErrForbidden)
	}
	if post.Visibility == models.VisibilityDraft {
		return post, nil
	}

	now := time.Now()
	if post.Visibility == models.VisibilityPublic {
		post.Visibility = models.VisibilityPrivate
		post.PublishedAt = nil
	} else {
		post.Visibility = models.VisibilityPublic
		if !policy.ScheduledInFuture(post, now) && post.PublishedAt == nil {
			post.PublishedAt = &now
		}
	}
	if err := db.DB.Save(post).Error; err != nil {
		return nil, fmt.Errorf("toggle visibility: %w", err)
	}
	return post, nil
}

// RecordView bumps the view counter for publicly listed posts. No
// dedup by viewer; the counter is approximate.
func RecordView(post *models.Post) {
	if !policy.IsPubliclyListed(post, time.Now()) {
		return
	}
	if err := db.DB.Model(post).UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		log.Printf("Failed to record view for post %d: %v", post.ID, err)
	}
}

// IncrementShare bumps the share counter and returns the new value.
// Only publicly listed posts accrue shares.
func IncrementShare(id uint) (int, error) {
	post, err := loadPost(id)
	if err != nil {
		return 0, err
	}
	if !policy.IsPubliclyListed(post, time.Now()) {
		return 0, fmt.Errorf("%w: post %d", ErrNotFound, id)
	}
	if err := db.DB.Model(post).UpdateColumn("share_count", gorm.Expr("share_count + ?", 1)).Error; err != nil {
		return 0, fmt.Errorf("increment share: %w", err)
	}
	var updated models.Post
	if err := db.DB.Select("share_count").First(&updated, id).Error; err != nil {
		return 0, fmt.Errorf("increment share: %w", err)
	}
	return updated.ShareCount, nil
}
