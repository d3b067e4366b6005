package handlers

import (
	"net/http"
	"time"

	"byteandbeyond/internal/middleware"
	"byteandbeyond/internal/services"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// List serves the public feed with category, tag and search filters.
func (h *PostHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	posts, pagination, err := services.ListFeed(services.FeedOptions{
		CategorySlug: c.Query("category"),
		Tag:          c.Query("tag"),
		Search:       c.Query("search"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(posts, pagination))
}

// Get serves a single post by numeric id or slug. Full reads include the
// rendered HTML body; anonymous previews of member-only posts come back
// truncated and flagged.
func (h *PostHandler) Get(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	post, truncated, err := services.GetPost(c.Param("id"), viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := gin.H{"post": post, "is_truncated": truncated}
	if !truncated {
		payload["content_html"] = utils.RenderMarkdown(post.Content)
	}
	c.JSON(http.StatusOK, payload)
}

func (h *PostHandler) Related(c *gin.Context) {
	limit := utils.StringToInt(c.DefaultQuery("limit", "3"))
	related, err := services.GetRelatedPosts(utils.StringToUint(c.Param("id")), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": related})
}

// UserPosts serves a user's library. Owners see everything with status
// filtering; visitors only what is publicly listed.
func (h *PostHandler) UserPosts(c *gin.Context) {
	page, limit := pageParams(c)
	opts := services.UserPostsOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			opts.DateFrom = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			opts.DateTo = &end
		}
	}

	viewer := middleware.ViewerFrom(c)
	posts, pagination, err := services.ListUserPosts(utils.StringToUint(c.Param("userId")), viewer, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(posts, pagination))
}

func (h *PostHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input services.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := services.CreatePost(user, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	var input services.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := services.UpdatePost(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := services.DeletePost(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// ToggleHide flips a post between public and private.
func (h *PostHandler) ToggleHide(c *gin.Context) {
	post, err := services.ToggleVisibility(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Share(c *gin.Context) {
	count, err := services.IncrementShare(utils.StringToUint(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"share_count": count})
}
