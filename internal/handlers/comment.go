package handlers

import (
	"net/http"

	"byteandbeyond/internal/middleware"
	"byteandbeyond/internal/services"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	mailService *services.MailService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		mailService: services.NewMailService(),
	}
}

type commentBody struct {
	Content string `json:"content"`
}

// ListForPost serves a post's comments newest first with the viewer's
// reaction state.
func (h *CommentHandler) ListForPost(c *gin.Context) {
	page, limit := pageParams(c)
	comments, pagination, err := services.GetCommentsForPost(
		utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(comments, pagination))
}

func (h *CommentHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := services.CreateComment(utils.StringToUint(c.Param("id")), user, body.Content, h.mailService)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) Update(c *gin.Context) {
	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := services.UpdateComment(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c), body.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := services.DeleteComment(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *CommentHandler) Commenters(c *gin.Context) {
	commenters, err := services.GetCommenters(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": commenters})
}
