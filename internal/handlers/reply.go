package handlers

import (
	"net/http"

	"byteandbeyond/internal/middleware"
	"byteandbeyond/internal/services"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReplyHandler struct {
	mailService *services.MailService
}

func NewReplyHandler() *ReplyHandler {
	return &ReplyHandler{
		mailService: services.NewMailService(),
	}
}

// ListForComment serves a comment's replies oldest first.
func (h *ReplyHandler) ListForComment(c *gin.Context) {
	page, limit := pageParams(c)
	replies, pagination, err := services.GetRepliesForComment(
		utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(replies, pagination))
}

func (h *ReplyHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := services.CreateReply(utils.StringToUint(c.Param("id")), user, body.Content, h.mailService)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

func (h *ReplyHandler) Update(c *gin.Context) {
	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := services.UpdateReply(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c), body.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ReplyHandler) Delete(c *gin.Context) {
	if err := services.DeleteReply(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reply deleted"})
}
