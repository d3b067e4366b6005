package handlers

import (
	"net/http"

	"byteandbeyond/internal/middleware"
	"byteandbeyond/internal/services"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct{}

func NewReactionHandler() *ReactionHandler {
	return &ReactionHandler{}
}

type toggleRequest struct {
	TargetType   string `json:"target_type"`
	TargetID     uint   `json:"target_id"`
	ReactionType string `json:"reaction_type"`
}

// Toggle adds, switches or removes the caller's reaction on a target.
func (h *ReactionHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := services.ToggleReaction(middleware.ViewerFrom(c), req.TargetType, req.TargetID, req.ReactionType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReactionHandler) Remove(c *gin.Context) {
	if err := services.RemoveReaction(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reaction removed"})
}

// ListForTarget serves everyone's reactions on a target, with per-type counts.
func (h *ReactionHandler) ListForTarget(c *gin.Context) {
	summary, err := services.GetReactions(c.Param("targetType"), utils.StringToUint(c.Param("targetId")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MyInteractions serves the signed-in user's notification stream.
func (h *ReactionHandler) MyInteractions(c *gin.Context) {
	items, err := services.GetMyInteractions(middleware.ViewerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
