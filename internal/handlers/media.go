package handlers

import (
	"net/http"

	"byteandbeyond/internal/middleware"
	"byteandbeyond/internal/services"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload stores a multipart file for the signed-in user.
func (h *MediaHandler) Upload(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	defer file.Close()

	media, err := services.SaveUpload(user, file, header, c.PostForm("alt_text"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"media": media})
}

func (h *MediaHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	items, pagination, err := services.ListMedia(middleware.ViewerFrom(c), c.Query("type"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(items, pagination))
}

type updateMediaRequest struct {
	AltText string `json:"alt_text"`
}

func (h *MediaHandler) Update(c *gin.Context) {
	var req updateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	media, err := services.UpdateMedia(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c), req.AltText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

func (h *MediaHandler) Delete(c *gin.Context) {
	if err := services.DeleteMedia(utils.StringToUint(c.Param("id")), middleware.ViewerFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "media deleted"})
}
