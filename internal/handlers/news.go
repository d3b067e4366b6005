package handlers

import (
	"net/http"

	"byteandbeyond/internal/services"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct{}

func NewNewsHandler() *NewsHandler {
	return &NewsHandler{}
}

// Headlines proxies cached top headlines for a category.
func (h *NewsHandler) Headlines(c *gin.Context) {
	articles, err := services.GetNewsService().GetHeadlines(c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": articles})
}

// Feeds serves the merged RSS aggregation.
func (h *NewsHandler) Feeds(c *gin.Context) {
	articles, err := services.GetNewsService().GetFeedItems()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": articles})
}

// Read extracts a readable rendition of an external article.
func (h *NewsHandler) Read(c *gin.Context) {
	content, err := services.GetNewsService().ReadArticle(c.Query("url"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}
