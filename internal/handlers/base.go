package handlers

import (
	"errors"
	"log"
	"net/http"

	"byteandbeyond/internal/services"
	"byteandbeyond/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service sentinel errors onto HTTP status codes.
// Anything unrecognized is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pageParams reads the common ?page=&limit= query pair.
func pageParams(c *gin.Context) (int, int) {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit := utils.StringToInt(c.Query("limit"))
	if limit < 0 {
		limit = 0
	}
	return page, limit
}

func listResponse(items interface{}, pagination services.Pagination) gin.H {
	return gin.H{"items": items, "pagination": pagination}
}
