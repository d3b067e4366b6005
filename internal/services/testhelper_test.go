package services

import (
	"fmt"
	"testing"
	"time"

	"byteandbeyond/internal/db"
	"byteandbeyond/internal/models"
	"byteandbeyond/internal/policy"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global connection at a fresh in-memory sqlite
// database for the duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	old := db.DB
	db.DB = conn
	t.Cleanup(func() { db.DB = old })
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.RoleMember,
		IsActive: true,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func viewerFor(user *models.User) *policy.Viewer {
	return &policy.Viewer{ID: user.ID, Role: user.Role}
}

func createTestPost(t *testing.T, author *models.User, title, visibility string) *models.Post {
	t.Helper()
	post, err := CreatePost(author, CreatePostInput{
		Title:      title,
		Content:    "Some body text for " + title,
		Visibility: visibility,
	})
	require.NoError(t, err)
	return post
}

func createTestCategory(t *testing.T, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.DB.Create(category).Error)
	return category
}

func reloadPost(t *testing.T, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.DB.First(&post, id).Error)
	return &post
}

func reloadComment(t *testing.T, id uint) *models.Comment {
	t.Helper()
	var comment models.Comment
	require.NoError(t, db.DB.First(&comment, id).Error)
	return &comment
}

func timePtr(t time.Time) *time.Time { return &t }
