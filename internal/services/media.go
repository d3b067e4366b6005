package services

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"byteandbeyond/internal/db"
	"byteandbeyond/internal/models"
	"byteandbeyond/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadSize = 20 << 20 // 20 MB

func uploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

func mediaTypeFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaVideo
	case mimeType == "application/pdf":
		return models.MediaPDF
	default:
		return models.MediaOther
	}
}

// SaveUpload writes an uploaded file to disk under a uuid name and
// records it. Image dimensions are probed from the stored file.
func SaveUpload(uploader *models.User, file multipart.File, header *multipart.FileHeader, altText string) (*models.Media, error) {
	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, maxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	mediaType := mediaTypeFromMime(mimeType)

	ext := strings.ToLower(filepath.Ext(header.Filename))
	storedName := uuid.NewString() + ext

	dir := uploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	path := filepath.Join(dir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	written, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("store upload: %w", err)
	}

	media := &models.Media{
		UploaderID:   uploader.ID,
		Filename:     storedName,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         written,
		Type:         mediaType,
		Path:         path,
		URL:          "/uploads/" + storedName,
		AltText:      altText,
	}

	if mediaType == models.MediaImage {
		if f, err := os.Open(path); err == nil {
			if cfg, _, err := image.DecodeConfig(f); err == nil {
				media.Width = cfg.Width
				media.Height = cfg.Height
			}
			f.Close()
		}
	}

	if err := db.DB.Create(media).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return media, nil
}

// ListMedia returns the viewer's own uploads, newest first.
func ListMedia(viewer *policy.Viewer, mediaType string, page, limit int) ([]models.Media, Pagination, error) {
	if viewer.Anonymous() {
		return nil, Pagination{}, fmt.Errorf("%w: sign in required", ErrForbidden)
	}
	page, limit, offset := paginate(page, limit, 20, 100)

	query := db.DB.Model(&models.Media{}).Where("uploader_id = ?", viewer.ID)
	if mediaType != "" {
		query = query.Where("type = ?", mediaType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count media: %w", err)
	}

	var items []models.Media
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("list media: %w", err)
	}
	return items, buildPagination(page, limit, total), nil
}

func loadOwnedMedia(id uint, viewer *policy.Viewer) (*models.Media, error) {
	var media models.Media
	if err := db.DB.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: media %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load media: %w", err)
	}
	if viewer.Anonymous() || viewer.ID != media.UploaderID {
		return nil, fmt.Errorf("%w: not your upload", ErrForbidden)
	}
	return &media, nil
}

// UpdateMedia changes the alt text of an owned upload.
func UpdateMedia(id uint, viewer *policy.Viewer, altText string) (*models.Media, error) {
	media, err := loadOwnedMedia(id, viewer)
	if err != nil {
		return nil, err
	}
	media.AltText = altText
	if err := db.DB.Save(media).Error; err != nil {
		return nil, fmt.Errorf("update media: %w", err)
	}
	return media, nil
}

// DeleteMedia removes the row and the file. A missing file is logged,
// not surfaced.
func DeleteMedia(id uint, viewer *policy.Viewer) error {
	media, err := loadOwnedMedia(id, viewer)
	if err != nil {
		return err
	}
	if err := db.DB.Delete(media).Error; err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if media.Path != "" {
		if err := os.Remove(media.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove media file %s: %v", media.Path, err)
		}
	}
	return nil
}
