package repository

import (
	"errors"
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// ErrThumbnailExists is returned by Save when a concurrent writer created the
// (photo, size) row first.
var ErrThumbnailExists = errors.New("thumbnail already exists")

// ThumbnailRepository handles database operations for Thumbnail entities
type ThumbnailRepository struct {
	DB    *gorm.DB
	hooks *Hooks
}

func NewThumbnailRepository(db *gorm.DB, hooks *Hooks) *ThumbnailRepository {
	return &ThumbnailRepository{DB: db, hooks: hooks}
}

// FindOrInit returns the thumbnail row for (photoID, size), or an unsaved
// one when none exists yet.
func (r *ThumbnailRepository) FindOrInit(photoID uint, size string) (*models.Thumbnail, error) {
	var thumbs []models.Thumbnail
	err := r.DB.Where("photo_id = ? AND size = ?", photoID, size).Limit(1).Find(&thumbs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s thumbnail of photo %d: %w", size, photoID, err)
	}
	if len(thumbs) == 1 {
		return &thumbs[0], nil
	}
	return &models.Thumbnail{PhotoID: photoID, Size: size}, nil
}

// Save inserts or updates a thumbnail row.
func (r *ThumbnailRepository) Save(thumb *models.Thumbnail) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		return r.hooks.saveEntity(tx, thumb)
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%s thumbnail of photo %d: %w", thumb.Size, thumb.PhotoID, ErrThumbnailExists)
	}
	return err
}

// ListByPhoto returns every thumbnail of a photo
func (r *ThumbnailRepository) ListByPhoto(photoID uint) ([]models.Thumbnail, error) {
	var thumbs []models.Thumbnail
	if err := r.DB.Where("photo_id = ?", photoID).Order("size ASC").Find(&thumbs).Error; err != nil {
		return nil, fmt.Errorf("failed to list thumbnails of photo %d: %w", photoID, err)
	}
	return thumbs, nil
}

// Delete removes a single thumbnail row and its file. the photo is untouched.
func (r *ThumbnailRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var thumb models.Thumbnail
		if err := tx.First(&thumb, id).Error; err != nil {
			return notFound(err, "thumbnail", id)
		}
		return r.hooks.deleteEntity(tx, &thumb)
	})
}
