package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB    *gorm.DB
	hooks *Hooks
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB, hooks *Hooks) *AlbumRepository {
	return &AlbumRepository{DB: db, hooks: hooks}
}

// Create creates a new album record in the database
func (r *AlbumRepository) Create(album *models.Album) error {
	if err := r.hooks.saveEntity(r.DB, album); err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Name, err)
	}
	return nil
}

// Update writes every column of album
func (r *AlbumRepository) Update(album *models.Album) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return r.hooks.saveEntity(tx, album)
	})
}

// GetByID retrieves an album by its ID, with its location
func (r *AlbumRepository) GetByID(id uint) (*models.Album, error) {
	var album models.Album
	if err := r.DB.Preload("Location").First(&album, id).Error; err != nil {
		return nil, notFound(err, "album", id)
	}
	return &album, nil
}

// ListQuery returns every album ordered by name
func (r *AlbumRepository) ListQuery() *gorm.DB {
	return r.DB.Model(&models.Album{}).Order("albums.name ASC").Order("albums.id ASC")
}

func (r *AlbumRepository) ListAll() ([]models.Album, error) {
	var albums []models.Album
	if err := r.ListQuery().Preload("Location").Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// ListExcept lists every album other than id, the choices for merging id
func (r *AlbumRepository) ListExcept(id uint) ([]models.Album, error) {
	var albums []models.Album
	if err := r.ListQuery().Preload("Location").Where("albums.id <> ?", id).Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums except %d: %w", id, err)
	}
	return albums, nil
}

// CoverPhoto is the album's first photo by name, or nil
func (r *AlbumRepository) CoverPhoto(albumID uint) (*models.Photo, error) {
	return firstPhoto(r.DB.Where("album_id = ?", albumID))
}

// PhotoCount returns how many photos the album owns
func (r *AlbumRepository) PhotoCount(albumID uint) (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Photo{}).Where("album_id = ?", albumID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count photos of album %d: %w", albumID, err)
	}
	return count, nil
}

// Merge moves every photo of source into destination and deletes source.
func (r *AlbumRepository) Merge(sourceID, destinationID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var source models.Album
		if err := tx.First(&source, sourceID).Error; err != nil {
			return notFound(err, "album", sourceID)
		}
		var destination models.Album
		if err := tx.First(&destination, destinationID).Error; err != nil {
			return notFound(err, "album", destinationID)
		}

		err := tx.Model(&models.Photo{}).Where("album_id = ?", sourceID).Update("album_id", destinationID).Error
		if err != nil {
			return fmt.Errorf("failed to move photos from album %d to %d: %w", sourceID, destinationID, err)
		}
		return r.hooks.deleteEntity(tx, &source)
	})
}

// Delete removes an album together with its photos, their thumbnails and
// every stored file.
func (r *AlbumRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var album models.Album
		if err := tx.First(&album, id).Error; err != nil {
			return notFound(err, "album", id)
		}

		var photos []models.Photo
		if err := tx.Where("album_id = ?", id).Find(&photos).Error; err != nil {
			return fmt.Errorf("failed to load photos of album %d: %w", id, err)
		}
		for i := range photos {
			if err := deletePhoto(tx, r.hooks, &photos[i]); err != nil {
				return err
			}
		}

		return r.hooks.deleteEntity(tx, &album)
	})
}
