package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// LocationRepository handles database operations for Location entities
type LocationRepository struct {
	DB    *gorm.DB
	hooks *Hooks
}

// NewLocationRepository creates a new instance of LocationRepository
func NewLocationRepository(db *gorm.DB, hooks *Hooks) *LocationRepository {
	return &LocationRepository{DB: db, hooks: hooks}
}

func (r *LocationRepository) Create(location *models.Location) error {
	if err := r.hooks.saveEntity(r.DB, location); err != nil {
		return fmt.Errorf("failed to create location %s: %w", location.Name, err)
	}
	return nil
}

func (r *LocationRepository) Update(location *models.Location) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return r.hooks.saveEntity(tx, location)
	})
}

func (r *LocationRepository) GetByID(id uint) (*models.Location, error) {
	var location models.Location
	if err := r.DB.First(&location, id).Error; err != nil {
		return nil, notFound(err, "location", id)
	}
	return &location, nil
}

// ListQuery returns every location ordered by name, for pagination
func (r *LocationRepository) ListQuery() *gorm.DB {
	return r.DB.Model(&models.Location{}).Order("name ASC").Order("id ASC")
}

func (r *LocationRepository) ListAll() ([]models.Location, error) {
	var locations []models.Location
	if err := r.ListQuery().Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// AlbumsQuery returns the albums at a location ordered by name
func (r *LocationRepository) AlbumsQuery(locationID uint) *gorm.DB {
	return r.DB.Model(&models.Album{}).Where("location_id = ?", locationID).Order("name ASC").Order("id ASC")
}

// CoverPhoto is the first photo of the location's first album, or nil when
// either doesn't exist.
func (r *LocationRepository) CoverPhoto(locationID uint) (*models.Photo, error) {
	var album models.Album
	err := r.AlbumsQuery(locationID).Limit(1).Find(&album).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find first album of location %d: %w", locationID, err)
	}
	if album.ID == 0 {
		return nil, nil
	}
	return firstPhoto(r.DB.Where("album_id = ?", album.ID))
}

// Delete removes a location. albums at the location are kept and lose
// their location reference.
func (r *LocationRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var location models.Location
		if err := tx.First(&location, id).Error; err != nil {
			return notFound(err, "location", id)
		}
		err := tx.Model(&models.Album{}).Where("location_id = ?", id).Update("location_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach albums from location %d: %w", id, err)
		}
		return r.hooks.deleteEntity(tx, &location)
	})
}

func firstPhoto(scope *gorm.DB) (*models.Photo, error) {
	var photos []models.Photo
	err := scope.Model(&models.Photo{}).Order("photos.name ASC").Order("photos.id ASC").Limit(1).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cover photo: %w", err)
	}
	if len(photos) == 0 {
		return nil, nil
	}
	return &photos[0], nil
}
