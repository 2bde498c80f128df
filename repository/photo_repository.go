package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB    *gorm.DB
	hooks *Hooks
}

func NewPhotoRepository(db *gorm.DB, hooks *Hooks) *PhotoRepository {
	return &PhotoRepository{DB: db, hooks: hooks}
}

func (r *PhotoRepository) Create(photo *models.Photo) error {
	if err := r.hooks.saveEntity(r.DB, photo); err != nil {
		return fmt.Errorf("failed to create photo %s: %w", photo.Name, err)
	}
	return nil
}

// Update writes every column of photo. a changed File removes the old file.
func (r *PhotoRepository) Update(photo *models.Photo) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return r.hooks.saveEntity(tx, photo)
	})
}

// GetByID retrieves a photo with its album and tagged people
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Preload("Album.Location").
		Preload("People", func(db *gorm.DB) *gorm.DB { return db.Order("people.name ASC") }).
		First(&photo, id).Error
	if err != nil {
		return nil, notFound(err, "photo", id)
	}
	return &photo, nil
}

// ListByAlbum returns every photo of an album in display order
func (r *PhotoRepository) ListByAlbum(albumID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.DB.Where("album_id = ?", albumID).Order("name ASC").Order("id ASC").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos of album %d: %w", albumID, err)
	}
	return photos, nil
}

// Move reassigns a photo to another album. files are untouched.
func (r *PhotoRepository) Move(photoID, albumID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.First(&photo, photoID).Error; err != nil {
			return notFound(err, "photo", photoID)
		}
		var album models.Album
		if err := tx.First(&album, albumID).Error; err != nil {
			return notFound(err, "album", albumID)
		}
		photo.AlbumID = albumID
		return r.hooks.saveEntity(tx, &photo)
	})
}

// SetPeople replaces the people tagged in photo and returns the ones that
// were not tagged before.
func (r *PhotoRepository) SetPeople(photo *models.Photo, people []models.Person) ([]models.Person, error) {
	before := make(map[uint]bool)
	var current []models.Person
	if err := r.DB.Model(photo).Association("People").Find(&current); err != nil {
		return nil, fmt.Errorf("failed to load tags of photo %d: %w", photo.ID, err)
	}
	for _, p := range current {
		before[p.ID] = true
	}

	assoc := r.DB.Model(photo).Association("People")
	var err error
	if len(people) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(people)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to tag photo %d: %w", photo.ID, err)
	}
	photo.People = people

	var added []models.Person
	for _, p := range people {
		if !before[p.ID] {
			added = append(added, p)
		}
	}
	return added, nil
}

// Delete removes a photo, its thumbnails and their files.
func (r *PhotoRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.First(&photo, id).Error; err != nil {
			return notFound(err, "photo", id)
		}
		return deletePhoto(tx, r.hooks, &photo)
	})
}

func deletePhoto(tx *gorm.DB, hooks *Hooks, photo *models.Photo) error {
	var thumbs []models.Thumbnail
	if err := tx.Where("photo_id = ?", photo.ID).Find(&thumbs).Error; err != nil {
		return fmt.Errorf("failed to load thumbnails of photo %d: %w", photo.ID, err)
	}
	for i := range thumbs {
		if err := hooks.deleteEntity(tx, &thumbs[i]); err != nil {
			return err
		}
	}
	if err := tx.Model(photo).Association("People").Clear(); err != nil {
		return fmt.Errorf("failed to untag photo %d: %w", photo.ID, err)
	}
	return hooks.deleteEntity(tx, photo)
}
