package repository

import (
	"errors"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// ErrUsernameTaken is returned when creating a user whose username exists
var ErrUsernameTaken = errors.New("username already taken")

// LocationRepositoryInterface defines the methods for location data operations
type LocationRepositoryInterface interface {
	Create(location *models.Location) error
	Update(location *models.Location) error
	GetByID(id uint) (*models.Location, error)
	ListQuery() *gorm.DB
	ListAll() ([]models.Location, error)
	AlbumsQuery(locationID uint) *gorm.DB
	CoverPhoto(locationID uint) (*models.Photo, error)
	Delete(id uint) error
}

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Create(person *models.Person) error
	Update(person *models.Person) error
	GetByID(id uint) (*models.Person, error)
	GetByIDs(ids []uint) ([]models.Person, error)
	ListQuery() *gorm.DB
	ListAll() ([]models.Person, error)
	CoverPhoto(personID uint) (*models.Photo, error)
	Delete(id uint) error
}

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	Create(album *models.Album) error
	Update(album *models.Album) error
	GetByID(id uint) (*models.Album, error)
	ListQuery() *gorm.DB
	ListAll() ([]models.Album, error)
	ListExcept(id uint) ([]models.Album, error)
	CoverPhoto(albumID uint) (*models.Photo, error)
	PhotoCount(albumID uint) (int64, error)
	Merge(sourceID, destinationID uint) error
	Delete(id uint) error
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	Create(photo *models.Photo) error
	Update(photo *models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	ListByAlbum(albumID uint) ([]models.Photo, error)
	Move(photoID, albumID uint) error
	SetPeople(photo *models.Photo, people []models.Person) ([]models.Person, error)
	Filter(q PhotoQuery) (*gorm.DB, error)
	Query(q PhotoQuery) (*gorm.DB, error)
	Neighbours(q PhotoQuery, photo *models.Photo) (*Neighbours, error)
	Delete(id uint) error
}

// ThumbnailRepositoryInterface defines the methods for thumbnail data operations
type ThumbnailRepositoryInterface interface {
	FindOrInit(photoID uint, size string) (*models.Thumbnail, error)
	Save(thumb *models.Thumbnail) error
	ListByPhoto(photoID uint) ([]models.Thumbnail, error)
	Delete(id uint) error
}

// ActionRepositoryInterface defines the methods for activity log storage
type ActionRepositoryInterface interface {
	Create(action *models.Action) error
	Latest(limit int) ([]models.Action, error)
}

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)
}
