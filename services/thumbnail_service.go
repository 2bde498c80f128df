package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/metrics"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
)

// ThumbnailService renders and records photo thumbnails.
type ThumbnailService struct {
	thumbs      repository.ThumbnailRepositoryInterface
	processor   *media.Processor
	smallSize   string
	displaySize string
}

func NewThumbnailService(
	thumbs repository.ThumbnailRepositoryInterface,
	processor *media.Processor,
	smallSize string,
	displaySize string,
) *ThumbnailService {
	return &ThumbnailService{
		thumbs:      thumbs,
		processor:   processor,
		smallSize:   smallSize,
		displaySize: displaySize,
	}
}

// Generate renders the size thumbnail of photo and stores its row. the file
// is rendered again on every call, over the previous one, even when the row
// already exists.
func (s *ThumbnailService) Generate(photo *models.Photo, size string) (*models.Thumbnail, error) {
	if _, err := media.ParseSize(size); err != nil {
		return nil, err
	}

	thumb, err := s.thumbs.FindOrInit(photo.ID, size)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path, err := s.processor.GenerateThumbnail(photo.File, size)
	if err != nil {
		metrics.ThumbnailsGenerated.WithLabelValues(size, "error").Inc()
		return nil, fmt.Errorf("failed to generate %s thumbnail of photo %d: %w", size, photo.ID, err)
	}
	metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())
	metrics.ThumbnailsGenerated.WithLabelValues(size, "ok").Inc()

	thumb.File = path
	err = s.thumbs.Save(thumb)
	if errors.Is(err, repository.ErrThumbnailExists) {
		// someone else created the row meanwhile; the file path is the same
		log.Printf("thumbnails: %s thumbnail of photo %d created concurrently, reusing it", size, photo.ID)
		return s.thumbs.FindOrInit(photo.ID, size)
	}
	if err != nil {
		return nil, err
	}
	return thumb, nil
}

// Thumbnail returns the path of the size thumbnail of photo. the first call
// for a size on a photo value generates it; later calls on the same value
// return the remembered path.
func (s *ThumbnailService) Thumbnail(photo *models.Photo, size string) (string, error) {
	if path, ok := photo.CachedThumbnail(size); ok {
		return path, nil
	}
	thumb, err := s.Generate(photo, size)
	if err != nil {
		return "", err
	}
	photo.CacheThumbnail(size, thumb.File)
	return thumb.File, nil
}

// SmallThumbnail is the square thumbnail used in listings
func (s *ThumbnailService) SmallThumbnail(photo *models.Photo) (string, error) {
	return s.Thumbnail(photo, s.smallSize)
}

// DisplayThumbnail is the bounded thumbnail used on the photo page
func (s *ThumbnailService) DisplayThumbnail(photo *models.Photo) (string, error) {
	return s.Thumbnail(photo, s.displaySize)
}

// Served reports whether size is one of the configured thumbnail sizes,
// the only ones rendered on request.
func (s *ThumbnailService) Served(size string) bool {
	return size == s.smallSize || size == s.displaySize
}

// ForPhoto lists the thumbnails generated so far for a photo
func (s *ThumbnailService) ForPhoto(photoID uint) ([]models.Thumbnail, error) {
	return s.thumbs.ListByPhoto(photoID)
}
