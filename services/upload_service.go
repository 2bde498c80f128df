package services

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/metrics"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/stream"
)

// UploadFile is one file of an upload batch. Open is called once.
type UploadFile struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// UploadError reports a batch that stopped part way. the photos created
// before the failing file are kept.
type UploadError struct {
	Created  int
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload stopped at %s after %d photos: %v", e.Filename, e.Created, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// UploadService turns uploaded files into photos of an album.
type UploadService struct {
	albums        repository.AlbumRepositoryInterface
	photos        repository.PhotoRepositoryInterface
	thumbs        *ThumbnailService
	store         media.Store
	recorder      ActionRecorder
	allowed       []string
	thumbnailSize string
}

func NewUploadService(
	albums repository.AlbumRepositoryInterface,
	photos repository.PhotoRepositoryInterface,
	thumbs *ThumbnailService,
	store media.Store,
	recorder ActionRecorder,
	allowed []string,
	thumbnailSize string,
) *UploadService {
	return &UploadService{
		albums:        albums,
		photos:        photos,
		thumbs:        thumbs,
		store:         store,
		recorder:      recorder,
		allowed:       allowed,
		thumbnailSize: thumbnailSize,
	}
}

// Upload adds files to an album and returns the album with the number of
// photos created. every file name is checked before anything is stored.
func (s *UploadService) Upload(user *models.User, albumID uint, files []UploadFile) (*models.Album, int, error) {
	album, err := s.albums.GetByID(albumID)
	if err != nil {
		return nil, 0, err
	}
	if len(files) == 0 {
		return nil, 0, invalid("Select at least one file to upload.")
	}

	var rejected []string
	for _, f := range files {
		if !media.FileAllowed(f.Filename, s.allowed) {
			rejected = append(rejected, f.Filename)
		}
	}
	if len(rejected) > 0 {
		metrics.UploadsRejected.Inc()
		return nil, 0, invalid(fmt.Sprintf("The following files are not allowed: %s", strings.Join(rejected, ", ")))
	}

	count := 0
	for _, f := range files {
		if err := s.addPhoto(album, f); err != nil {
			err = &UploadError{Created: count, Filename: f.Filename, Err: err}
			s.recordUpload(user, album, count)
			return album, count, err
		}
		count++
		metrics.PhotosUploaded.Inc()
	}

	s.recordUpload(user, album, count)
	log.Printf("upload: Added %d photos to album %d", count, album.ID)
	return album, count, nil
}

func (s *UploadService) recordUpload(user *models.User, album *models.Album, count int) {
	if count == 0 {
		return
	}
	verb := fmt.Sprintf("added %d photos to the album", count)
	if _, err := s.recorder.Record(user, verb, stream.WithTarget(album)); err != nil {
		log.Printf("upload: Failed to record upload to album %d: %v", album.ID, err)
	}
}

func (s *UploadService) addPhoto(album *models.Album, f UploadFile) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	path := media.AllocateUploadPath(models.EntityPhoto, f.Filename)
	err = s.store.Save(path, rc)
	rc.Close()
	if err != nil {
		return err
	}

	photo := &models.Photo{
		Name:    media.FriendlyFilename(f.Filename),
		File:    path,
		AlbumID: album.ID,
	}
	if meta, err := media.ReadStoredMetadata(s.store, path); err != nil {
		log.Printf("upload: Could not read metadata of %s: %v", f.Filename, err)
	} else {
		applyMetadata(photo, meta)
	}

	if err := s.photos.Create(photo); err != nil {
		if delErr := s.store.Delete(path); delErr != nil {
			log.Printf("upload: Failed to remove %s: %v", path, delErr)
		}
		return err
	}

	// an original that can't be rendered is not kept
	if _, err := s.thumbs.Thumbnail(photo, s.thumbnailSize); err != nil {
		if delErr := s.photos.Delete(photo.ID); delErr != nil {
			log.Printf("upload: Failed to remove photo %d: %v", photo.ID, delErr)
		}
		return err
	}
	return nil
}

func applyMetadata(photo *models.Photo, meta *media.Metadata) {
	photo.Width = meta.Width
	photo.Height = meta.Height
	photo.CameraMake = meta.CameraMake
	photo.CameraModel = meta.CameraModel
	photo.ISO = meta.ISO
	photo.FocalLength = meta.FocalLength
	photo.Aperture = meta.Aperture
	photo.ShutterSpeed = meta.ShutterSpeed
	photo.TakenAt = meta.TakenAt
}
