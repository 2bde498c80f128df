package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/metrics"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/stream"
)

const maxNameLength = 200

// ActionRecorder appends entries to the activity log
type ActionRecorder interface {
	Record(user *models.User, verb string, opts ...stream.Option) (*models.Action, error)
}

// AlbumInput holds the editable fields of an album
type AlbumInput struct {
	Name       string `json:"name"`
	Month      *int   `json:"month"`
	Year       *int   `json:"year"`
	LocationID *uint  `json:"location_id"`
}

// GalleryService implements the gallery operations on locations, people,
// albums and photos.
type GalleryService struct {
	locations repository.LocationRepositoryInterface
	people    repository.PersonRepositoryInterface
	albums    repository.AlbumRepositoryInterface
	photos    repository.PhotoRepositoryInterface
	thumbs    *ThumbnailService
	processor *media.Processor
	recorder  ActionRecorder
	now       func() time.Time
}

func NewGalleryService(
	locations repository.LocationRepositoryInterface,
	people repository.PersonRepositoryInterface,
	albums repository.AlbumRepositoryInterface,
	photos repository.PhotoRepositoryInterface,
	thumbs *ThumbnailService,
	processor *media.Processor,
	recorder ActionRecorder,
) *GalleryService {
	return &GalleryService{
		locations: locations,
		people:    people,
		albums:    albums,
		photos:    photos,
		thumbs:    thumbs,
		processor: processor,
		recorder:  recorder,
		now:       time.Now,
	}
}

func validateName(what, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid(fmt.Sprintf("The %s name is required.", what))
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", invalid(fmt.Sprintf("The %s name must be at most %d characters.", what, maxNameLength))
	}
	return name, nil
}

func (s *GalleryService) record(user *models.User, verb string, opts ...stream.Option) {
	if _, err := s.recorder.Record(user, verb, opts...); err != nil {
		log.Printf("gallery: Failed to record %q: %v", verb, err)
	}
}

// locations

func (s *GalleryService) CreateLocation(user *models.User, name string) (*models.Location, error) {
	name, err := validateName("location", name)
	if err != nil {
		return nil, err
	}
	location := &models.Location{Name: name}
	if err := s.locations.Create(location); err != nil {
		return nil, err
	}
	s.record(user, "created the location", stream.WithTarget(location))
	return location, nil
}

func (s *GalleryService) RenameLocation(id uint, name string) (*models.Location, error) {
	name, err := validateName("location", name)
	if err != nil {
		return nil, err
	}
	location, err := s.locations.GetByID(id)
	if err != nil {
		return nil, err
	}
	location.Name = name
	if err := s.locations.Update(location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *GalleryService) DeleteLocation(id uint) error {
	return s.locations.Delete(id)
}

// people

func (s *GalleryService) CreatePerson(user *models.User, name string) (*models.Person, error) {
	name, err := validateName("person", name)
	if err != nil {
		return nil, err
	}
	person := &models.Person{Name: name}
	if err := s.people.Create(person); err != nil {
		return nil, err
	}
	s.record(user, "created the person", stream.WithTarget(person))
	return person, nil
}

func (s *GalleryService) RenamePerson(id uint, name string) (*models.Person, error) {
	name, err := validateName("person", name)
	if err != nil {
		return nil, err
	}
	person, err := s.people.GetByID(id)
	if err != nil {
		return nil, err
	}
	person.Name = name
	if err := s.people.Update(person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *GalleryService) DeletePerson(id uint) error {
	return s.people.Delete(id)
}

// albums

func (s *GalleryService) validateAlbum(in AlbumInput) (*models.Album, error) {
	var msgs []string
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		msgs = append(msgs, "The album name is required.")
	case utf8.RuneCountInString(name) > maxNameLength:
		msgs = append(msgs, fmt.Sprintf("The album name must be at most %d characters.", maxNameLength))
	}
	if in.Month != nil && (*in.Month < 1 || *in.Month > 12) {
		msgs = append(msgs, "The month must be between 1 and 12.")
	}
	if in.Year != nil {
		maxYear := models.MaxAlbumYear(s.now())
		if *in.Year < models.MinAlbumYear || *in.Year > maxYear {
			msgs = append(msgs, fmt.Sprintf("The year must be between %d and %d.", models.MinAlbumYear, maxYear))
		}
	}
	if in.LocationID != nil {
		if _, err := s.locations.GetByID(*in.LocationID); err != nil {
			msgs = append(msgs, "The selected location does not exist.")
		}
	}
	if len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}
	return &models.Album{Name: name, Month: in.Month, Year: in.Year, LocationID: in.LocationID}, nil
}

func (s *GalleryService) CreateAlbum(in AlbumInput) (*models.Album, error) {
	album, err := s.validateAlbum(in)
	if err != nil {
		return nil, err
	}
	if err := s.albums.Create(album); err != nil {
		return nil, err
	}
	return s.albums.GetByID(album.ID)
}

func (s *GalleryService) UpdateAlbum(id uint, in AlbumInput) (*models.Album, error) {
	album, err := s.albums.GetByID(id)
	if err != nil {
		return nil, err
	}
	updated, err := s.validateAlbum(in)
	if err != nil {
		return nil, err
	}
	album.Name = updated.Name
	album.Month = updated.Month
	album.Year = updated.Year
	album.LocationID = updated.LocationID
	album.Location = nil
	if err := s.albums.Update(album); err != nil {
		return nil, err
	}
	return s.albums.GetByID(id)
}

// DeleteAlbum deletes an album together with its photos and their files
func (s *GalleryService) DeleteAlbum(id uint) error {
	return s.albums.Delete(id)
}

// MergeAlbums moves every photo of source into destination, deletes source
// and returns destination.
func (s *GalleryService) MergeAlbums(sourceID, destinationID uint) (*models.Album, error) {
	if sourceID == destinationID {
		return nil, invalid("An album cannot be merged into itself.")
	}
	if _, err := s.albums.GetByID(sourceID); err != nil {
		return nil, err
	}
	if _, err := s.albums.GetByID(destinationID); err != nil {
		return nil, err
	}
	if err := s.albums.Merge(sourceID, destinationID); err != nil {
		return nil, err
	}
	log.Printf("gallery: Merged album %d into %d", sourceID, destinationID)
	return s.albums.GetByID(destinationID)
}

// MergeCandidates lists every album source may be merged into
func (s *GalleryService) MergeCandidates(sourceID uint) ([]models.Album, error) {
	if _, err := s.albums.GetByID(sourceID); err != nil {
		return nil, err
	}
	return s.albums.ListExcept(sourceID)
}

// WriteAlbumArchive writes a ZIP of every original of an album to w and
// returns the number of files written.
func (s *GalleryService) WriteAlbumArchive(w io.Writer, albumID uint) (int, error) {
	photos, err := s.photos.ListByAlbum(albumID)
	if err != nil {
		return 0, err
	}
	entries := make([]media.ArchiveEntry, 0, len(photos))
	for _, p := range photos {
		entries = append(entries, media.ArchiveEntry{Name: DownloadName(&p), Path: p.File})
	}
	return media.WriteArchive(w, s.processor.Store(), entries)
}

// DownloadName is the file name a photo is offered under: its name plus the
// extension of the stored original.
func DownloadName(photo *models.Photo) string {
	_, ext := media.SplitExtension(photo.File)
	name := photo.Name
	if name == "" {
		name = fmt.Sprintf("photo-%d", photo.ID)
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// photos

// RenamePhoto sets the name of a photo. Photos may be left unnamed.
func (s *GalleryService) RenamePhoto(id uint, name string) (*models.Photo, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, invalid(fmt.Sprintf("The photo name must be at most %d characters.", maxNameLength))
	}
	photo, err := s.photos.GetByID(id)
	if err != nil {
		return nil, err
	}
	photo.Name = name
	if err := s.photos.Update(photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// MovePhoto reassigns a photo to another album
func (s *GalleryService) MovePhoto(photoID, albumID uint) (*models.Photo, error) {
	if err := s.photos.Move(photoID, albumID); err != nil {
		return nil, err
	}
	return s.photos.GetByID(photoID)
}

// TagPhoto sets the people shown in a photo. every person not tagged before
// gets a "tagged" action.
func (s *GalleryService) TagPhoto(user *models.User, photoID uint, personIDs []uint) (*models.Photo, error) {
	photo, err := s.photos.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	people, err := s.people.GetByIDs(personIDs)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid("One or more of the selected people do not exist.")
	}
	if err != nil {
		return nil, err
	}
	added, err := s.photos.SetPeople(photo, people)
	if err != nil {
		return nil, err
	}
	for i := range added {
		s.record(user, "tagged", stream.WithActionObject(&added[i]), stream.WithJoin("in"), stream.WithTarget(photo))
	}
	return s.photos.GetByID(photoID)
}

// RotatePhoto turns the original and every existing thumbnail a quarter
// turn clockwise, in place.
func (s *GalleryService) RotatePhoto(photoID uint) (*models.Photo, error) {
	photo, err := s.photos.GetByID(photoID)
	if err != nil {
		return nil, err
	}
	if err := s.processor.Rotate(photo.File); err != nil {
		return nil, fmt.Errorf("failed to rotate photo %d: %w", photo.ID, err)
	}
	thumbs, err := s.thumbs.ForPhoto(photo.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range thumbs {
		if err := s.processor.Rotate(t.File); err != nil {
			return nil, fmt.Errorf("failed to rotate %s thumbnail of photo %d: %w", t.Size, photo.ID, err)
		}
	}
	if photo.Width != nil && photo.Height != nil {
		photo.Width, photo.Height = photo.Height, photo.Width
		if err := s.photos.Update(photo); err != nil {
			return nil, err
		}
	}
	metrics.PhotosRotated.Inc()
	return photo, nil
}

func (s *GalleryService) DeletePhoto(id uint) error {
	return s.photos.Delete(id)
}
