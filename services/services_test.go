package services

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/stream"
	"github.com/camden-git/gallerybackend/testutil"
)

type env struct {
	db      *gorm.DB
	store   *media.LocalStorage
	albums  *repository.AlbumRepository
	photos  *repository.PhotoRepository
	people  *repository.PersonRepository
	actions *repository.ActionRepository
	thumbs  *ThumbnailService
	gallery *GalleryService
	uploads *UploadService
	user    *models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	store := testutil.NewStore(t)
	hooks := repository.NewHooks()
	repository.RegisterFileLifecycle(hooks, store)
	actions := repository.NewActionRepository(db)
	repository.RegisterActionCascade(hooks, actions)

	locations := repository.NewLocationRepository(db, hooks)
	people := repository.NewPersonRepository(db, hooks)
	albums := repository.NewAlbumRepository(db, hooks)
	photos := repository.NewPhotoRepository(db, hooks)
	users := repository.NewGormUserRepository(db, hooks)

	processor := media.NewProcessor(store)
	thumbs := NewThumbnailService(repository.NewThumbnailRepository(db, hooks), processor, "200x200-fit", "800x600-thumb")
	recorder := stream.NewRecorder(db, actions, stream.DefaultRegistry(), nil, 50)

	user := &models.User{Username: "ada", PasswordHash: "x"}
	require.NoError(t, users.Create(user))

	return &env{
		db:      db,
		store:   store,
		albums:  albums,
		photos:  photos,
		people:  people,
		actions: actions,
		thumbs:  thumbs,
		gallery: NewGalleryService(locations, people, albums, photos, thumbs, processor, recorder),
		uploads: NewUploadService(albums, photos, thumbs, store, recorder, []string{"jpg", "jpeg", "png"}, "200x200-fit"),
		user:    user,
	}
}

func (e *env) photo(t *testing.T, name string, albumID uint, w, h int) *models.Photo {
	t.Helper()
	path := media.AllocateUploadPath(models.EntityPhoto, name+".png")
	testutil.WriteImage(t, e.store, path, w, h)
	p := &models.Photo{Name: name, File: path, AlbumID: albumID}
	require.NoError(t, e.photos.Create(p))
	return p
}

func (e *env) verbs(t *testing.T) []string {
	t.Helper()
	actions, err := e.actions.Latest(50)
	require.NoError(t, err)
	verbs := make([]string, 0, len(actions))
	for _, a := range actions {
		verbs = append(verbs, a.Verb)
	}
	return verbs
}

func encoded(t *testing.T, format imaging.Format, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func fileOf(name string, data []byte) UploadFile {
	return UploadFile{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func intPtr(v int) *int { return &v }

func TestThumbnailIsMemoizedPerInstance(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)
	photo := e.photo(t, "sea", album.ID, 40, 20)

	path, err := e.thumbs.Thumbnail(photo, "10x10-fit")
	require.NoError(t, err)
	assert.Equal(t, media.ThumbnailPath(photo.File, "10x10-fit"), path)
	require.True(t, testutil.Exists(t, e.store, path))

	// a removed file is not noticed by the same instance
	require.NoError(t, e.store.Delete(path))
	again, err := e.thumbs.Thumbnail(photo, "10x10-fit")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.False(t, testutil.Exists(t, e.store, path))

	// a fresh instance regenerates it over the existing row
	fresh, err := e.photos.GetByID(photo.ID)
	require.NoError(t, err)
	_, err = e.thumbs.Thumbnail(fresh, "10x10-fit")
	require.NoError(t, err)
	assert.True(t, testutil.Exists(t, e.store, path))

	thumbs, err := e.thumbs.ForPhoto(photo.ID)
	require.NoError(t, err)
	assert.Len(t, thumbs, 1)
}

func TestThumbnailRejectsBadSize(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)
	photo := e.photo(t, "sea", album.ID, 40, 20)

	_, err = e.thumbs.Thumbnail(photo, "10x10")
	assert.ErrorIs(t, err, media.ErrInvalidSizeSpec)
	_, ok := photo.CachedThumbnail("10x10")
	assert.False(t, ok)
}

func TestThumbnailServedSizes(t *testing.T) {
	e := newEnv(t)
	assert.True(t, e.thumbs.Served("200x200-fit"))
	assert.True(t, e.thumbs.Served("800x600-thumb"))
	assert.False(t, e.thumbs.Served("300x300-fit"))
	assert.False(t, e.thumbs.Served(""))
}

func TestRenamePhoto(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)
	photo := e.photo(t, "sea", album.ID, 4, 4)

	renamed, err := e.gallery.RenamePhoto(photo.ID, "  Blue sea ")
	require.NoError(t, err)
	assert.Equal(t, "Blue sea", renamed.Name)

	renamed, err = e.gallery.RenamePhoto(photo.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, "", renamed.Name)
	stored, err := e.photos.GetByID(photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Name)

	_, err = e.gallery.RenamePhoto(photo.ID, strings.Repeat("x", 201))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	_, err = e.gallery.RenamePhoto(photo.ID, strings.Repeat("é", 200))
	assert.NoError(t, err)
}

func TestAlbumValidation(t *testing.T) {
	e := newEnv(t)
	e.gallery.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	missing := uint(99)

	_, err := e.gallery.CreateAlbum(AlbumInput{
		Name:       "  ",
		Month:      intPtr(13),
		Year:       intPtr(2026),
		LocationID: &missing,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Messages, 4)

	album, err := e.gallery.CreateAlbum(AlbumInput{Name: " Summer ", Month: intPtr(7), Year: intPtr(2025)})
	require.NoError(t, err)
	assert.Equal(t, "Summer", album.Name)
	assert.Equal(t, "July 2025", album.DateDisplay())

	_, err = e.gallery.CreateAlbum(AlbumInput{Name: "Old", Year: intPtr(1949)})
	assert.True(t, errors.As(err, &verr))
}

func TestUpdateAlbumSetsLocation(t *testing.T) {
	e := newEnv(t)
	location, err := e.gallery.CreateLocation(e.user, "Lisbon")
	require.NoError(t, err)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)

	updated, err := e.gallery.UpdateAlbum(album.ID, AlbumInput{Name: "Trip", LocationID: &location.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.Location)
	assert.Equal(t, "Lisbon", updated.Location.Name)

	_, err = e.gallery.UpdateAlbum(12345, AlbumInput{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateRecordsActions(t *testing.T) {
	e := newEnv(t)
	_, err := e.gallery.CreateLocation(e.user, "Lisbon")
	require.NoError(t, err)
	_, err = e.gallery.CreatePerson(e.user, "Grace")
	require.NoError(t, err)

	assert.Equal(t, []string{"created the person", "created the location"}, e.verbs(t))

	_, err = e.gallery.CreatePerson(e.user, strings.Repeat("x", 201))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestMergeAlbums(t *testing.T) {
	e := newEnv(t)
	src, err := e.gallery.CreateAlbum(AlbumInput{Name: "A"})
	require.NoError(t, err)
	dst, err := e.gallery.CreateAlbum(AlbumInput{Name: "B"})
	require.NoError(t, err)
	other, err := e.gallery.CreateAlbum(AlbumInput{Name: "C"})
	require.NoError(t, err)
	e.photo(t, "one", src.ID, 4, 4)
	e.photo(t, "two", src.ID, 4, 4)

	_, err = e.gallery.MergeAlbums(src.ID, src.ID)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	candidates, err := e.gallery.MergeCandidates(src.ID)
	require.NoError(t, err)
	var ids []uint
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []uint{dst.ID, other.ID}, ids)

	merged, err := e.gallery.MergeAlbums(src.ID, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, dst.ID, merged.ID)

	photos, err := e.photos.ListByAlbum(dst.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 2)
	_, err = e.albums.GetByID(src.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTagPhotoRecordsNewTagsOnly(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)
	photo := e.photo(t, "sea", album.ID, 4, 4)
	grace := &models.Person{Name: "Grace"}
	alan := &models.Person{Name: "Alan"}
	require.NoError(t, e.people.Create(grace))
	require.NoError(t, e.people.Create(alan))

	tagged, err := e.gallery.TagPhoto(e.user, photo.ID, []uint{grace.ID})
	require.NoError(t, err)
	require.Len(t, tagged.People, 1)

	tagged, err = e.gallery.TagPhoto(e.user, photo.ID, []uint{grace.ID, alan.ID})
	require.NoError(t, err)
	assert.Equal(t, "Alan", tagged.People[0].Name)
	assert.Len(t, tagged.People, 2)
	assert.Equal(t, []string{"tagged", "tagged"}, e.verbs(t))

	_, err = e.gallery.TagPhoto(e.user, photo.ID, []uint{999})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	tagged, err = e.gallery.TagPhoto(e.user, photo.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, tagged.People)
}

func TestRotatePhoto(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)
	photo := e.photo(t, "sea", album.ID, 40, 20)
	thumbPath, err := e.thumbs.Thumbnail(photo, "30x10-thumb")
	require.NoError(t, err)

	_, err = e.gallery.RotatePhoto(photo.ID)
	require.NoError(t, err)

	full, err := e.store.GetFullPath(photo.File)
	require.NoError(t, err)
	img, err := imaging.Open(full)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	full, err = e.store.GetFullPath(thumbPath)
	require.NoError(t, err)
	img, err = imaging.Open(full)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestWriteAlbumArchive(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)
	e.photo(t, "img10", album.ID, 4, 4)
	e.photo(t, "img2", album.ID, 4, 4)

	var buf bytes.Buffer
	n, err := e.gallery.WriteAlbumArchive(&buf, album.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotZero(t, buf.Len())
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "Beach day.jpg", DownloadName(&models.Photo{Name: "Beach day", File: "photo/abc.JPG"}))
	assert.Equal(t, "photo-7", DownloadName(&models.Photo{ID: 7, File: "photo/abc"}))
}

func TestUpload(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)

	got, n, err := e.uploads.Upload(e.user, album.ID, []UploadFile{
		fileOf("holiday_2019.JPG", encoded(t, imaging.JPEG, 30, 20)),
		fileOf("dir/beach[1].png", encoded(t, imaging.PNG, 10, 10)),
	})
	require.NoError(t, err)
	assert.Equal(t, album.ID, got.ID)
	assert.Equal(t, 2, n)

	photos, err := e.photos.ListByAlbum(album.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "beach 1", photos[0].Name)
	assert.Equal(t, "holiday 2019", photos[1].Name)
	assert.True(t, strings.HasPrefix(photos[1].File, "photo/"))
	assert.True(t, strings.HasSuffix(photos[1].File, ".jpg"))
	require.NotNil(t, photos[1].Width)
	assert.Equal(t, 30, *photos[1].Width)

	for _, p := range photos {
		assert.True(t, testutil.Exists(t, e.store, media.ThumbnailPath(p.File, "200x200-fit")))
	}
	assert.Equal(t, []string{"added 2 photos to the album"}, e.verbs(t))
}

func TestUploadRejectsWholeBatch(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)

	_, n, err := e.uploads.Upload(e.user, album.ID, []UploadFile{
		fileOf("ok.jpg", encoded(t, imaging.JPEG, 4, 4)),
		fileOf("a.exe", []byte("x")),
		fileOf("b.zip", []byte("x")),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"The following files are not allowed: a.exe, b.zip"}, verr.Messages)
	assert.Zero(t, n)

	photos, err := e.photos.ListByAlbum(album.ID)
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Empty(t, e.verbs(t))
}

func TestUploadKeepsPhotosBeforeFailure(t *testing.T) {
	e := newEnv(t)
	album, err := e.gallery.CreateAlbum(AlbumInput{Name: "Trip"})
	require.NoError(t, err)

	_, n, err := e.uploads.Upload(e.user, album.ID, []UploadFile{
		fileOf("good.png", encoded(t, imaging.PNG, 4, 4)),
		fileOf("broken.jpg", []byte("not an image")),
		fileOf("never.png", encoded(t, imaging.PNG, 4, 4)),
	})
	var uerr *UploadError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "broken.jpg", uerr.Filename)
	assert.Equal(t, 1, n)

	photos, err := e.photos.ListByAlbum(album.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "good", photos[0].Name)
	assert.Equal(t, []string{"added 1 photos to the album"}, e.verbs(t))
}

func TestUploadUnknownAlbum(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.uploads.Upload(e.user, 42, []UploadFile{fileOf("a.jpg", nil)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
