package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/realtime"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
	"github.com/camden-git/gallerybackend/stream"
	"github.com/camden-git/gallerybackend/testutil"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
	thumbs *services.ThumbnailService
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := testutil.NewDB(t)
	store := testutil.NewStore(t)
	hooks := repository.NewHooks()
	repository.RegisterFileLifecycle(hooks, store)
	actions := repository.NewActionRepository(db)
	repository.RegisterActionCascade(hooks, actions)

	cfg := config.Config{
		MediaRoot:            store.BasePath(),
		PhotosPerPage:        2,
		ActionListLimit:      50,
		AllowedExtensions:    []string{"jpg", "png"},
		UploadThumbnailSize:  "20x20-fit",
		DisplayThumbnailSize: "40x30-thumb",
		AuthCodeUser:         "viewer-code",
		AuthCodeAdmin:        "admin-code",
		JWTSecret:            []byte("test-secret"),
		JWTExpirationHours:   1,
	}

	locations := repository.NewLocationRepository(db, hooks)
	people := repository.NewPersonRepository(db, hooks)
	albums := repository.NewAlbumRepository(db, hooks)
	photos := repository.NewPhotoRepository(db, hooks)
	processor := media.NewProcessor(store)
	thumbs := services.NewThumbnailService(repository.NewThumbnailRepository(db, hooks), processor, cfg.UploadThumbnailSize, cfg.DisplayThumbnailSize)
	hub := realtime.NewHub()
	recorder := stream.NewRecorder(db, actions, stream.DefaultRegistry(), nil, cfg.ActionListLimit)

	router := NewRouter(Deps{
		Cfg:       cfg,
		Store:     store,
		Users:     repository.NewGormUserRepository(db, hooks),
		Locations: locations,
		People:    people,
		Albums:    albums,
		Photos:    photos,
		Gallery:   services.NewGalleryService(locations, people, albums, photos, thumbs, processor, recorder),
		Uploads:   services.NewUploadService(albums, photos, thumbs, store, recorder, cfg.AllowedExtensions, cfg.UploadThumbnailSize),
		Thumbs:    thumbs,
		Recorder:  recorder,
		Hub:       hub,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &apiClient{t: t, server: srv, thumbs: thumbs}
}

func (c *apiClient) do(method, path string, body io.Reader, contentType string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *apiClient) json(method, path string, payload interface{}, out interface{}) int {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(data)
	}
	resp := c.do(method, path, body, "application/json")
	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *apiClient) signUp(username, code string) {
	c.t.Helper()
	status := c.json(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username, "password": "pw", "auth_code": code,
	}, nil)
	require.Equal(c.t, http.StatusCreated, status)

	var login LoginResponse
	status = c.json(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": "pw"}, &login)
	require.Equal(c.t, http.StatusOK, status)
	c.token = login.Token
}

func (c *apiClient) upload(albumID uint, names ...string) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(c.t, err)
		img := imaging.New(60, 40, color.NRGBA{G: 255, A: 255})
		format, err := imaging.FormatFromFilename(name)
		if err != nil {
			format = imaging.PNG
		}
		require.NoError(c.t, imaging.Encode(part, img, format))
	}
	require.NoError(c.t, mw.Close())
	return c.do(http.MethodPost, fmt.Sprintf("/api/albums/%d/photos", albumID), &buf, mw.FormDataContentType())
}

func TestRegistration(t *testing.T) {
	api := newAPI(t)

	status := api.json(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "eve", "password": "pw", "auth_code": "guess",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	assert.Equal(t, http.StatusUnauthorized, api.json(http.MethodGet, "/api/auth/me", nil, nil))

	api.signUp("ada", "admin-code")
	var me struct {
		Username          string   `json:"username"`
		GlobalPermissions []string `json:"global_permissions"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/auth/me", nil, &me))
	assert.Equal(t, "ada", me.Username)
	assert.Len(t, me.GlobalPermissions, 12)

	var granted []struct{ Key string }
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/permissions/mine", nil, &granted))
	assert.Len(t, granted, 12)

	api.token = ""
	status = api.json(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ada", "password": "pw", "auth_code": "viewer-code",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestViewerCannotChangeGallery(t *testing.T) {
	api := newAPI(t)
	api.signUp("bob", "viewer-code")

	status := api.json(http.MethodPost, "/api/locations", map[string]string{"name": "Rome"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/locations", nil, nil))

	var granted []struct{ Key string }
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/permissions/mine", nil, &granted))
	assert.Empty(t, granted)
}

func TestRequireGlobalPermissionRejectsUnknownKey(t *testing.T) {
	assert.Panics(t, func() { RequireGlobalPermission("album.fly") })
}

func TestThumbnailOnlyServesConfiguredSizes(t *testing.T) {
	api := newAPI(t)
	api.signUp("ada", "admin-code")

	var album struct{ ID uint }
	require.Equal(t, http.StatusCreated, api.json(http.MethodPost, "/api/albums", map[string]interface{}{"name": "Sizes"}, &album))
	require.Equal(t, http.StatusCreated, api.upload(album.ID, "one.png").StatusCode)

	var detail struct {
		Photos repository.Page[PhotoSummary] `json:"photos"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, fmt.Sprintf("/api/albums/%d", album.ID), nil, &detail))
	require.Len(t, detail.Photos.Items, 1)
	id := detail.Photos.Items[0].ID

	for _, size := range []string{"300x300-fit", "20x20-stretch", "1x1-thumb"} {
		resp := api.do(http.MethodGet, fmt.Sprintf("/api/photos/%d/thumbnail/%s", id, size), nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, size)
	}
	resp := api.do(http.MethodGet, fmt.Sprintf("/api/photos/%d/thumbnail/40x30-thumb", id), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	thumbs, err := api.thumbs.ForPhoto(id)
	require.NoError(t, err)
	sizes := make([]string, 0, len(thumbs))
	for _, th := range thumbs {
		sizes = append(sizes, th.Size)
	}
	assert.ElementsMatch(t, []string{"20x20-fit", "40x30-thumb"}, sizes)
}

func TestGalleryFlow(t *testing.T) {
	api := newAPI(t)
	api.signUp("ada", "admin-code")

	var location struct{ ID uint }
	require.Equal(t, http.StatusCreated, api.json(http.MethodPost, "/api/locations", map[string]string{"name": "Rome"}, &location))

	var album struct{ ID uint }
	status := api.json(http.MethodPost, "/api/albums", map[string]interface{}{
		"name": "Holiday", "month": 7, "year": 2020, "location_id": location.ID,
	}, &album)
	require.Equal(t, http.StatusCreated, status)

	status = api.json(http.MethodPost, "/api/albums", map[string]interface{}{"name": "Bad", "month": 13}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	resp := api.upload(album.ID, "colosseum.jpg", "forum.png", "trevi.png")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.upload(album.ID, "notes.txt")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var apiErr APIErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Equal(t, "The following files are not allowed: notes.txt", apiErr.Errors[0].Detail)

	var detail struct {
		Photos repository.Page[PhotoSummary] `json:"photos"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, fmt.Sprintf("/api/albums/%d", album.ID), nil, &detail))
	assert.Equal(t, int64(3), detail.Photos.Count)
	assert.Equal(t, 2, detail.Photos.NumPages)
	require.Len(t, detail.Photos.Items, 2)
	first := detail.Photos.Items[0]
	assert.Equal(t, "colosseum", first.Name)

	assert.Equal(t, http.StatusNotFound, api.json(http.MethodGet, fmt.Sprintf("/api/albums/%d?p=3", album.ID), nil, nil))

	var photo PhotoDetail
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, fmt.Sprintf("/api/photos/%d", first.ID), nil, &photo))
	assert.Equal(t, 1, photo.Neighbours.Index)
	assert.Equal(t, int64(3), photo.Neighbours.Count)
	assert.Nil(t, photo.Neighbours.PreviousID)
	assert.NotNil(t, photo.Neighbours.NextID)
	assert.NotEmpty(t, photo.DisplayURL)

	resp = api.do(http.MethodGet, photo.DisplayURL, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodGet, first.ThumbnailURL, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = api.do(http.MethodGet, fmt.Sprintf("/api/photos/%d/thumbnail/20x20-stretch", first.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var results struct {
		Query  string                        `json:"query"`
		Photos repository.Page[PhotoSummary] `json:"photos"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/search/results?query=q%3DTREVI", nil, &results))
	require.Len(t, results.Photos.Items, 1)
	assert.Equal(t, "trevi", results.Photos.Items[0].Name)

	assert.Equal(t, http.StatusBadRequest, api.json(http.MethodGet, "/api/search/results?query=a%3Dx", nil, nil))

	var person struct{ ID uint }
	require.Equal(t, http.StatusCreated, api.json(http.MethodPost, "/api/people", map[string]string{"name": "Anna"}, &person))
	status = api.json(http.MethodPut, fmt.Sprintf("/api/photos/%d/tags", first.ID), map[string][]uint{"person_ids": {person.ID}}, nil)
	require.Equal(t, http.StatusOK, status)

	var feed []stream.Entry
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/stream", nil, &feed))
	require.Len(t, feed, 4)
	assert.Equal(t, "ada tagged Anna in colosseum", feed[0].Description)
	assert.Equal(t, "ada added 3 photos to the album Holiday", feed[2].Description)

	resp = api.do(http.MethodGet, fmt.Sprintf("/api/albums/%d/download", album.ID), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	require.Equal(t, http.StatusNoContent, api.json(http.MethodDelete, fmt.Sprintf("/api/locations/%d", location.ID), nil, nil))
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/stream", nil, &feed))
	assert.Len(t, feed, 3)
}
