package handlers

import (
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
	"github.com/go-chi/chi/v5"
)

type PhotoHandler struct {
	Photos  repository.PhotoRepositoryInterface
	Gallery *services.GalleryService
	Thumbs  *services.ThumbnailService
	Store   media.Store
}

// BrowseContext is the listing a photo page was opened from
type BrowseContext struct {
	Type     string `json:"type"` // album, person or search
	AlbumID  *uint  `json:"album_id,omitempty"`
	PersonID *uint  `json:"person_id,omitempty"`
	Query    string `json:"query,omitempty"`
}

type PhotoDetail struct {
	Photo       *models.Photo          `json:"photo"`
	DisplayURL  string                 `json:"display_url"`
	OriginalURL string                 `json:"original_url"`
	Context     BrowseContext          `json:"context"`
	Neighbours  *repository.Neighbours `json:"neighbours"`
}

func parseOptionalID(raw string) (*uint, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// browseContext reads ?album=, ?person= or ?query= in that order of
// precedence. without any the photo's own album is used.
func browseContext(r *http.Request, photo *models.Photo) (repository.PhotoQuery, BrowseContext, bool) {
	values := r.URL.Query()
	albumID, ok := parseOptionalID(values.Get("album"))
	if !ok {
		return repository.PhotoQuery{}, BrowseContext{}, false
	}
	personID, ok := parseOptionalID(values.Get("person"))
	if !ok {
		return repository.PhotoQuery{}, BrowseContext{}, false
	}

	switch {
	case albumID != nil:
		return repository.PhotoQuery{AlbumID: albumID}, BrowseContext{Type: "album", AlbumID: albumID}, true
	case personID != nil:
		return repository.PhotoQuery{PersonID: personID}, BrowseContext{Type: "person", PersonID: personID}, true
	case values.Has("query"):
		raw := values.Get("query")
		criteria, err := repository.ParseSearchQuery(raw)
		if err != nil {
			return repository.PhotoQuery{}, BrowseContext{}, false
		}
		return repository.PhotoQuery{Criteria: &criteria}, BrowseContext{Type: "search", Query: criteria.Encode()}, true
	default:
		own := photo.AlbumID
		return repository.PhotoQuery{AlbumID: &own}, BrowseContext{Type: "album", AlbumID: &own}, true
	}
}

func (h *PhotoHandler) loadPhoto(w http.ResponseWriter, r *http.Request) (*models.Photo, bool) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return nil, false
	}
	photo, err := h.Photos.GetByID(id)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return photo, true
}

// GetPhoto returns a photo with its display thumbnail and its position in
// the listing it was opened from.
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.loadPhoto(w, r)
	if !ok {
		return
	}
	query, bc, ok := browseContext(r, photo)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "InvalidContext", "Invalid album, person or query parameter")
		return
	}
	neighbours, err := h.Photos.Neighbours(query, photo)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	display, err := h.Thumbs.DisplayThumbnail(photo)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PhotoDetail{
		Photo:       photo,
		DisplayURL:  mediaURL(display),
		OriginalURL: mediaURL(photo.File),
		Context:     bc,
		Neighbours:  neighbours,
	})
}

func (h *PhotoHandler) RenamePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	photo, err := h.Gallery.RenamePhoto(id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Gallery.DeletePhoto(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PhotoHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		PersonIDs []uint `json:"person_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	photo, err := h.Gallery.TagPhoto(UserFromContext(r.Context()), id, req.PersonIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) MovePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AlbumID uint `json:"album_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AlbumID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "ValidationError", "Select the album to move the photo to.")
		return
	}
	photo, err := h.Gallery.MovePhoto(id, req.AlbumID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) RotatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	photo, err := h.Gallery.RotatePhoto(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) serveStored(w http.ResponseWriter, r *http.Request, relPath string) {
	fullPath, err := h.Store.GetFullPath(relPath)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.ServeFile(w, r, fullPath)
}

// DownloadPhoto serves the original as an attachment named after the photo
func (h *PhotoHandler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.loadPhoto(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": services.DownloadName(photo)}))
	h.serveStored(w, r, photo.File)
}

// Thumbnail renders the {size} thumbnail of a photo and serves it. Only the
// configured listing and display sizes exist.
func (h *PhotoHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.loadPhoto(w, r)
	if !ok {
		return
	}
	size := chi.URLParam(r, "size")
	if !h.Thumbs.Served(size) {
		WriteAPIError(w, http.StatusNotFound, "NotFound", "No thumbnail of size "+size+" is available.")
		return
	}
	path, err := h.Thumbs.Thumbnail(photo, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	log.Printf("handlers: Serving %s thumbnail of photo %d", size, photo.ID)
	h.serveStored(w, r, path)
}
