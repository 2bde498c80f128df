package handlers

import (
	"net/http"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
)

type LocationHandler struct {
	Locations repository.LocationRepositoryInterface
	Albums    repository.AlbumRepositoryInterface
	Gallery   *services.GalleryService
	PerPage   int
	ThumbSize string
}

type nameRequest struct {
	Name string `json:"name"`
}

func locationID(l *models.Location) uint { return l.ID }
func albumID(a *models.Album) uint       { return a.ID }

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	page, err := repository.Paginate[models.Location](h.Locations.ListQuery(), h.PerPage, r.URL.Query().Get("p"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := withCovers(page, h.ThumbSize, locationID, h.Locations.CoverPhoto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	location, err := h.Gallery.CreateLocation(UserFromContext(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, location)
}

// GetLocation returns a location with one page of its albums
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	location, err := h.Locations.GetByID(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := repository.Paginate[models.Album](h.Locations.AlbumsQuery(id), h.PerPage, r.URL.Query().Get("p"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	albums, err := withCovers(page, h.ThumbSize, albumID, h.Albums.CoverPhoto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	cover, err := h.Locations.CoverPhoto(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"location": location,
		"cover":    summarize(cover, h.ThumbSize),
		"albums":   albums,
	})
}

func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	location, err := h.Gallery.RenameLocation(id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Gallery.DeleteLocation(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
