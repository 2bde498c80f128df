package handlers

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
)

const maxUploadMemory = 32 << 20

type AlbumHandler struct {
	Albums    repository.AlbumRepositoryInterface
	Photos    repository.PhotoRepositoryInterface
	Gallery   *services.GalleryService
	Uploads   *services.UploadService
	PerPage   int
	ThumbSize string
}

func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	page, err := repository.Paginate[models.Album](h.Albums.ListQuery(), h.PerPage, r.URL.Query().Get("p"), "Location")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := withCovers(page, h.ThumbSize, albumID, h.Albums.CoverPhoto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req services.AlbumInput
	if !decodeJSON(w, r, &req) {
		return
	}
	album, err := h.Gallery.CreateAlbum(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

// GetAlbum returns an album with one page of its photos
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	album, err := h.Albums.GetByID(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	query, err := h.Photos.Query(repository.PhotoQuery{AlbumID: &id})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := repository.Paginate[models.Photo](query, h.PerPage, r.URL.Query().Get("p"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"album":        album,
		"date_display": album.DateDisplay(),
		"photos":       photoPage(page, h.ThumbSize),
	})
}

func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req services.AlbumInput
	if !decodeJSON(w, r, &req) {
		return
	}
	album, err := h.Gallery.UpdateAlbum(id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Gallery.DeleteAlbum(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MergeAlbum moves the photos of album {id} into destination_id and deletes it
func (h *AlbumHandler) MergeAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		DestinationID uint `json:"destination_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DestinationID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "ValidationError", "Select the album to merge into.")
		return
	}
	album, err := h.Gallery.MergeAlbums(id, req.DestinationID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *AlbumHandler) MergeCandidates(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	albums, err := h.Gallery.MergeCandidates(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

// DownloadAlbum streams a ZIP of every original in the album
func (h *AlbumHandler) DownloadAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	album, err := h.Albums.GetByID(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": album.Name + ".zip"}))
	n, err := h.Gallery.WriteAlbumArchive(w, id)
	if err != nil {
		// headers are gone by now
		log.Printf("handlers: Album %d download failed after %d files: %v", id, n, err)
	}
}

// UploadPhotos adds the files of a multipart "files" field to the album
func (h *AlbumHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "InvalidBody", "Invalid multipart upload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.UploadFile{
			Filename: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	album, count, err := h.Uploads.Upload(UserFromContext(r.Context()), id, files)
	var uerr *services.UploadError
	if errors.As(err, &uerr) {
		log.Printf("handlers: Upload to album %d stopped: %v", id, err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"album":       album,
			"photo_count": count,
			"errors": []APIErrorDetail{{
				Code:   "UploadFailed",
				Status: "422",
				Detail: "Could not add " + uerr.Filename + ".",
			}},
		})
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"album":       album,
		"photo_count": count,
	})
}
