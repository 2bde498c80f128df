package handlers

import (
	"net/http"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
)

type PersonHandler struct {
	People    repository.PersonRepositoryInterface
	Photos    repository.PhotoRepositoryInterface
	Gallery   *services.GalleryService
	PerPage   int
	ThumbSize string
}

func personID(p *models.Person) uint { return p.ID }

func (h *PersonHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	page, err := repository.Paginate[models.Person](h.People.ListQuery(), h.PerPage, r.URL.Query().Get("p"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out, err := withCovers(page, h.ThumbSize, personID, h.People.CoverPhoto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	person, err := h.Gallery.CreatePerson(UserFromContext(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

// GetPerson returns a person with one page of the photos they are tagged in
func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	person, err := h.People.GetByID(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	query, err := h.Photos.Query(repository.PhotoQuery{PersonID: &id})
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
		"person": person,
		"photos": photoPage(page, h.ThumbSize),
	})
}

func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	person, err := h.Gallery.RenamePerson(id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Gallery.DeletePerson(id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
