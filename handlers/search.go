package handlers

import (
	"net/http"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
)

type SearchHandler struct {
	Photos    repository.PhotoRepositoryInterface
	Albums    repository.AlbumRepositoryInterface
	People    repository.PersonRepositoryInterface
	Locations repository.LocationRepositoryInterface
	PerPage   int
	ThumbSize string
}

// Options lists what a search can be filtered by
func (h *SearchHandler) Options(w http.ResponseWriter, r *http.Request) {
	albums, err := h.Albums.ListAll()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	people, err := h.People.ListAll()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	locations, err := h.Locations.ListAll()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"albums":    albums,
		"people":    people,
		"locations": locations,
	})
}

// Results lists one page of the photos matching ?query=, an encoded set of
// criteria such as q=beach&a=1&p=4.
func (h *SearchHandler) Results(w http.ResponseWriter, r *http.Request) {
	criteria, err := repository.ParseSearchQuery(r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	query, err := h.Photos.Query(repository.PhotoQuery{Criteria: &criteria})
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
		"query":  criteria.Encode(),
		"photos": photoPage(page, h.ThumbSize),
	})
}
