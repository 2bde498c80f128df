package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
	"github.com/go-chi/chi/v5"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrors(w, httpStatus, code, []string{detail})
}

func writeAPIErrors(w http.ResponseWriter, httpStatus int, code string, details []string) {
	resp := APIErrorResponse{Errors: make([]APIErrorDetail, 0, len(details))}
	for _, d := range details {
		resp.Errors = append(resp.Errors, APIErrorDetail{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: d,
		})
	}
	writeJSON(w, httpStatus, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// writeServiceError maps errors from the service and repository layers to
// API errors. anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeAPIErrors(w, http.StatusBadRequest, "ValidationError", verr.Messages)
	case errors.Is(err, media.ErrInvalidSizeSpec):
		WriteAPIError(w, http.StatusBadRequest, "InvalidSize", err.Error())
	case errors.Is(err, repository.ErrInvalidSearch):
		WriteAPIError(w, http.StatusBadRequest, "InvalidSearch", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		WriteAPIError(w, http.StatusNotFound, "NotFound", "The requested resource was not found.")
	default:
		log.Printf("handlers: %s %s failed: %v", r.Method, r.URL.Path, err)
		WriteAPIError(w, http.StatusInternalServerError, "InternalError", "An unexpected error occurred.")
	}
}

// idParam reads a numeric route parameter; writes a 400 and returns false
// when it is not one.
func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		WriteAPIError(w, http.StatusBadRequest, "InvalidID", "Invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "InvalidBody", "Invalid request body: "+err.Error())
		return false
	}
	return true
}
