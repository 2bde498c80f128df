package handlers

import (
	"net/http"

	"github.com/camden-git/gallerybackend/realtime"
	"github.com/camden-git/gallerybackend/stream"
)

type StreamHandler struct {
	Recorder *stream.Recorder
	Hub      *realtime.Hub
}

// ListActions returns the latest activity, newest first
func (h *StreamHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Recorder.Feed()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Live upgrades to a websocket that receives every new action
func (h *StreamHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r)
}
