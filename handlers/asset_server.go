package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/camden-git/gallerybackend/media"
)

const mediaURLPrefix = "/media/"

// mediaURL is the public URL of a stored file
func mediaURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return mediaURLPrefix + relPath
}

// MediaServer serves stored originals and thumbnails below routePrefix:
//
//	r.Get("/media/*", handlers.MediaServer(store, "/media/"))
func MediaServer(store media.Store, routePrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)
		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid media path", http.StatusBadRequest)
			return
		}

		fullPath, err := store.GetFullPath(relativePath)
		if err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Attempted media access outside the media root: Request='%s': %v", r.URL.Path, err)
			return
		}

		if info, err := os.Stat(fullPath); os.IsNotExist(err) || (err == nil && info.IsDir()) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating media file %s: %v", fullPath, err)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, fullPath)
	}
}
