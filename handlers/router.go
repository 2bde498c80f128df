package handlers

import (
	"net/http"
	"time"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/metrics"
	"github.com/camden-git/gallerybackend/permissions"
	"github.com/camden-git/gallerybackend/realtime"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
	"github.com/camden-git/gallerybackend/stream"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Deps is everything the HTTP API is built from
type Deps struct {
	Cfg       config.Config
	Store     media.Store
	Users     repository.UserRepository
	Locations repository.LocationRepositoryInterface
	People    repository.PersonRepositoryInterface
	Albums    repository.AlbumRepositoryInterface
	Photos    repository.PhotoRepositoryInterface
	Gallery   *services.GalleryService
	Uploads   *services.UploadService
	Thumbs    *services.ThumbnailService
	Recorder  *stream.Recorder
	Hub       *realtime.Hub
}

// NewRouter builds the chi router serving the API, stored media and metrics
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)
	r.Use(metrics.Middleware)

	smallSize := d.Cfg.UploadThumbnailSize
	auth := &AuthHandler{UserRepo: d.Users, Cfg: d.Cfg}
	locations := &LocationHandler{Locations: d.Locations, Albums: d.Albums, Gallery: d.Gallery, PerPage: d.Cfg.PhotosPerPage, ThumbSize: smallSize}
	people := &PersonHandler{People: d.People, Photos: d.Photos, Gallery: d.Gallery, PerPage: d.Cfg.PhotosPerPage, ThumbSize: smallSize}
	albums := &AlbumHandler{Albums: d.Albums, Photos: d.Photos, Gallery: d.Gallery, Uploads: d.Uploads, PerPage: d.Cfg.PhotosPerPage, ThumbSize: smallSize}
	photos := &PhotoHandler{Photos: d.Photos, Gallery: d.Gallery, Thumbs: d.Thumbs, Store: d.Store}
	search := &SearchHandler{Photos: d.Photos, Albums: d.Albums, People: d.People, Locations: d.Locations, PerPage: d.Cfg.PhotosPerPage, ThumbSize: smallSize}
	activity := &StreamHandler{Recorder: d.Recorder, Hub: d.Hub}
	perms := &PermissionsHandler{}

	requireAuth := AuthMiddleware(d.Users, d.Cfg.JWTSecret)
	can := RequireGlobalPermission

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Post("/auth/register", auth.Register)
			r.Post("/auth/login", auth.Login)
		})

		// the websocket outlives any request timeout
		r.With(requireAuth).Get("/stream/ws", activity.Live)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.Timeout(5 * time.Minute))

			r.Get("/auth/me", auth.CurrentUser)
			r.Get("/permissions", perms.ListDefinedPermissions)
			r.Get("/permissions/mine", perms.ListGranted)
			r.Get("/stream", activity.ListActions)

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", locations.ListLocations)
				r.With(can(permissions.LocationCreate)).Post("/", locations.CreateLocation)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", locations.GetLocation)
					r.With(can(permissions.LocationEdit)).Put("/", locations.UpdateLocation)
					r.With(can(permissions.LocationDelete)).Delete("/", locations.DeleteLocation)
				})
			})

			r.Route("/people", func(r chi.Router) {
				r.Get("/", people.ListPeople)
				r.With(can(permissions.PersonCreate)).Post("/", people.CreatePerson)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", people.GetPerson)
					r.With(can(permissions.PersonEdit)).Put("/", people.UpdatePerson)
					r.With(can(permissions.PersonDelete)).Delete("/", people.DeletePerson)
				})
			})

			r.Route("/albums", func(r chi.Router) {
				r.Get("/", albums.ListAlbums)
				r.With(can(permissions.AlbumCreate)).Post("/", albums.CreateAlbum)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", albums.GetAlbum)
					r.With(can(permissions.AlbumEdit)).Put("/", albums.UpdateAlbum)
					r.With(can(permissions.AlbumDelete)).Delete("/", albums.DeleteAlbum)
					r.With(can(permissions.AlbumEdit)).Post("/merge", albums.MergeAlbum)
					r.With(can(permissions.AlbumEdit)).Get("/merge-candidates", albums.MergeCandidates)
					r.Get("/download", albums.DownloadAlbum)
					r.With(can(permissions.PhotoAdd)).Post("/photos", albums.UploadPhotos)
				})
			})

			r.Route("/photos/{id}", func(r chi.Router) {
				r.Get("/", photos.GetPhoto)
				r.With(can(permissions.PhotoEdit)).Put("/", photos.RenamePhoto)
				r.With(can(permissions.PhotoDelete)).Delete("/", photos.DeletePhoto)
				r.With(can(permissions.PhotoEdit)).Put("/tags", photos.SetTags)
				r.With(can(permissions.PhotoEdit)).Put("/album", photos.MovePhoto)
				r.With(can(permissions.PhotoEdit)).Post("/rotate", photos.RotatePhoto)
				r.Get("/download", photos.DownloadPhoto)
				r.Get("/thumbnail/{size}", photos.Thumbnail)
			})

			r.Get("/search", search.Options)
			r.Get("/search/results", search.Results)
		})
	})

	r.Get(mediaURLPrefix+"*", MediaServer(d.Store, mediaURLPrefix))
	r.Handle("/metrics", promhttp.Handler())

	return r
}
