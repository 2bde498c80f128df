package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/database"
	"github.com/camden-git/gallerybackend/handlers"
	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/realtime"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
	"github.com/camden-git/gallerybackend/stream"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	mediaStore, err := media.NewLocalStorage(cfg.MediaRoot)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	processor := media.NewProcessor(mediaStore)

	hooks := repository.NewHooks()
	repository.RegisterFileLifecycle(hooks, mediaStore)
	actionRepo := repository.NewActionRepository(db)
	repository.RegisterActionCascade(hooks, actionRepo)

	userRepo := repository.NewGormUserRepository(db, hooks)
	locationRepo := repository.NewLocationRepository(db, hooks)
	personRepo := repository.NewPersonRepository(db, hooks)
	albumRepo := repository.NewAlbumRepository(db, hooks)
	photoRepo := repository.NewPhotoRepository(db, hooks)
	thumbRepo := repository.NewThumbnailRepository(db, hooks)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	recorder := stream.NewRecorder(db, actionRepo, stream.DefaultRegistry(), hub, cfg.ActionListLimit)
	thumbs := services.NewThumbnailService(thumbRepo, processor, cfg.UploadThumbnailSize, cfg.DisplayThumbnailSize)
	gallery := services.NewGalleryService(locationRepo, personRepo, albumRepo, photoRepo, thumbs, processor, recorder)
	uploads := services.NewUploadService(albumRepo, photoRepo, thumbs, mediaStore, recorder, cfg.AllowedExtensions, cfg.UploadThumbnailSize)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing media in: %s", cfg.MediaRoot)
	log.Printf("Allowed upload extensions: %v", cfg.AllowedExtensions)

	router := handlers.NewRouter(handlers.Deps{
		Cfg:       cfg,
		Store:     mediaStore,
		Users:     userRepo,
		Locations: locationRepo,
		People:    personRepo,
		Albums:    albumRepo,
		Photos:    photoRepo,
		Gallery:   gallery,
		Uploads:   uploads,
		Thumbs:    thumbs,
		Recorder:  recorder,
		Hub:       hub,
	})

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router,
		ReadTimeout: 5 * time.Minute,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
