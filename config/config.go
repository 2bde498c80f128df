package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/camden-git/gallerybackend/media"
)

const (
	defaultPhotosPerPage      = 50
	defaultActionListLimit    = 50
	defaultJWTExpirationHours = 24
	defaultAllowedExtensions  = "bmp jpg jpeg png gif tif tiff"
	defaultUploadThumbnail    = "200x200-fit"
	defaultDisplayThumbnail   = "800x600-thumb"
)

type Config struct {
	// database path
	DatabasePath string
	DBLogLevel   string

	// root of every stored original and derived file
	MediaRoot string

	PhotosPerPage   int
	ActionListLimit int

	// lowercase extensions without the leading dot
	AllowedExtensions []string

	// size specs generated on upload and used for the photo detail view
	UploadThumbnailSize  string
	DisplayThumbnailSize string

	// shared registration codes; the admin code grants every gallery permission
	AuthCodeUser  string
	AuthCodeAdmin string

	JWTSecret          []byte
	JWTExpirationHours int

	CORSAllowedOrigins []string
	Port               string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// ParseExtensions splits a space or comma separated extension list into
// lowercase entries without leading dots.
func ParseExtensions(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	exts := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f != "" {
			exts = append(exts, f)
		}
	}
	return exts
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "gallery.db")

	mediaRoot := getEnvOrDefault("MEDIA_ROOT", filepath.Join(".", "media"))
	absMediaRoot, err := filepath.Abs(mediaRoot)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media root '%s': %w", mediaRoot, err)
	}

	uploadSize := getEnvOrDefault("UPLOAD_THUMBNAIL_SIZE", defaultUploadThumbnail)
	if _, err := media.ParseSize(uploadSize); err != nil {
		return Config{}, fmt.Errorf("invalid UPLOAD_THUMBNAIL_SIZE: %w", err)
	}
	displaySize := getEnvOrDefault("DISPLAY_THUMBNAIL_SIZE", defaultDisplayThumbnail)
	if _, err := media.ParseSize(displaySize); err != nil {
		return Config{}, fmt.Errorf("invalid DISPLAY_THUMBNAIL_SIZE: %w", err)
	}

	exts := ParseExtensions(getEnvOrDefault("ALLOWED_EXTENSIONS", defaultAllowedExtensions))
	if len(exts) == 0 {
		return Config{}, fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET is not set, using an insecure development secret")
		secret = "gallery-development-secret"
	}

	var origins []string
	for _, o := range strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	cfg := Config{
		DatabasePath:         dbPath,
		DBLogLevel:           getEnvOrDefault("DB_LOG_LEVEL", "warn"),
		MediaRoot:            absMediaRoot,
		PhotosPerPage:        getEnvIntOrDefault("PHOTOS_PER_PAGE", defaultPhotosPerPage),
		ActionListLimit:      getEnvIntOrDefault("ACTION_LIST_LIMIT", defaultActionListLimit),
		AllowedExtensions:    exts,
		UploadThumbnailSize:  uploadSize,
		DisplayThumbnailSize: displaySize,
		AuthCodeUser:         os.Getenv("AUTH_CODE_USER"),
		AuthCodeAdmin:        os.Getenv("AUTH_CODE_ADMIN"),
		JWTSecret:            []byte(secret),
		JWTExpirationHours:   getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		CORSAllowedOrigins:   origins,
		Port:                 getEnvOrDefault("PORT", "8080"),
	}

	if cfg.AuthCodeUser == "" && cfg.AuthCodeAdmin == "" {
		log.Printf("Warning: neither AUTH_CODE_USER nor AUTH_CODE_ADMIN is set, registration is disabled")
	}

	return cfg, nil
}
