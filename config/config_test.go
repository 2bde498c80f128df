package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtensions(t *testing.T) {
	assert.Equal(t, []string{"jpg", "png", "tiff"}, ParseExtensions(" .JPG, png  tiff "))
	assert.Empty(t, ParseExtensions("  , "))
}

func TestLoadConfig(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		t.Setenv("MEDIA_ROOT", t.TempDir())
		t.Setenv("PHOTOS_PER_PAGE", "")
		t.Setenv("ALLOWED_EXTENSIONS", "")
		t.Setenv("UPLOAD_THUMBNAIL_SIZE", "")
		t.Setenv("DISPLAY_THUMBNAIL_SIZE", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.PhotosPerPage)
		assert.Equal(t, 50, cfg.ActionListLimit)
		assert.Equal(t, "200x200-fit", cfg.UploadThumbnailSize)
		assert.Equal(t, "800x600-thumb", cfg.DisplayThumbnailSize)
		assert.Contains(t, cfg.AllowedExtensions, "jpeg")
	})

	t.Run("invalid per page falls back to default", func(t *testing.T) {
		t.Setenv("PHOTOS_PER_PAGE", "zero")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.PhotosPerPage)
	})

	t.Run("bad thumbnail size is a configuration error", func(t *testing.T) {
		t.Setenv("UPLOAD_THUMBNAIL_SIZE", "200x200-stretch")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
