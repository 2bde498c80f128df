// Package testutil builds throwaway databases, media stores and images for
// package tests.
package testutil

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/gallerybackend/database"
	"github.com/camden-git/gallerybackend/media"
)

// NewDB opens a migrated sqlite database in a temp dir
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "gallery.db"), "silent")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewStore returns a LocalStorage rooted in a temp dir
func NewStore(t *testing.T) *media.LocalStorage {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return store
}

// WriteImage stores a w x h image at relPath, format from its extension
func WriteImage(t *testing.T, store media.Store, relPath string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 30, G: 120, B: 200, A: 255})
	full, err := store.GetFullPath(relPath)
	require.NoError(t, err)
	require.NoError(t, store.EnsureDir(filepath.ToSlash(filepath.Dir(relPath))))
	require.NoError(t, imaging.Save(img, full))
}

// Exists reports whether relPath is present in store
func Exists(t *testing.T, store media.Store, relPath string) bool {
	t.Helper()
	rc, _, err := store.Open(relPath)
	if err != nil {
		return false
	}
	rc.Close()
	return true
}
