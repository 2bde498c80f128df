package repository

import (
	"fmt"
	"log"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// RegisterFileLifecycle makes every save and delete of a models.FileOwner keep
// the media store in step with its rows: deleting a record deletes its files,
// and changing a file column deletes the file it used to point at.
func RegisterFileLifecycle(h *Hooks, store media.Store) {
	h.OnPreDelete(func(tx *gorm.DB, e models.Entity) error {
		owner, ok := e.(models.FileOwner)
		if !ok {
			return nil
		}
		return deleteOwnedFiles(store, owner)
	})

	h.OnPreSave(func(tx *gorm.DB, e models.Entity) error {
		owner, ok := e.(models.FileOwner)
		if !ok || owner.EntityID() == 0 {
			return nil
		}
		return deleteReplacedFiles(tx, store, owner)
	})
}

func deleteOwnedFiles(store media.Store, owner models.FileOwner) error {
	for _, attr := range owner.FileAttributes() {
		if attr.Path == "" {
			continue
		}
		if err := store.Delete(attr.Path); err != nil {
			return fmt.Errorf("failed to delete %s file of %s %d: %w", attr.Column, owner.EntityType(), owner.EntityID(), err)
		}
	}
	return nil
}

func deleteReplacedFiles(tx *gorm.DB, store media.Store, owner models.FileOwner) error {
	for _, attr := range owner.FileAttributes() {
		var previous []string
		err := tx.Session(&gorm.Session{NewDB: true}).
			Model(owner).
			Where("id = ?", owner.EntityID()).
			Pluck(attr.Column, &previous).Error
		if err != nil {
			return fmt.Errorf("failed to read previous %s of %s %d: %w", attr.Column, owner.EntityType(), owner.EntityID(), err)
		}
		// row already gone
		if len(previous) == 0 {
			continue
		}
		old := previous[0]
		if old == "" || old == attr.Path {
			continue
		}
		if err := store.Delete(old); err != nil {
			return fmt.Errorf("failed to delete replaced file %s: %w", old, err)
		}
		log.Printf("repository: Replaced %s of %s %d, removed %s", attr.Column, owner.EntityType(), owner.EntityID(), old)
	}
	return nil
}
