package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityHook runs inside the transaction of a save or delete. e is the
// record being written, already loaded with its current field values.
type EntityHook func(tx *gorm.DB, e models.Entity) error

// Hooks holds the callbacks every repository write path runs, for every
// entity type. repositories never call tx.Save or tx.Delete on an entity
// directly; they go through saveEntity and deleteEntity.
type Hooks struct {
	preSave    []EntityHook
	preDelete  []EntityHook
	postDelete []EntityHook
}

func NewHooks() *Hooks {
	return &Hooks{}
}

// OnPreSave registers fn to run before an entity is inserted or updated.
func (h *Hooks) OnPreSave(fn EntityHook) {
	h.preSave = append(h.preSave, fn)
}

// OnPreDelete registers fn to run before an entity row is deleted.
func (h *Hooks) OnPreDelete(fn EntityHook) {
	h.preDelete = append(h.preDelete, fn)
}

// OnPostDelete registers fn to run after an entity row is deleted.
func (h *Hooks) OnPostDelete(fn EntityHook) {
	h.postDelete = append(h.postDelete, fn)
}

func runHooks(tx *gorm.DB, hooks []EntityHook, e models.Entity) error {
	for _, fn := range hooks {
		if err := fn(tx, e); err != nil {
			return err
		}
	}
	return nil
}

// saveEntity runs pre-save hooks and then inserts or updates e. associations
// are written by their own repository methods, never as a side effect.
func (h *Hooks) saveEntity(tx *gorm.DB, e models.Entity) error {
	if err := runHooks(tx, h.preSave, e); err != nil {
		return fmt.Errorf("pre-save %s %d: %w", e.EntityType(), e.EntityID(), err)
	}
	if err := tx.Omit(clause.Associations).Save(e).Error; err != nil {
		return fmt.Errorf("failed to save %s: %w", e.EntityType(), err)
	}
	return nil
}

// deleteEntity runs pre-delete hooks, deletes the row of e and then runs
// post-delete hooks. dependent rows must already be gone.
func (h *Hooks) deleteEntity(tx *gorm.DB, e models.Entity) error {
	if err := runHooks(tx, h.preDelete, e); err != nil {
		return fmt.Errorf("pre-delete %s %d: %w", e.EntityType(), e.EntityID(), err)
	}
	if err := tx.Delete(e).Error; err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", e.EntityType(), e.EntityID(), err)
	}
	if err := runHooks(tx, h.postDelete, e); err != nil {
		return fmt.Errorf("post-delete %s %d: %w", e.EntityType(), e.EntityID(), err)
	}
	return nil
}
