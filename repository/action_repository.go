package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// ActionRepository stores activity log entries. entries are append-only;
// they are only removed when something they reference is deleted.
type ActionRepository struct {
	DB *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{DB: db}
}

func (r *ActionRepository) Create(action *models.Action) error {
	if err := r.DB.Omit("User").Create(action).Error; err != nil {
		return fmt.Errorf("failed to record action %q: %w", action.Verb, err)
	}
	return nil
}

// Latest returns up to limit actions, newest first, with their users
func (r *ActionRepository) Latest(limit int) ([]models.Action, error) {
	var actions []models.Action
	err := r.DB.Preload("User").
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return actions, nil
}

// DeleteReferencing removes every action whose target or action object is
// ref. it runs on tx so it commits or rolls back with the delete of ref.
func (r *ActionRepository) DeleteReferencing(tx *gorm.DB, ref models.EntityRef) (int64, error) {
	if ref.IsZero() {
		return 0, nil
	}
	res := tx.Where("(target_type = ? AND target_id = ?) OR (action_object_type = ? AND action_object_id = ?)",
		ref.Type, ref.ID, ref.Type, ref.ID).
		Delete(&models.Action{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete actions referencing %s %d: %w", ref.Type, ref.ID, res.Error)
	}
	return res.RowsAffected, nil
}

// RegisterActionCascade deletes the actions referencing any entity, of any
// type, whenever it is deleted through a repository.
func RegisterActionCascade(h *Hooks, actions *ActionRepository) {
	h.OnPostDelete(func(tx *gorm.DB, e models.Entity) error {
		_, err := actions.DeleteReferencing(tx, models.RefOf(e))
		return err
	})
}
