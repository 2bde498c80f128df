package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db    *gorm.DB
	hooks *Hooks
}

func NewGormUserRepository(db *gorm.DB, hooks *Hooks) *GormUserRepository {
	return &GormUserRepository{db: db, hooks: hooks}
}

func (r *GormUserRepository) Create(user *models.User) error {
	if err := r.hooks.saveEntity(r.db, user); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %s: %w", user.Username, ErrUsernameTaken)
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user "+username, 0)
	}
	return &user, nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.hooks.saveEntity(tx, user)
	})
}

// Delete removes a user. their own actions go with them.
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user", id)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Action{}).Error; err != nil {
			return fmt.Errorf("failed to delete actions of user %d: %w", id, err)
		}
		return r.hooks.deleteEntity(tx, &user)
	})
}

func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
