package repository

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB    *gorm.DB
	hooks *Hooks
}

func NewPersonRepository(db *gorm.DB, hooks *Hooks) *PersonRepository {
	return &PersonRepository{DB: db, hooks: hooks}
}

func (r *PersonRepository) Create(person *models.Person) error {
	if err := r.hooks.saveEntity(r.DB, person); err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.Name, err)
	}
	return nil
}

func (r *PersonRepository) Update(person *models.Person) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return r.hooks.saveEntity(tx, person)
	})
}

func (r *PersonRepository) GetByID(id uint) (*models.Person, error) {
	var person models.Person
	if err := r.DB.First(&person, id).Error; err != nil {
		return nil, notFound(err, "person", id)
	}
	return &person, nil
}

// GetByIDs loads the people with the given ids; unknown ids are an error
func (r *PersonRepository) GetByIDs(ids []uint) ([]models.Person, error) {
	if len(ids) == 0 {
		return []models.Person{}, nil
	}
	var people []models.Person
	if err := r.DB.Where("id IN ?", ids).Order("name ASC").Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(people) != len(unique) {
		return nil, fmt.Errorf("one or more people: %w", ErrNotFound)
	}
	return people, nil
}

func (r *PersonRepository) ListQuery() *gorm.DB {
	return r.DB.Model(&models.Person{}).Order("name ASC").Order("id ASC")
}

func (r *PersonRepository) ListAll() ([]models.Person, error) {
	var people []models.Person
	if err := r.ListQuery().Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// CoverPhoto is the first photo the person is tagged in, or nil
func (r *PersonRepository) CoverPhoto(personID uint) (*models.Photo, error) {
	return firstPhoto(r.DB.Joins("JOIN photo_people ON photo_people.photo_id = photos.id").
		Where("photo_people.person_id = ?", personID))
}

// Delete removes a person and every tag of them. photos are kept.
func (r *PersonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.First(&person, id).Error; err != nil {
			return notFound(err, "person", id)
		}
		if err := tx.Model(&person).Association("Photos").Clear(); err != nil {
			return fmt.Errorf("failed to untag person %d: %w", id, err)
		}
		return r.hooks.deleteEntity(tx, &person)
	})
}
