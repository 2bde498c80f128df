package stream

import (
	"errors"
	"fmt"
	"sync"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// ErrUnknownEntityType is returned when resolving a reference whose type was
// never registered.
var ErrUnknownEntityType = errors.New("unknown entity type")

// Resolver loads the entity with id. a missing row is (nil, nil).
type Resolver func(db *gorm.DB, id uint) (models.Entity, error)

// Registry maps entity type tags to the resolver that loads them.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// DefaultRegistry knows every gallery entity type
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(models.EntityLocation, Lookup[models.Location]())
	r.Register(models.EntityPerson, Lookup[models.Person]())
	r.Register(models.EntityAlbum, Lookup[models.Album]())
	r.Register(models.EntityPhoto, Lookup[models.Photo]())
	r.Register(models.EntityThumbnail, Lookup[models.Thumbnail]())
	r.Register(models.EntityUser, Lookup[models.User]())
	return r
}

func (r *Registry) Register(entityType string, fn Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[entityType] = fn
}

// Resolve loads the entity ref points at. the zero ref and a ref to a row
// that no longer exists both resolve to nil.
func (r *Registry) Resolve(db *gorm.DB, ref models.EntityRef) (models.Entity, error) {
	if ref.IsZero() {
		return nil, nil
	}
	r.mu.RLock()
	fn, ok := r.resolvers[ref.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, ref.Type)
	}
	return fn(db, ref.ID)
}

// Lookup builds a Resolver for a gorm model type
func Lookup[T any, PT interface {
	*T
	models.Entity
}]() Resolver {
	return func(db *gorm.DB, id uint) (models.Entity, error) {
		var rows []T
		if err := db.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, nil
		}
		return PT(&rows[0]), nil
	}
}
