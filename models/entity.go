package models

// Entity type tags stored in polymorphic reference columns.
const (
	EntityLocation  = "location"
	EntityPerson    = "person"
	EntityAlbum     = "album"
	EntityPhoto     = "photo"
	EntityThumbnail = "thumbnail"
	EntityUser      = "user"
)

// Entity is any persisted record that can be referenced by type tag and id.
type Entity interface {
	EntityType() string
	EntityID() uint
}

// EntityRef is a polymorphic reference to any Entity. the zero value means
// "no reference".
type EntityRef struct {
	Type string `json:"type,omitempty"`
	ID   uint   `json:"id,omitempty"`
}

// RefOf returns the reference for e, or the zero EntityRef when e is nil.
func RefOf(e Entity) EntityRef {
	if e == nil {
		return EntityRef{}
	}
	return EntityRef{Type: e.EntityType(), ID: e.EntityID()}
}

func (r EntityRef) IsZero() bool {
	return r.Type == "" || r.ID == 0
}

// FileAttribute is one file-valued column of a record and the stored path it
// currently holds.
type FileAttribute struct {
	Column string
	Path   string
}

// FileOwner is implemented by entities whose rows own files in the media store.
type FileOwner interface {
	Entity
	FileAttributes() []FileAttribute
}
