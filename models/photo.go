package models

import "time"

// Photo is a single stored image. it belongs to exactly one album and can
// be tagged with any number of people.
type Photo struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:200;index" json:"name"`
	File    string `gorm:"size:255;not null" json:"file"` // relative to MEDIA_ROOT
	AlbumID uint   `gorm:"not null;index" json:"album_id"`
	Album   *Album `gorm:"foreignKey:AlbumID" json:"album,omitempty"`

	Width        *int       `gorm:"" json:"width,omitempty"`
	Height       *int       `gorm:"" json:"height,omitempty"`
	CameraMake   *string    `gorm:"size:100" json:"camera_make,omitempty"`
	CameraModel  *string    `gorm:"size:100" json:"camera_model,omitempty"`
	ISO          *int       `gorm:"" json:"iso,omitempty"`
	FocalLength  *float64   `gorm:"" json:"focal_length,omitempty"` // mm
	Aperture     *float64   `gorm:"" json:"aperture,omitempty"`     // f-number
	ShutterSpeed *string    `gorm:"size:100" json:"shutter_speed,omitempty"`
	TakenAt      *time.Time `gorm:"index" json:"taken_at,omitempty"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`

	People     []Person    `gorm:"many2many:photo_people;" json:"people,omitempty"`
	Thumbnails []Thumbnail `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"-"`

	// size spec -> thumbnail path, resolved at most once per instance
	thumbs map[string]string
}

func (Photo) TableName() string {
	return "photos"
}

func (p *Photo) EntityType() string { return EntityPhoto }
func (p *Photo) EntityID() uint     { return p.ID }
func (p *Photo) String() string     { return p.Name }

func (p *Photo) FileAttributes() []FileAttribute {
	return []FileAttribute{{Column: "file", Path: p.File}}
}

// CachedThumbnail returns the thumbnail path already resolved for size on
// this instance.
func (p *Photo) CachedThumbnail(size string) (string, bool) {
	path, ok := p.thumbs[size]
	return path, ok
}

func (p *Photo) CacheThumbnail(size, path string) {
	if p.thumbs == nil {
		p.thumbs = make(map[string]string)
	}
	p.thumbs[size] = path
}
