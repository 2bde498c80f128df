package models

import "fmt"

// Thumbnail is a resized derivative of a photo. there is at most one per
// (photo, size) pair.
type Thumbnail struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Size      string `gorm:"size:20;not null;uniqueIndex:idx_thumbnail_photo_size" json:"size"`
	File      string `gorm:"size:255" json:"file"`
	PhotoID   uint   `gorm:"not null;uniqueIndex:idx_thumbnail_photo_size" json:"photo_id"`
	Photo     *Photo `gorm:"foreignKey:PhotoID" json:"-"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Thumbnail) TableName() string {
	return "thumbnails"
}

func (t *Thumbnail) EntityType() string { return EntityThumbnail }
func (t *Thumbnail) EntityID() uint     { return t.ID }

func (t *Thumbnail) String() string {
	if t.Photo != nil {
		return fmt.Sprintf("%s (%s)", t.Photo.Name, t.Size)
	}
	return fmt.Sprintf("photo %d (%s)", t.PhotoID, t.Size)
}

func (t *Thumbnail) FileAttributes() []FileAttribute {
	return []FileAttribute{{Column: "file", Path: t.File}}
}
