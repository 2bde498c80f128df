package models

import (
	"strconv"
	"strings"
	"time"
)

// MinAlbumYear is the earliest year an album can be dated to.
const MinAlbumYear = 1950

// Album is a collection of photos, optionally dated and tied to a location.
type Album struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:200;not null;index" json:"name"`
	Month      *int      `gorm:"" json:"month,omitempty"` // 1-12
	Year       *int      `gorm:"" json:"year,omitempty"`
	LocationID *uint     `gorm:"index" json:"location_id,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	CreatedAt  int64     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  int64     `gorm:"autoUpdateTime" json:"updated_at"`

	Photos []Photo `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

func (Album) TableName() string {
	return "albums"
}

func (a *Album) EntityType() string { return EntityAlbum }
func (a *Album) EntityID() uint     { return a.ID }
func (a *Album) String() string     { return a.Name }

// DateDisplay formats the album date as "January 2014", "January", "2014"
// or "" depending on which of month and year are set.
func (a *Album) DateDisplay() string {
	var parts []string
	if a.Month != nil && *a.Month >= 1 && *a.Month <= 12 {
		parts = append(parts, time.Month(*a.Month).String())
	}
	if a.Year != nil && *a.Year > 0 {
		parts = append(parts, strconv.Itoa(*a.Year))
	}
	return strings.Join(parts, " ")
}

// MaxAlbumYear is the latest year an album can be dated to, next year.
func MaxAlbumYear(now time.Time) int {
	return now.Year() + 1
}
