package models

// Location is a physical place an album can be tied to.
type Location struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"size:200;not null;index" json:"name"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64  `gorm:"autoUpdateTime" json:"updated_at"`

	Albums []Album `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"albums,omitempty"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) EntityType() string { return EntityLocation }
func (l *Location) EntityID() uint     { return l.ID }
func (l *Location) String() string     { return l.Name }
