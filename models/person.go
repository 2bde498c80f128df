package models

// Person is someone who can be tagged in photos.
type Person struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"size:200;not null;index" json:"name"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64  `gorm:"autoUpdateTime" json:"updated_at"`

	Photos []Photo `gorm:"many2many:photo_people;" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

func (p *Person) EntityType() string { return EntityPerson }
func (p *Person) EntityID() uint     { return p.ID }
func (p *Person) String() string     { return p.Name }
