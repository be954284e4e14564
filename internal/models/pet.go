package models

// Pet represents an animal registered by a pet owner.
type Pet struct {
	BaseModel
	OwnerID string `gorm:"size:36;index" json:"ownerId"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Species string `gorm:"size:50" json:"species"`
	Breed   string `gorm:"size:100" json:"breed"`
	Age     int    `json:"age"`
	Weight  float64 `json:"weight,omitempty"`
	Notes   string `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
