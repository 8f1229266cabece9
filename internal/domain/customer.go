package domain

// Customer is a client that owns projects.
type Customer struct {
	BaseModel
	Name        string    `gorm:"size:200;not null" json:"name"`
	Address     string    `gorm:"size:255" json:"address"`
	PhoneNumber string    `gorm:"size:50" json:"phone_number"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Projects    []Project `gorm:"foreignKey:CustomerID" json:"projects,omitempty"`
}
