package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description"`
	DurationMin int     `gorm:"not null" json:"duration"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`
	ImageURL    string  `gorm:"size:255" json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
