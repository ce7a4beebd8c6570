package models

import "time"

// BusinessHours holds the opening window of one weekday (0=Sunday..6=Saturday).
// Times are "HH:MM" in the salon timezone.
type BusinessHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	Weekday int  `gorm:"uniqueIndex;not null" json:"weekday"`

	OpenTime   string `gorm:"size:5" json:"openTime"`
	CloseTime  string `gorm:"size:5" json:"closeTime"`
	BreakStart string `gorm:"size:5" json:"breakStart,omitempty"`
	BreakEnd   string `gorm:"size:5" json:"breakEnd,omitempty"`
	IsOpen     bool   `json:"isOpen"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
