package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"not null;index" json:"clientId"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	ServiceID uint    `gorm:"not null;index" json:"serviceId"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	// EndTime is fixed at creation (start + service duration at that moment).
	StartTime time.Time `gorm:"not null;index:idx_bookings_interval,priority:1" json:"startTime"`
	EndTime   time.Time `gorm:"not null;index:idx_bookings_interval,priority:2" json:"endTime"`

	Status string `gorm:"size:20;not null;default:'confirmed'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
