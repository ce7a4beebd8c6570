package events

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const QueueBookingConfirmed = "booking.confirmed"

// BookingConfirmed is published once a booking is committed. It carries
// enough for consumers (reminders, analytics) to act without a database
// read.
type BookingConfirmed struct {
	BookingID   uint   `json:"bookingId"`
	ClientID    uint   `json:"clientId"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	ClientEmail string `json:"clientEmail,omitempty"`
	ServiceID   uint   `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	StartsAt    string `json:"startsAt"`
	EndsAt      string `json:"endsAt"`
	ConfirmedAt string `json:"confirmedAt"`
}

func NewBookingConfirmed(b *models.Booking, now time.Time) BookingConfirmed {
	return BookingConfirmed{
		BookingID:   b.ID,
		ClientID:    b.ClientID,
		ClientName:  b.Client.Name,
		ClientPhone: b.Client.Phone,
		ClientEmail: b.Client.Email,
		ServiceID:   b.ServiceID,
		ServiceName: b.Service.Name,
		StartsAt:    b.StartTime.Format(time.RFC3339),
		EndsAt:      b.EndTime.Format(time.RFC3339),
		ConfirmedAt: now.Format(time.RFC3339),
	}
}
