package dto

import "time"

type BookingListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	ClientName  string    `json:"clientName"`
	ClientPhone string    `json:"clientPhone"`
	ServiceName string    `json:"serviceName"`
	Notes       string    `json:"notes,omitempty"`
}
