package booking

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Overlaps treats both intervals as half-open [start, end), so back-to-back
// intervals do not overlap.
func Overlaps(candidateStart, candidateEnd, existingStart, existingEnd time.Time) bool {
	return candidateStart.Before(existingEnd) && candidateEnd.After(existingStart)
}

// OverlapsAny reports whether [start, end) overlaps a non-cancelled booking.
func OverlapsAny(start, end time.Time, existing []models.Booking) bool {
	for _, b := range existing {
		if !Status(b.Status).Blocks() {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
