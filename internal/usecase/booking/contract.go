package booking

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

// Settings are the salon-wide scheduling parameters.
type Settings struct {
	Location *time.Location

	// Buffer is the minimum lead time before a same-day slot can be booked.
	Buffer time.Duration

	// Granularity is the step between candidate slot starts.
	Granularity time.Duration
}

// cutoff is the instant a slot on day must start after: now plus Buffer
// when day is the salon's current day, now itself for any later day.
func (s Settings) cutoff(now, day time.Time, loc *time.Location) time.Time {
	if sameDay(now.In(loc), day.In(loc)) {
		return now.Add(s.Buffer)
	}
	return now
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
