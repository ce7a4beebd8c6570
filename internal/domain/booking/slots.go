package booking

import "time"

// GenerateSlots steps from open by granularity and keeps every start S with
// S+duration <= close. Duration is never rounded to the granularity.
func GenerateSlots(open, close time.Time, duration, granularity time.Duration) []time.Time {
	if duration <= 0 || granularity <= 0 {
		return nil
	}

	var slots []time.Time
	for cur := open; !cur.Add(duration).After(close); cur = cur.Add(granularity) {
		slots = append(slots, cur)
	}
	return slots
}

// FilterBreak drops slots whose [S, S+duration) touches the break.
func FilterBreak(slots []time.Time, duration time.Duration, breakStart, breakEnd time.Time) []time.Time {
	out := slots[:0:0]
	for _, s := range slots {
		if Overlaps(s, s.Add(duration), breakStart, breakEnd) {
			continue
		}
		out = append(out, s)
	}
	return out
}
