package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Hours is the parsed opening window of one weekday, in minutes after
// local midnight.
type Hours struct {
	Open       int
	Close      int
	BreakStart int
	BreakEnd   int
	HasBreak   bool
}

// Calendar answers opening-hours questions for the salon. A weekday
// without a record is closed.
type Calendar struct {
	loc  *time.Location
	days map[time.Weekday]Hours
}

func NewCalendar(records []models.BusinessHours, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := &Calendar{loc: loc, days: make(map[time.Weekday]Hours, 7)}
	seen := make(map[int]bool, len(records))

	for _, r := range records {
		if r.Weekday < 0 || r.Weekday > 6 {
			return nil, &HoursError{Weekday: r.Weekday, Reason: "weekday must be between 0 and 6"}
		}
		if seen[r.Weekday] {
			return nil, &HoursError{Weekday: r.Weekday, Reason: "duplicate weekday"}
		}
		seen[r.Weekday] = true

		if !r.IsOpen {
			continue
		}

		h, err := parseHours(r)
		if err != nil {
			return nil, err
		}
		cal.days[time.Weekday(r.Weekday)] = h
	}

	return cal, nil
}

func parseHours(r models.BusinessHours) (Hours, error) {
	open, err := ParseClock(r.OpenTime)
	if err != nil {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "open time: " + err.Error()}
	}
	closeAt, err := ParseClock(r.CloseTime)
	if err != nil {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "close time: " + err.Error()}
	}
	if closeAt <= open {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "close time must be after open time"}
	}

	h := Hours{Open: open, Close: closeAt}

	if r.BreakStart == "" && r.BreakEnd == "" {
		return h, nil
	}
	if r.BreakStart == "" || r.BreakEnd == "" {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "break needs both start and end"}
	}

	bs, err := ParseClock(r.BreakStart)
	if err != nil {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "break start: " + err.Error()}
	}
	be, err := ParseClock(r.BreakEnd)
	if err != nil {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "break end: " + err.Error()}
	}
	if be <= bs || bs < open || be > closeAt {
		return Hours{}, &HoursError{Weekday: r.Weekday, Reason: "break must lie inside opening hours"}
	}

	h.BreakStart, h.BreakEnd, h.HasBreak = bs, be, true
	return h, nil
}

// ParseClock parses "HH:MM" (00:00..24:00) into minutes after midnight.
func ParseClock(hm string) (int, error) {
	if len(hm) != 5 || hm[2] != ':' || !digits(hm[:2]) || !digits(hm[3:]) {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", hm)
	}

	h := int(hm[0]-'0')*10 + int(hm[1]-'0')
	m := int(hm[3]-'0')*10 + int(hm[4]-'0')
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", hm)
	}
	return h*60 + m, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) IsOpenOn(weekday time.Weekday) bool {
	_, ok := c.days[weekday]
	return ok
}

func (c *Calendar) HoursFor(weekday time.Weekday) (Hours, bool) {
	h, ok := c.days[weekday]
	return h, ok
}

// DayStart returns local midnight of the calendar day containing t.
func (c *Calendar) DayStart(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// DayRange returns [midnight, next midnight) of the day containing t.
func (c *Calendar) DayRange(t time.Time) (time.Time, time.Time) {
	start := c.DayStart(t)
	return start, start.AddDate(0, 0, 1)
}

func (c *Calendar) at(day time.Time, minutes int) time.Time {
	d := day.In(c.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, c.loc)
}

// Window returns the opening and closing instants of day.
func (c *Calendar) Window(day time.Time) (time.Time, time.Time, bool) {
	h, ok := c.days[day.In(c.loc).Weekday()]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return c.at(day, h.Open), c.at(day, h.Close), true
}

// Break returns the pause of day, if it has one.
func (c *Calendar) Break(day time.Time) (time.Time, time.Time, bool) {
	h, ok := c.days[day.In(c.loc).Weekday()]
	if !ok || !h.HasBreak {
		return time.Time{}, time.Time{}, false
	}
	return c.at(day, h.BreakStart), c.at(day, h.BreakEnd), true
}

// Slots lists the candidate starts of day for a service of the given
// duration, ascending.
func (c *Calendar) Slots(day time.Time, duration, granularity time.Duration) []time.Time {
	open, closeAt, ok := c.Window(day)
	if !ok {
		return nil
	}

	slots := GenerateSlots(open, closeAt, duration, granularity)

	if bs, be, ok := c.Break(day); ok {
		slots = FilterBreak(slots, duration, bs, be)
	}
	return slots
}

// Contains reports whether [start, end) lies inside the opening hours of
// start's day and clear of its break.
func (c *Calendar) Contains(start, end time.Time) bool {
	open, closeAt, ok := c.Window(start)
	if !ok {
		return false
	}
	if start.Before(open) || end.After(closeAt) {
		return false
	}
	if bs, be, ok := c.Break(start); ok && Overlaps(start, end, bs, be) {
		return false
	}
	return true
}
