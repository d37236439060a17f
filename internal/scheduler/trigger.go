package scheduler

import "time"

// Trigger is a weekly local-time firing rule: a weekday plus a wall-clock
// time in a specific timezone.
type Trigger struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// Next returns the first UTC instant strictly after the given one at which
// the local wall clock matches the trigger. Computing each occurrence in the
// trigger's location keeps firings aligned with local time across daylight
// saving transitions; a wall-clock time skipped by a transition normalizes
// forward.
func (t Trigger) Next(after time.Time) time.Time {
	local := after.In(t.Location)
	days := (int(t.Weekday) - int(local.Weekday()) + 7) % 7
	candidate := time.Date(local.Year(), local.Month(), local.Day()+days, t.Hour, t.Minute, 0, 0, t.Location)
	if !candidate.After(after) {
		candidate = time.Date(local.Year(), local.Month(), local.Day()+days+7, t.Hour, t.Minute, 0, 0, t.Location)
	}
	return candidate.UTC()
}
