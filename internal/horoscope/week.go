// Package horoscope implements the domain service: input validation,
// date normalization, key resolution and read/write orchestration over
// a storage backend.
package horoscope

import "time"

// DateOnly strips the time-of-day from t, keeping the calendar date in
// t's location and pinning it to midnight UTC. Every key and period
// value passes through here so date comparisons never see clock or
// zone residue.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart maps any date to the Monday that starts its week. Weeks
// run Monday through Sunday; a Monday maps to itself, so the function
// is idempotent.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	offset := int(time.Monday - d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	return d.AddDate(0, 0, offset)
}
