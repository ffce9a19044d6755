package horoscope

import (
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
)

// ResolveKey computes the storage key a record lives under: the exact
// date for daily records, the Monday of the date's week for weekly
// ones. Deterministic, so the same (kind, sign, date) always targets
// the same record.
func ResolveKey(kind contracts.Kind, signID int, date time.Time) contracts.Key {
	return contracts.Key{SignID: signID, Date: PeriodFor(kind, date)}
}

// PeriodFor normalizes a date to the period value records of the given
// kind are grouped under. Every date in a Monday-to-Sunday span shares
// one weekly period.
func PeriodFor(kind contracts.Kind, date time.Time) time.Time {
	if kind == contracts.KindWeekly {
		return WeekStart(date)
	}
	return DateOnly(date)
}
