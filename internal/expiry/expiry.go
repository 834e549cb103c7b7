// Package expiry holds the calendar math for document expiry dates.
package expiry

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks a malformed expiry date. The scheduler skips such
// employees for the pass instead of aborting.
var ErrInvalidDate = errors.New("invalid date")

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysUntil returns the number of whole calendar days from ref until expiry.
// Both instants are reduced to their calendar date before subtracting, so
// time-of-day components never shift the result. Negative means already
// expired; that is a valid answer, not an error.
func DaysUntil(expiry, ref time.Time) int {
	return int(dateOnly(expiry).Sub(dateOnly(ref)) / (24 * time.Hour))
}

// DayKey formats an instant as its calendar day, the key the dedup ledger
// counts sends under.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// dateOnly pins the calendar date to UTC midnight so the day difference is an
// exact multiple of 24h regardless of zone or DST.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
