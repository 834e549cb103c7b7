package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	ref := time.Date(2025, 6, 1, 10, 23, 45, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"thirty days out", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 30},
		{"same day", time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC), 0},
		{"tomorrow", time.Date(2025, 6, 2, 0, 0, 1, 0, time.UTC), 1},
		{"yesterday", time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC), -1},
		{"long expired", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), -151},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.expiry, ref))
		})
	}
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	// Same calendar dates must give the same answer no matter the clock time.
	expiry := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	early := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	late := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, 15, DaysUntil(expiry, early))
	assert.Equal(t, 15, DaysUntil(expiry, late))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("31/12/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2025-06-01", DayKey(time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)))
}
