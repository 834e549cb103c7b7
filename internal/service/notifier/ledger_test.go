package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrtools/rptracker/internal/model"
)

func record(day string, threshold, attempt int) model.SendRecord {
	return model.SendRecord{Date: day, ThresholdDays: threshold, AttemptIndex: attempt}
}

func TestEligible(t *testing.T) {
	const day = "2025-06-01"

	t.Run("empty log", func(t *testing.T) {
		ok, next := Eligible(nil, day, 30, 3)
		assert.True(t, ok)
		assert.Equal(t, 1, next)
	})

	t.Run("index advances densely", func(t *testing.T) {
		records := []model.SendRecord{record(day, 30, 1)}
		ok, next := Eligible(records, day, 30, 3)
		assert.True(t, ok)
		assert.Equal(t, 2, next)
	})

	t.Run("cap reached", func(t *testing.T) {
		records := []model.SendRecord{
			record(day, 30, 1),
			record(day, 30, 2),
			record(day, 30, 3),
		}
		ok, _ := Eligible(records, day, 30, 3)
		assert.False(t, ok)
	})

	t.Run("other threshold does not count", func(t *testing.T) {
		records := []model.SendRecord{
			record(day, 30, 1),
			record(day, 30, 2),
			record(day, 30, 3),
		}
		ok, next := Eligible(records, day, 15, 3)
		assert.True(t, ok)
		assert.Equal(t, 1, next)
	})

	t.Run("other day does not count", func(t *testing.T) {
		records := []model.SendRecord{
			record("2025-05-31", 30, 1),
			record("2025-05-31", 30, 2),
			record("2025-05-31", 30, 3),
		}
		ok, next := Eligible(records, day, 30, 3)
		assert.True(t, ok)
		assert.Equal(t, 1, next)
	})
}
