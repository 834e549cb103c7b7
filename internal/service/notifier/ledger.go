package notifier

import "github.com/hrtools/rptracker/internal/model"

// Eligible reports whether another reminder may go out for the given calendar
// day and threshold, and the attempt index to assign if so. It is a pure
// query over the existing send log: records matching (day, threshold) are
// counted against the per-day cap and the next index is count+1. Appending
// the record after the dispatch attempt is the caller's job, which is what
// keeps indices dense from 1.
func Eligible(records []model.SendRecord, day string, threshold, limit int) (bool, int) {
	sent := 0
	for _, r := range records {
		if r.Date == day && r.ThresholdDays == threshold {
			sent++
		}
	}
	return sent < limit, sent + 1
}
