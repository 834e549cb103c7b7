package model

import (
	"time"

	"github.com/google/uuid"
)

// SendRecord is one entry in an employee's notification audit log. The log is
// append-only: the scheduler adds a record per dispatch attempt and never
// rewrites or removes existing entries.
type SendRecord struct {
	Date          string    `json:"date"` // calendar day, YYYY-MM-DD
	ThresholdDays int       `json:"threshold_days"`
	SentAt        time.Time `json:"sent_at"`
	AttemptIndex  int       `json:"attempt_index"` // dense per (date, threshold), starts at 1
}

type Employee struct {
	ID                uuid.UUID    `json:"id"`
	OwnerEmail        string       `json:"owner_email"`
	SerialNumber      int          `json:"serial_number"`
	QIDNumber         string       `json:"qid_number"`
	FullName          string       `json:"full_name"`
	Nationality       string       `json:"nationality"`
	Gender            string       `json:"gender"`
	ExpiryDate        string       `json:"expiry_date"` // YYYY-MM-DD, validated on write
	NotificationsSent []SendRecord `json:"notifications_sent"`
	CreatedAt         time.Time    `json:"created_at"`
}

// SentCount returns how many reminders were already recorded for the given
// calendar day and threshold.
func (e *Employee) SentCount(day string, threshold int) int {
	n := 0
	for _, r := range e.NotificationsSent {
		if r.Date == day && r.ThresholdDays == threshold {
			n++
		}
	}
	return n
}
