// Package notifier implements the expiry check pass: it decides, for every
// tracked employee, whether a reminder must fire, enforces the per-day send
// cap, dispatches to the owner's channels and records what was attempted.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hrtools/rptracker/internal/channel"
	"github.com/hrtools/rptracker/internal/expiry"
	"github.com/hrtools/rptracker/internal/model"
	"github.com/hrtools/rptracker/internal/repository"
	"github.com/hrtools/rptracker/pkg/logger"
)

// ErrCheckInProgress is returned when a pass is triggered while another is
// still running. Passes must not overlap: two concurrent passes could read
// the same send count and both dispatch, blowing the daily cap. A rejected
// trigger is simply retried by the next clock firing.
var ErrCheckInProgress = errors.New("notification check already in progress")

// Policy is the reminder configuration: at which days-before-expiry a
// reminder fires, and how many attempts per threshold per calendar day.
type Policy struct {
	Thresholds []int
	DailyCap   int
}

func DefaultPolicy() Policy {
	return Policy{Thresholds: []int{30, 15}, DailyCap: 3}
}

// TestResult reports which channels a test send reached.
type TestResult struct {
	EmailSent bool `json:"email_sent"`
	ChatSent  bool `json:"chat_sent"`
}

type Service struct {
	store    repository.SnapshotStore
	channels []channel.Channel
	policy   Policy
	metrics  *Metrics
	log      *logger.Logger

	running atomic.Bool

	// now is the pass clock, swapped out in tests.
	now func() time.Time
}

func NewService(store repository.SnapshotStore, channels []channel.Channel, policy Policy, metrics *Metrics, log *logger.Logger) *Service {
	if len(policy.Thresholds) == 0 {
		policy.Thresholds = DefaultPolicy().Thresholds
	}
	if policy.DailyCap <= 0 {
		policy.DailyCap = DefaultPolicy().DailyCap
	}
	return &Service{
		store:    store,
		channels: channels,
		policy:   policy,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// RunCheck executes one full pass over all employees and returns the number
// of notification attempts it made. The reference instant is taken once at
// the start so every employee is judged against the same "now". Only store
// failures abort the pass; per-employee and per-channel problems are logged
// and skipped.
func (s *Service) RunCheck(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, ErrCheckInProgress
	}
	defer s.running.Store(false)

	timer := prometheus.NewTimer(s.metrics.PassDuration)
	defer timer.ObserveDuration()

	now := s.now()
	day := expiry.DayKey(now)

	snap, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.PassesFailed.Inc()
		return 0, fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.log.ZL.Info().
		Int("employees", len(snap.Employees)).
		Ints("thresholds", s.policy.Thresholds).
		Msg("starting expiry check")

	attempted := 0
	for _, emp := range snap.Employees {
		expiryDate, err := expiry.ParseDate(emp.ExpiryDate)
		if err != nil {
			s.log.ZL.Warn().Err(err).
				Str("employee_id", emp.ID.String()).
				Msg("skipping employee with malformed expiry date")
			continue
		}

		daysLeft := expiry.DaysUntil(expiryDate, now)
		for _, threshold := range s.policy.Thresholds {
			// Strict equality: a threshold skipped between passes is
			// deliberately missed rather than caught up later.
			if daysLeft != threshold {
				continue
			}

			ok, attempt := Eligible(emp.NotificationsSent, day, threshold, s.policy.DailyCap)
			if !ok {
				continue
			}

			s.log.ZL.Info().
				Str("employee", emp.FullName).
				Int("days_left", daysLeft).
				Int("attempt", attempt).
				Msg("dispatching reminder")

			s.dispatch(ctx, snap.SettingsFor(emp.OwnerEmail), emp, daysLeft)

			// The attempt consumes a dedup slot whether or not any channel
			// delivered.
			emp.NotificationsSent = append(emp.NotificationsSent, model.SendRecord{
				Date:          day,
				ThresholdDays: threshold,
				SentAt:        now,
				AttemptIndex:  attempt,
			})
			attempted++
		}
	}

	snap.LastCheck = now
	if err := s.store.Save(ctx, snap); err != nil {
		s.metrics.PassesFailed.Inc()
		return attempted, fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.metrics.PassesRun.Inc()
	s.log.ZL.Info().Int("attempted", attempted).Msg("expiry check complete")
	return attempted, nil
}

// dispatch fans the reminder out to every active channel concurrently and
// waits for all of them; the employee's send record must not be appended
// while a channel attempt is still in flight. Channel failures never
// propagate: one broken transport must not block the other.
func (s *Service) dispatch(ctx context.Context, settings *model.AccountSettings, emp *model.Employee, daysLeft int) {
	var wg sync.WaitGroup
	for _, ch := range s.channels {
		if !ch.Configured(settings) {
			s.metrics.Notifications.WithLabelValues(ch.Kind(), "unconfigured").Inc()
			continue
		}

		wg.Add(1)
		go func(ch channel.Channel) {
			defer wg.Done()
			if err := ch.Send(ctx, settings, emp, daysLeft); err != nil {
				s.metrics.Notifications.WithLabelValues(ch.Kind(), "failed").Inc()
				s.log.ZL.Error().Err(err).
					Str("channel", ch.Kind()).
					Str("employee", emp.FullName).
					Msg("channel delivery failed")
				return
			}
			s.metrics.Notifications.WithLabelValues(ch.Kind(), "sent").Inc()
		}(ch)
	}
	wg.Wait()
}

// SendTest fires a one-off notification for an employee on every channel the
// owner has configured. Test sends bypass the dedup ledger entirely and leave
// no send record.
func (s *Service) SendTest(ctx context.Context, emp *model.Employee, daysLeft int, ownerEmail string) (*TestResult, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	settings := snap.SettingsFor(ownerEmail)
	res := &TestResult{}
	for _, ch := range s.channels {
		if !ch.Configured(settings) {
			continue
		}
		sent := true
		if err := ch.Send(ctx, settings, emp, daysLeft); err != nil {
			sent = false
			s.log.ZL.Error().Err(err).Str("channel", ch.Kind()).Msg("test send failed")
		}
		switch ch.Kind() {
		case channel.KindEmail:
			res.EmailSent = sent
		case channel.KindTelegram:
			res.ChatSent = sent
		}
	}
	return res, nil
}
