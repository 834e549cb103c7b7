// Package worker wires the notification check to the clock.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	notifierService "github.com/hrtools/rptracker/internal/service/notifier"
	"github.com/hrtools/rptracker/pkg/logger"
)

// CheckRunner is the scheduler pass the clock fires.
type CheckRunner interface {
	RunCheck(ctx context.Context) (int, error)
}

type Config struct {
	// Times of day the check runs, "15:04" format.
	Times    []string
	Timezone string
}

// CheckWorker fires the notification pass at fixed times of day. Overlap is
// handled by the pass itself: a firing that lands while another pass is
// running gets ErrCheckInProgress and is skipped with a warning.
type CheckWorker struct {
	c      *cron.Cron
	runner CheckRunner
	log    *logger.Logger
}

func NewCheckWorker(cfg Config, runner CheckRunner, log *logger.Logger) (*CheckWorker, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
		}
	}

	w := &CheckWorker{
		c:      cron.New(cron.WithLocation(loc)),
		runner: runner,
		log:    log,
	}

	for _, t := range cfg.Times {
		spec, err := cronSpec(t)
		if err != nil {
			return nil, err
		}
		fireAt := t
		if _, err := w.c.AddFunc(spec, func() { w.fire(fireAt) }); err != nil {
			return nil, fmt.Errorf("failed to schedule check at %s: %w", fireAt, err)
		}
	}
	return w, nil
}

func (w *CheckWorker) fire(at string) {
	w.log.ZL.Info().Str("scheduled_at", at).Msg("running scheduled expiry check")

	attempted, err := w.runner.RunCheck(context.Background())
	if err != nil {
		if errors.Is(err, notifierService.ErrCheckInProgress) {
			w.log.ZL.Warn().Str("scheduled_at", at).Msg("previous check still running, skipping")
			return
		}
		w.log.ZL.Error().Err(err).Str("scheduled_at", at).Msg("scheduled check failed")
		return
	}
	w.log.ZL.Info().Str("scheduled_at", at).Int("attempted", attempted).Msg("scheduled check complete")
}

func (w *CheckWorker) Start() {
	w.c.Start()
}

// Stop halts the clock; a pass already in flight runs to completion.
func (w *CheckWorker) Stop() {
	<-w.c.Stop().Done()
}

// cronSpec converts a "15:04" time of day to a daily cron expression.
func cronSpec(hhmm string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("invalid schedule time %q (want HH:MM): %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
