package notifier

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrtools/rptracker/internal/channel"
	"github.com/hrtools/rptracker/internal/expiry"
	"github.com/hrtools/rptracker/internal/model"
	"github.com/hrtools/rptracker/pkg/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	snap    *model.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStore) Load(ctx context.Context) (*model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snap, nil
}

func (f *fakeStore) Save(ctx context.Context, snap *model.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.snap = snap
	return nil
}

type fakeChannel struct {
	kind       string
	configured bool
	sendErr    error

	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeChannel) Kind() string { return f.kind }

func (f *fakeChannel) Configured(settings *model.AccountSettings) bool { return f.configured }

func (f *fakeChannel) Send(ctx context.Context, settings *model.AccountSettings, emp *model.Employee, daysLeft int) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.sendErr
}

func (f *fakeChannel) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func testEmployee(daysOut int) *model.Employee {
	return &model.Employee{
		ID:         uuid.New(),
		OwnerEmail: "owner@example.com",
		FullName:   "Test Person",
		ExpiryDate: expiry.DayKey(testNow.AddDate(0, 0, daysOut)),
	}
}

func newTestService(store *fakeStore, channels ...channel.Channel) *Service {
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(store, channels, DefaultPolicy(), NewMetrics("test"), log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestRunCheckCapsDailySends(t *testing.T) {
	emp := testEmployee(15)
	store := &fakeStore{snap: &model.Snapshot{
		Employees: []*model.Employee{emp},
		Settings:  map[string]*model.AccountSettings{},
	}}
	email := &fakeChannel{kind: channel.KindEmail, configured: true}
	chat := &fakeChannel{kind: channel.KindTelegram, configured: false}
	svc := newTestService(store, email, chat)

	for i := 1; i <= 3; i++ {
		attempted, err := svc.RunCheck(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, attempted, "pass %d", i)
	}

	// Three records, dense attempt indices, all for threshold 15 today.
	require.Len(t, emp.NotificationsSent, 3)
	for i, r := range emp.NotificationsSent {
		assert.Equal(t, expiry.DayKey(testNow), r.Date)
		assert.Equal(t, 15, r.ThresholdDays)
		assert.Equal(t, i+1, r.AttemptIndex)
		assert.Equal(t, testNow, r.SentAt)
	}
	assert.Equal(t, 3, email.sends())
	assert.Equal(t, 0, chat.sends(), "unconfigured channel must never be attempted")

	// Fourth pass the same day: cap reached, nothing new, pass still fine.
	attempted, err := svc.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, attempted)
	assert.Len(t, emp.NotificationsSent, 3)
	assert.Equal(t, 4, store.saves, "every completed pass saves the snapshot")
	assert.Equal(t, testNow, store.snap.LastCheck)
}

func TestRunCheckStrictThresholdEquality(t *testing.T) {
	// 31 days out on the first pass, 29 on the next: the 30-day threshold is
	// stepped over and must never fire.
	emp := testEmployee(31)
	store := &fakeStore{snap: &model.Snapshot{
		Employees: []*model.Employee{emp},
		Settings:  map[string]*model.AccountSettings{},
	}}
	email := &fakeChannel{kind: channel.KindEmail, configured: true}
	svc := newTestService(store, email)

	attempted, err := svc.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, attempted)

	svc.now = func() time.Time { return testNow.AddDate(0, 0, 2) }
	attempted, err = svc.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, attempted)

	assert.Empty(t, emp.NotificationsSent)
	assert.Equal(t, 0, email.sends())
}

func TestRunCheckSkipsMalformedExpiryDate(t *testing.T) {
	bad := testEmployee(15)
	bad.ExpiryDate = "not-a-date"
	good := testEmployee(30)
	store := &fakeStore{snap: &model.Snapshot{
		Employees: []*model.Employee{bad, good},
		Settings:  map[string]*model.AccountSettings{},
	}}
	email := &fakeChannel{kind: channel.KindEmail, configured: true}
	svc := newTestService(store, email)

	attempted, err := svc.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Empty(t, bad.NotificationsSent)
	assert.Len(t, good.NotificationsSent, 1)
}

func TestRunCheckLoadFailureAbortsPass(t *testing.T) {
	emp := testEmployee(15)
	store := &fakeStore{
		snap:    &model.Snapshot{Employees: []*model.Employee{emp}},
		loadErr: errors.New("disk gone"),
	}
	email := &fakeChannel{kind: channel.KindEmail, configured: true}
	svc := newTestService(store, email)

	_, err := svc.RunCheck(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, email.sends())
	assert.Equal(t, 0, store.saves)
	assert.Empty(t, emp.NotificationsSent)
	assert.True(t, store.snap.LastCheck.IsZero())
}

func TestRunCheckAttemptConsumedOnChannelFailure(t *testing.T) {
	emp := testEmployee(15)
	store := &fakeStore{snap: &model.Snapshot{
		Employees: []*model.Employee{emp},
		Settings:  map[string]*model.AccountSettings{},
	}}
	email := &fakeChannel{kind: channel.KindEmail, configured: true, sendErr: errors.New("smtp down")}
	svc := newTestService(store, email)

	attempted, err := svc.RunCheck(context.Background())
	require.NoError(t, err, "channel failures are not pass failures")
	assert.Equal(t, 1, attempted)
	require.Len(t, emp.NotificationsSent, 1)
	assert.Equal(t, 1, emp.NotificationsSent[0].AttemptIndex)
}

func TestRunCheckRejectsOverlappingPass(t *testing.T) {
	emp := testEmployee(15)
	store := &fakeStore{snap: &model.Snapshot{
		Employees: []*model.Employee{emp},
		Settings:  map[string]*model.AccountSettings{},
	}}
	email := &fakeChannel{
		kind:       channel.KindEmail,
		configured: true,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := newTestService(store, email)

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunCheck(context.Background())
		done <- err
	}()

	<-email.entered // first pass is mid-dispatch now

	_, err := svc.RunCheck(context.Background())
	assert.ErrorIs(t, err, ErrCheckInProgress)

	close(email.release)
	require.NoError(t, <-done)
	assert.Len(t, emp.NotificationsSent, 1)
}

func TestSendTestBypassesDedupCap(t *testing.T) {
	emp := testEmployee(15)
	day := expiry.DayKey(testNow)
	emp.NotificationsSent = []model.SendRecord{
		{Date: day, ThresholdDays: 15, AttemptIndex: 1},
		{Date: day, ThresholdDays: 15, AttemptIndex: 2},
		{Date: day, ThresholdDays: 15, AttemptIndex: 3},
	}
	store := &fakeStore{snap: &model.Snapshot{
		Employees: []*model.Employee{emp},
		Settings:  map[string]*model.AccountSettings{},
	}}
	email := &fakeChannel{kind: channel.KindEmail, configured: true}
	chat := &fakeChannel{kind: channel.KindTelegram, configured: false}
	svc := newTestService(store, email, chat)

	res, err := svc.SendTest(context.Background(), emp, 15, emp.OwnerEmail)
	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.False(t, res.ChatSent)
	assert.Equal(t, 1, email.sends())

	// Test sends leave no trace in the ledger.
	assert.Len(t, emp.NotificationsSent, 3)
}
