package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"example.com/progress/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(to time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = to
}

type recordingNotifier struct {
	mu       sync.Mutex
	err      error
	messages []string
}

func (n *recordingNotifier) Send(_ context.Context, _ string, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type staticRenderer struct{}

func (staticRenderer) Render(context.Context, string, domain.Report) (string, error) {
	return "report", nil
}

// emptyRepo satisfies domain.Repository for tests that only exercise
// reminder jobs.
type emptyRepo struct{}

func (emptyRepo) AppendEvent(context.Context, domain.Event) error { return nil }
func (emptyRepo) EventsSince(context.Context, string, time.Time) ([]domain.Event, error) {
	return nil, nil
}
func (emptyRepo) EventsBetween(context.Context, string, time.Time, time.Time) ([]domain.Event, error) {
	return nil, nil
}
func (emptyRepo) ListEvents(context.Context, string, *domain.Cursor, int) ([]domain.Event, *domain.Cursor, error) {
	return nil, nil, nil
}
func (emptyRepo) AwardPoints(context.Context, string, int64) error { return nil }
func (emptyRepo) PointsBalance(context.Context, string) (int64, error) {
	return 0, nil
}
func (emptyRepo) CreateGoal(context.Context, domain.Goal) error { return nil }
func (emptyRepo) GoalsByUser(context.Context, string) ([]domain.Goal, error) {
	return nil, nil
}
func (emptyRepo) ReplaceActivityTypes(context.Context, string, []domain.ActivityType) error {
	return nil
}
func (emptyRepo) ActivityTypesByUser(context.Context, string) ([]domain.ActivityType, error) {
	return nil, nil
}
func (emptyRepo) ReplaceSchedule(context.Context, string, []domain.ScheduleEntry) error {
	return nil
}
func (emptyRepo) ScheduleByUser(context.Context, string) ([]domain.ScheduleEntry, error) {
	return nil, nil
}
func (emptyRepo) EnsureSettings(context.Context, string) (domain.Settings, error) {
	return domain.Settings{}, nil
}
func (emptyRepo) UpdateSettings(context.Context, domain.Settings) error { return nil }
func (emptyRepo) NotifiableSettings(context.Context) ([]domain.Settings, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T, clock Clock, notifier domain.Notifier) *Scheduler {
	t.Helper()
	s, err := New(Config{DefaultTimezone: "Asia/Yekaterinburg"}, domain.NewService(emptyRepo{}), staticRenderer{}, notifier, clock)
	require.NoError(t, err)
	return s
}

func counterValue(t *testing.T, kind JobKind) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, firingsCounter.WithLabelValues(string(kind)).Write(&m))
	return m.GetCounter().GetValue()
}

func TestTriggerNextStaysOnLocalWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	trigger := Trigger{Weekday: time.Monday, Hour: 19, Location: loc}

	// Monday before the 2025 spring-forward transition (March 9).
	first := time.Date(2025, time.March, 3, 19, 0, 0, 0, loc)
	next := trigger.Next(first)

	require.Equal(t, time.Date(2025, time.March, 10, 19, 0, 0, 0, loc).UTC(), next)
	require.Equal(t, 19, next.In(loc).Hour())
	// EST to EDT: one wall-clock week is 167 real hours.
	require.Equal(t, 167*time.Hour, next.Sub(first.UTC()))
}

func TestTriggerNextIsStrictlyAfter(t *testing.T) {
	trigger := Trigger{Weekday: time.Monday, Hour: 19, Location: time.UTC}

	at := time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC) // a Monday, exactly 19:00
	next := trigger.Next(at)
	require.Equal(t, at.AddDate(0, 0, 7), next)

	before := at.Add(-time.Minute)
	require.Equal(t, at, trigger.Next(before))
}

func TestRegisterSportRemindersReplacesPreviousJobs(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	s := newTestScheduler(t, clock, &recordingNotifier{})

	fallback, err := s.RegisterSportReminders("u", "UTC", []domain.ScheduleSlot{
		{ActivityName: "gym", DayOfWeek: 1, TimeOfDay: "19:00"},
		{ActivityName: "pool", DayOfWeek: 3, TimeOfDay: "07:30"},
	})
	require.NoError(t, err)
	require.False(t, fallback)

	_, err = s.RegisterSportReminders("u", "UTC", []domain.ScheduleSlot{
		{ActivityName: "run", DayOfWeek: 5, TimeOfDay: "06:00"},
	})
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.jobs["u"], 1)
	require.Len(t, s.queue, 1)
	require.Equal(t, "Workout reminder: run at 06:00", s.jobs["u"][0].message)
}

func TestRegisterWeeklyReportKeepsSportJobs(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	s := newTestScheduler(t, clock, &recordingNotifier{})

	_, err := s.RegisterSportReminders("u", "UTC", []domain.ScheduleSlot{
		{ActivityName: "gym", DayOfWeek: 1, TimeOfDay: "19:00"},
	})
	require.NoError(t, err)
	_, err = s.RegisterWeeklyReport("u", "UTC", 0, 20)
	require.NoError(t, err)
	_, err = s.RegisterWeeklyReport("u", "UTC", 6, 9)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.jobs["u"], 2)
	require.Len(t, s.queue, 2)
}

func TestClearUserRemovesAllJobs(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	s := newTestScheduler(t, clock, &recordingNotifier{})

	_, err := s.RegisterSportReminders("u", "UTC", []domain.ScheduleSlot{
		{ActivityName: "gym", DayOfWeek: 1, TimeOfDay: "19:00"},
	})
	require.NoError(t, err)
	_, err = s.RegisterWeeklyReport("u", "UTC", 0, 20)
	require.NoError(t, err)

	s.ClearUser("u")

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Empty(t, s.jobs)
	require.Empty(t, s.queue)
}

func TestInvalidTimezoneFallsBackToDefault(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	s := newTestScheduler(t, clock, &recordingNotifier{})

	fallback, err := s.RegisterSportReminders("u", "Not/AZone", []domain.ScheduleSlot{
		{ActivityName: "gym", DayOfWeek: 1, TimeOfDay: "19:00"},
	})
	require.NoError(t, err)
	require.True(t, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Equal(t, s.defaultLoc, s.jobs["u"][0].trigger.Location)
}

func TestFireDueDeliversAndReschedules(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)} // a Monday
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, clock, notifier)

	before := counterValue(t, KindSportReminder)

	_, err := s.RegisterSportReminders("u", "UTC", []domain.ScheduleSlot{
		{ActivityName: "gym", DayOfWeek: 1, TimeOfDay: "19:00"},
	})
	require.NoError(t, err)

	firstFire := time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC)

	// Not due yet.
	s.fireDue()
	s.inFlight.Wait()
	require.Empty(t, notifier.sent())

	clock.Advance(firstFire.Add(time.Second))
	s.fireDue()
	s.inFlight.Wait()

	require.Equal(t, []string{"Workout reminder: gym at 19:00"}, notifier.sent())
	require.Equal(t, before+1, counterValue(t, KindSportReminder))

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Equal(t, firstFire.AddDate(0, 0, 7), s.jobs["u"][0].nextFire)
}

func TestFailedDeliveryStillReschedules(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{err: errors.New("broker down")}
	s := newTestScheduler(t, clock, notifier)

	_, err := s.RegisterSportReminders("u", "UTC", []domain.ScheduleSlot{
		{ActivityName: "gym", DayOfWeek: 1, TimeOfDay: "19:00"},
	})
	require.NoError(t, err)

	firstFire := time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC)
	clock.Advance(firstFire.Add(time.Second))
	s.fireDue()
	s.inFlight.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.queue, 1)
	require.Equal(t, firstFire.AddDate(0, 0, 7), s.jobs["u"][0].nextFire)
}

func TestWeeklyReportFiringDeliversRenderedArtifact(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, clock, notifier)

	_, err := s.RegisterWeeklyReport("u", "UTC", 1, 20) // Monday 20:00
	require.NoError(t, err)

	clock.Advance(time.Date(2025, time.June, 2, 20, 0, 1, 0, time.UTC))
	s.fireDue()
	s.inFlight.Wait()

	require.Equal(t, []string{"report"}, notifier.sent())
}

func TestStartStopsCleanly(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)}
	s, err := New(Config{DefaultTimezone: "UTC", TickInterval: time.Millisecond}, domain.NewService(emptyRepo{}), staticRenderer{}, &recordingNotifier{}, clock)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx)
	cancel()
	s.Wait()
}
