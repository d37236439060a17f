// Package scheduler maintains per-user recurring jobs and fires them at the
// right local wall-clock moments.
package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	// Bundle the IANA zone database so per-user timezones resolve on
	// minimal container images.
	_ "time/tzdata"

	"github.com/google/uuid"

	"example.com/progress/internal/domain"
	"example.com/progress/internal/observability"
)

// JobKind distinguishes the two recurring trigger types.
type JobKind string

const (
	KindSportReminder JobKind = "sport_reminder"
	KindWeeklyReport  JobKind = "weekly_report"
)

type job struct {
	id       string
	userID   string
	kind     JobKind
	trigger  Trigger
	message  string // rendered reminder text; unused for report jobs
	nextFire time.Time
	index    int // heap position, -1 once removed
}

// Config contains scheduler tunables.
type Config struct {
	TickInterval    time.Duration
	FireTimeout     time.Duration
	DefaultTimezone string
}

// Scheduler owns the registry of recurring jobs and the tick loop that fires
// them. Registration is an atomic full-replace per (user, kind): the same
// logical trigger can never be registered twice.
type Scheduler struct {
	engine      *domain.Service
	renderer    domain.Renderer
	notifier    domain.Notifier
	clock       Clock
	defaultLoc  *time.Location
	tick        time.Duration
	fireTimeout time.Duration

	mu    sync.Mutex
	jobs  map[string][]*job // by user id
	queue jobQueue

	inFlight         sync.WaitGroup
	shutdownComplete chan struct{}
}

// New constructs a Scheduler. The default timezone must be valid; it is the
// substitute for user timezones that fail to resolve.
func New(cfg Config, engine *domain.Service, renderer domain.Renderer, notifier domain.Notifier, clock Clock) (*Scheduler, error) {
	defaultLoc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", cfg.DefaultTimezone, err)
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Minute
	}
	fireTimeout := cfg.FireTimeout
	if fireTimeout <= 0 {
		fireTimeout = 10 * time.Second
	}
	return &Scheduler{
		engine:           engine,
		renderer:         renderer,
		notifier:         notifier,
		clock:            clock,
		defaultLoc:       defaultLoc,
		tick:             tick,
		fireTimeout:      fireTimeout,
		jobs:             make(map[string][]*job),
		shutdownComplete: make(chan struct{}),
	}, nil
}

// RegisterSportReminders replaces every sport reminder job for the user with
// one job per slot. It returns true when the user's timezone did not resolve
// and the default timezone was substituted.
func (s *Scheduler) RegisterSportReminders(userID, timezone string, slots []domain.ScheduleSlot) (bool, error) {
	loc, fallback := s.location(timezone)

	pending := make([]*job, 0, len(slots))
	for _, slot := range slots {
		hour, minute, err := domain.ParseTimeOfDay(slot.TimeOfDay)
		if err != nil {
			return fallback, err
		}
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			return fallback, fmt.Errorf("%w: day of week must be 0..6", domain.ErrValidation)
		}
		pending = append(pending, &job{
			id:     uuid.NewString(),
			userID: userID,
			kind:   KindSportReminder,
			trigger: Trigger{
				Weekday:  time.Weekday(slot.DayOfWeek),
				Hour:     hour,
				Minute:   minute,
				Location: loc,
			},
			message: fmt.Sprintf("Workout reminder: %s at %s", slot.ActivityName, slot.TimeOfDay),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(userID, KindSportReminder)
	s.addLocked(pending)
	return fallback, nil
}

// RegisterWeeklyReport replaces the user's single weekly report job.
func (s *Scheduler) RegisterWeeklyReport(userID, timezone string, dayOfWeek, hour int) (bool, error) {
	loc, fallback := s.location(timezone)
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fallback, fmt.Errorf("%w: day of week must be 0..6", domain.ErrValidation)
	}
	if hour < 0 || hour > 23 {
		return fallback, fmt.Errorf("%w: hour must be 0..23", domain.ErrValidation)
	}

	report := &job{
		id:     uuid.NewString(),
		userID: userID,
		kind:   KindWeeklyReport,
		trigger: Trigger{
			Weekday:  time.Weekday(dayOfWeek),
			Hour:     hour,
			Location: loc,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(userID, KindWeeklyReport)
	s.addLocked([]*job{report})
	return fallback, nil
}

// ClearUser removes every job for the user. In-flight firings are allowed to
// complete; nothing fires for the user afterwards.
func (s *Scheduler) ClearUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(userID, KindSportReminder)
	s.removeLocked(userID, KindWeeklyReport)
}

// location resolves a timezone, substituting the default when it is missing
// or unknown.
func (s *Scheduler) location(timezone string) (*time.Location, bool) {
	if timezone == "" {
		timezoneFallbackCounter.Inc()
		return s.defaultLoc, true
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		timezoneFallbackCounter.Inc()
		return s.defaultLoc, true
	}
	return loc, false
}

func (s *Scheduler) addLocked(pending []*job) {
	now := s.clock.Now()
	for _, j := range pending {
		j.nextFire = j.trigger.Next(now)
		heap.Push(&s.queue, j)
		s.jobs[j.userID] = append(s.jobs[j.userID], j)
	}
	activeJobsGauge.Set(float64(len(s.queue)))
}

func (s *Scheduler) removeLocked(userID string, kind JobKind) {
	kept := s.jobs[userID][:0]
	for _, j := range s.jobs[userID] {
		if j.kind != kind {
			kept = append(kept, j)
			continue
		}
		if j.index >= 0 {
			heap.Remove(&s.queue, j.index)
		}
	}
	if len(kept) == 0 {
		delete(s.jobs, userID)
	} else {
		s.jobs[userID] = kept
	}
	activeJobsGauge.Set(float64(len(s.queue)))
}

// Start runs the tick loop until the context is cancelled. It should be
// called in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer func() {
		ticker.Stop()
		s.inFlight.Wait()
		close(s.shutdownComplete)
	}()

	for {
		s.fireDue()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the scheduler has stopped and all in-flight firings have
// completed.
func (s *Scheduler) Wait() {
	<-s.shutdownComplete
}

// firing is the immutable snapshot handed to the dispatch goroutine, so a
// concurrent re-registration cannot mutate a firing already in progress.
type firing struct {
	userID  string
	kind    JobKind
	message string
}

// fireDue pops every job whose next-fire instant has passed, reschedules it
// one occurrence ahead, and dispatches the firings without holding the lock.
func (s *Scheduler) fireDue() {
	now := s.clock.Now()

	var due []firing
	s.mu.Lock()
	for len(s.queue) > 0 && !s.queue[0].nextFire.After(now) {
		j := s.queue[0]
		due = append(due, firing{userID: j.userID, kind: j.kind, message: j.message})
		j.nextFire = j.trigger.Next(j.nextFire)
		heap.Fix(&s.queue, 0)
	}
	s.mu.Unlock()

	for _, f := range due {
		s.dispatch(f)
	}
}

// dispatch runs one firing in its own goroutine so a slow delivery cannot
// delay other users' jobs. Delivery errors are logged and swallowed: a
// missed reminder is not safety-critical and next week's occurrence fires
// regardless. The firing context is detached from the tick loop so shutdown
// lets in-flight deliveries finish.
func (s *Scheduler) dispatch(f firing) {
	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.fireTimeout)
		defer cancel()

		var err error
		switch f.kind {
		case KindSportReminder:
			err = s.notifier.Send(ctx, f.userID, f.message)
		case KindWeeklyReport:
			err = s.deliverReport(ctx, f.userID)
		}
		if err != nil {
			failedFiringsCounter.WithLabelValues(string(f.kind)).Inc()
			log.Printf("scheduler: %s firing for user %s failed: %v", f.kind, f.userID, err)
			return
		}
		firingsCounter.WithLabelValues(string(f.kind)).Inc()
	}()
}

func (s *Scheduler) deliverReport(ctx context.Context, userID string) error {
	report, err := s.engine.BuildReport(ctx, userID)
	if err != nil {
		return err
	}
	artifact, err := s.renderer.Render(ctx, userID, report)
	if err != nil {
		return err
	}
	observability.RecordReportBuilt(s.clock.Now())
	return s.notifier.Send(ctx, userID, artifact)
}
