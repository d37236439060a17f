// Package domain defines the business logic for the progress engine.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrValidation marks malformed input. Callers must not retry.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownActivityType is returned when a schedule entry references an
	// activity type the user does not have.
	ErrUnknownActivityType = errors.New("unknown activity type")
)

// Point awards. A workout always scores; a sale scores only when its amount
// meets the user's sale threshold.
const (
	PointsPerWorkout = 2
	PointsPerSale    = 10
)

// Service orchestrates the progress engine workflows: event logging with the
// points policy, windowed aggregation, goal evaluation, and the per-user
// setup the reminder scheduler is driven from.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// LogEventInput captures an already-validated user action from the API layer.
type LogEventInput struct {
	UserID  string
	Kind    EventKind
	Value   int64
	TypeRef string
}

// LogEvent appends the event and applies the point-award policy. The append
// and the award are two separate operations: a failure between them records
// the action without its points, which is accepted (the balance only ever
// lags, never leads).
func (s *Service) LogEvent(ctx context.Context, input LogEventInput) (*Event, int64, error) {
	if input.UserID == "" {
		return nil, 0, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if !input.Kind.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown event kind %q", ErrValidation, input.Kind)
	}
	if input.Kind.CarriesValue() && input.Value <= 0 {
		return nil, 0, fmt.Errorf("%w: %s events require a positive value", ErrValidation, input.Kind)
	}
	if !input.Kind.CarriesValue() && input.Value != 0 {
		return nil, 0, fmt.Errorf("%w: %s events do not carry a value", ErrValidation, input.Kind)
	}

	settings, err := s.repo.EnsureSettings(ctx, input.UserID)
	if err != nil {
		return nil, 0, err
	}

	event := Event{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Kind:      input.Kind,
		Value:     input.Value,
		TypeRef:   input.TypeRef,
		CreatedAt: s.now(),
	}
	if err := s.repo.AppendEvent(ctx, event); err != nil {
		return nil, 0, err
	}

	awarded := awardFor(event, settings.SaleThreshold)
	if awarded > 0 {
		if err := s.repo.AwardPoints(ctx, input.UserID, awarded); err != nil {
			return nil, 0, err
		}
	}
	return &event, awarded, nil
}

// awardFor computes the points an event earns under the user's settings.
func awardFor(event Event, saleThreshold int64) int64 {
	switch event.Kind {
	case EventSport:
		return PointsPerWorkout
	case EventSale:
		if event.Value >= saleThreshold {
			return PointsPerSale
		}
	}
	return 0
}

// Summarize reduces the user's events over the trailing window. The window
// lower bound is inclusive: an event exactly windowDays old is counted. An
// empty window yields a zero Summary.
func (s *Service) Summarize(ctx context.Context, userID string, windowDays int) (Summary, error) {
	if windowDays <= 0 {
		return Summary{}, fmt.Errorf("%w: window must be a positive number of days", ErrValidation)
	}
	since := s.now().Add(-time.Duration(windowDays) * 24 * time.Hour)
	events, err := s.repo.EventsSince(ctx, userID, since)
	if err != nil {
		return Summary{}, err
	}
	return Reduce(events), nil
}

// PointsBalance reads the cumulative point balance.
func (s *Service) PointsBalance(ctx context.Context, userID string) (int64, error) {
	return s.repo.PointsBalance(ctx, userID)
}

// ListEvents pages through the user's event log, newest first.
func (s *Service) ListEvents(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Event, *Cursor, error) {
	return s.repo.ListEvents(ctx, userID, cursor, limit)
}

// CreateGoalInput captures a new goal definition.
type CreateGoalInput struct {
	UserID      string
	Title       string
	Reward      string
	SportMin    int
	BusinessMin int
	SalesMin    int
	SpiritMin   int
	PointsMin   int64
	Deadline    time.Time
}

// CreateGoal validates and stores a goal. Goals are immutable once created.
func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (*Goal, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Deadline.IsZero() {
		return nil, fmt.Errorf("%w: deadline is required", ErrValidation)
	}
	if input.SportMin < 0 || input.BusinessMin < 0 || input.SalesMin < 0 || input.SpiritMin < 0 || input.PointsMin < 0 {
		return nil, fmt.Errorf("%w: thresholds must not be negative", ErrValidation)
	}

	if _, err := s.repo.EnsureSettings(ctx, input.UserID); err != nil {
		return nil, err
	}

	goal := Goal{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       input.Title,
		Reward:      input.Reward,
		SportMin:    input.SportMin,
		BusinessMin: input.BusinessMin,
		SalesMin:    input.SalesMin,
		SpiritMin:   input.SpiritMin,
		PointsMin:   input.PointsMin,
		Deadline:    input.Deadline.UTC(),
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// EvaluateGoals checks every stored goal of the user at the given instant.
// A goal past its deadline plus the grace period is expired and appears in
// neither list. Progress is measured over [created_at, deadline]; the points
// dimension is the cumulative balance at evaluation time.
func (s *Service) EvaluateGoals(ctx context.Context, userID string, at time.Time) (GoalEvaluation, error) {
	goals, err := s.repo.GoalsByUser(ctx, userID)
	if err != nil {
		return GoalEvaluation{}, err
	}

	var result GoalEvaluation
	if len(goals) == 0 {
		return result, nil
	}

	balance, err := s.repo.PointsBalance(ctx, userID)
	if err != nil {
		return GoalEvaluation{}, err
	}

	for _, goal := range goals {
		if at.After(goal.Deadline.Add(GracePeriod)) {
			continue
		}
		events, err := s.repo.EventsBetween(ctx, userID, goal.CreatedAt, goal.Deadline)
		if err != nil {
			return GoalEvaluation{}, err
		}
		ok, missing := goal.met(progress(events, balance))
		if ok {
			result.Eligible = append(result.Eligible, goal)
		} else {
			result.Pending = append(result.Pending, PendingGoal{Goal: goal, Shortfalls: missing})
		}
	}
	return result, nil
}

// SetupActivityTypes replaces the user's activity types with the named set.
// Schedule entries referencing a removed type are dropped along with it.
func (s *Service) SetupActivityTypes(ctx context.Context, userID string, names []string) ([]ActivityType, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one activity type is required", ErrValidation)
	}
	seen := make(map[string]struct{}, len(names))
	types := make([]ActivityType, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: activity type names must not be empty", ErrValidation)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate activity type %q", ErrValidation, name)
		}
		seen[name] = struct{}{}
		types = append(types, ActivityType{ID: uuid.NewString(), UserID: userID, Name: name})
	}

	if _, err := s.repo.EnsureSettings(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceActivityTypes(ctx, userID, types); err != nil {
		return nil, err
	}
	return types, nil
}

// ActivityTypes lists the user's activity types.
func (s *Service) ActivityTypes(ctx context.Context, userID string) ([]ActivityType, error) {
	return s.repo.ActivityTypesByUser(ctx, userID)
}

// ScheduleEntryInput is one reminder slot as submitted by the user.
type ScheduleEntryInput struct {
	TypeID    string
	DayOfWeek int
	TimeOfDay string
}

// SetSchedule replaces the user's reminder schedule. Every entry must
// reference one of the user's activity types.
func (s *Service) SetSchedule(ctx context.Context, userID string, inputs []ScheduleEntryInput) ([]ScheduleEntry, error) {
	types, err := s.repo.ActivityTypesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(types))
	for _, t := range types {
		known[t.ID] = struct{}{}
	}

	entries := make([]ScheduleEntry, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := known[in.TypeID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownActivityType, in.TypeID)
		}
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: day of week must be 0..6", ErrValidation)
		}
		if _, _, err := ParseTimeOfDay(in.TimeOfDay); err != nil {
			return nil, err
		}
		entries = append(entries, ScheduleEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			TypeID:    in.TypeID,
			DayOfWeek: in.DayOfWeek,
			TimeOfDay: in.TimeOfDay,
		})
	}

	if err := s.repo.ReplaceSchedule(ctx, userID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ScheduleSlots returns the user's schedule joined with activity type names,
// ready for reminder registration.
func (s *Service) ScheduleSlots(ctx context.Context, userID string) ([]ScheduleSlot, error) {
	entries, err := s.repo.ScheduleByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	types, err := s.repo.ActivityTypesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	slots := make([]ScheduleSlot, 0, len(entries))
	for _, e := range entries {
		slots = append(slots, ScheduleSlot{
			ActivityName: names[e.TypeID],
			DayOfWeek:    e.DayOfWeek,
			TimeOfDay:    e.TimeOfDay,
		})
	}
	return slots, nil
}

// UpdateSettingsInput patches per-user settings; nil fields are left as-is.
type UpdateSettingsInput struct {
	Timezone      *string
	SaleThreshold *int64
	NotifyEnabled *bool
}

// Settings returns the user's settings, creating defaults on first contact.
func (s *Service) Settings(ctx context.Context, userID string) (Settings, error) {
	return s.repo.EnsureSettings(ctx, userID)
}

// UpdateSettings applies a settings patch. Timezones are validated against
// the IANA database; sale thresholds must not be negative.
func (s *Service) UpdateSettings(ctx context.Context, userID string, input UpdateSettingsInput) (Settings, error) {
	settings, err := s.repo.EnsureSettings(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return Settings{}, fmt.Errorf("%w: unknown timezone %q", ErrValidation, *input.Timezone)
		}
		settings.Timezone = *input.Timezone
	}
	if input.SaleThreshold != nil {
		if *input.SaleThreshold < 0 {
			return Settings{}, fmt.Errorf("%w: sale threshold must not be negative", ErrValidation)
		}
		settings.SaleThreshold = *input.SaleThreshold
	}
	if input.NotifyEnabled != nil {
		settings.NotifyEnabled = *input.NotifyEnabled
	}
	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// NotifiableUsers lists the settings of every user with notifications on,
// used to rebuild scheduler state at startup.
func (s *Service) NotifiableUsers(ctx context.Context) ([]Settings, error) {
	return s.repo.NotifiableSettings(ctx)
}

// Report bundles the aggregates a weekly report is rendered from.
type Report struct {
	Week   Summary
	Month  Summary
	Points int64
}

// BuildReport computes the 7-day and 30-day summaries plus the current
// points balance.
func (s *Service) BuildReport(ctx context.Context, userID string) (Report, error) {
	week, err := s.Summarize(ctx, userID, 7)
	if err != nil {
		return Report{}, err
	}
	month, err := s.Summarize(ctx, userID, 30)
	if err != nil {
		return Report{}, err
	}
	points, err := s.repo.PointsBalance(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	return Report{Week: week, Month: month, Points: points}, nil
}

// ParseTimeOfDay validates an "HH:MM" wall-clock string and returns its
// components.
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	parsed, parseErr := time.Parse("15:04", value)
	if parseErr != nil {
		return 0, 0, fmt.Errorf("%w: time of day must be HH:MM, got %q", ErrValidation, value)
	}
	return parsed.Hour(), parsed.Minute(), nil
}
