package domain

import (
	"context"
	"time"
)

// Repository captures the persistence operations the progress engine depends
// on. Implementations must make AppendEvent durable before returning and
// AwardPoints an atomic increment.
type Repository interface {
	// Events. EventsSince returns events with created_at >= since, ordered
	// ascending; EventsBetween bounds both ends inclusively.
	AppendEvent(ctx context.Context, event Event) error
	EventsSince(ctx context.Context, userID string, since time.Time) ([]Event, error)
	EventsBetween(ctx context.Context, userID string, from, to time.Time) ([]Event, error)
	ListEvents(ctx context.Context, userID string, cursor *Cursor, limit int) ([]Event, *Cursor, error)

	// Points ledger.
	AwardPoints(ctx context.Context, userID string, points int64) error
	PointsBalance(ctx context.Context, userID string) (int64, error)

	// Goals.
	CreateGoal(ctx context.Context, goal Goal) error
	GoalsByUser(ctx context.Context, userID string) ([]Goal, error)

	// Activity types and reminder schedule. Replace operations swap the
	// full set in one transaction; replacing activity types cascades into
	// schedule entries that referenced a removed type.
	ReplaceActivityTypes(ctx context.Context, userID string, types []ActivityType) error
	ActivityTypesByUser(ctx context.Context, userID string) ([]ActivityType, error)
	ReplaceSchedule(ctx context.Context, userID string, entries []ScheduleEntry) error
	ScheduleByUser(ctx context.Context, userID string) ([]ScheduleEntry, error)

	// Per-user settings. EnsureSettings creates the row with defaults on
	// first contact and returns the current values.
	EnsureSettings(ctx context.Context, userID string) (Settings, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	NotifiableSettings(ctx context.Context) ([]Settings, error)
}
