package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/progress/internal/domain"
	"example.com/progress/internal/observability"
)

// Repository provides Postgres-backed persistence for the progress engine.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `event_id, user_id, kind, value, COALESCE(type_ref, ''), created_at`

// AppendEvent durably persists one event. The write is committed before the
// call returns, so it is visible to any subsequent query.
func (r *Repository) AppendEvent(ctx context.Context, event domain.Event) error {
	const stmt = `INSERT INTO events (event_id, user_id, kind, value, type_ref, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.UserID,
		string(event.Kind),
		event.Value,
		nullIfEmpty(event.TypeRef),
		event.CreatedAt,
	)
	if err != nil {
		return err
	}
	observability.RecordEventAppended(event.CreatedAt)
	return nil
}

// EventsSince returns the user's events with created_at >= since, ordered by
// timestamp ascending.
func (r *Repository) EventsSince(ctx context.Context, userID string, since time.Time) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + `
        FROM events WHERE user_id=$1 AND created_at >= $2
        ORDER BY created_at ASC, event_id ASC`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// EventsBetween returns the user's events inside [from, to], both bounds
// inclusive, ordered by timestamp ascending.
func (r *Repository) EventsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + `
        FROM events WHERE user_id=$1 AND created_at >= $2 AND created_at <= $3
        ORDER BY created_at ASC, event_id ASC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListEvents pages through the user's events, newest first.
func (r *Repository) ListEvents(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.Event, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (created_at, event_id) < ($3, $4)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, event_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(events) == limit && limit > 0 {
		last := events[len(events)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return events, next, nil
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var ev domain.Event
		var kind string
		if err := rows.Scan(&ev.ID, &ev.UserID, &kind, &ev.Value, &ev.TypeRef, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Kind = domain.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// AwardPoints atomically adds to the user's balance. The increment happens
// inside the database, so concurrent awards cannot race.
func (r *Repository) AwardPoints(ctx context.Context, userID string, points int64) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive", domain.ErrValidation)
	}
	const stmt = `INSERT INTO points_balances (user_id, value) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET value = points_balances.value + EXCLUDED.value`

	_, err := r.pool.Exec(ctx, stmt, userID, points)
	return err
}

// PointsBalance reads the cumulative balance; users without a row have zero.
func (r *Repository) PointsBalance(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT value FROM points_balances WHERE user_id=$1`

	var value int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}

// CreateGoal stores a goal definition.
func (r *Repository) CreateGoal(ctx context.Context, goal domain.Goal) error {
	const stmt = `INSERT INTO goals (goal_id, user_id, title, reward, sport_min, business_min, sales_min, spirit_min, points_min, deadline, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := r.pool.Exec(ctx, stmt,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Reward,
		goal.SportMin,
		goal.BusinessMin,
		goal.SalesMin,
		goal.SpiritMin,
		goal.PointsMin,
		goal.Deadline,
		goal.CreatedAt,
	)
	return err
}

// GoalsByUser lists the user's goals, oldest first.
func (r *Repository) GoalsByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	const query = `SELECT goal_id, user_id, title, reward, sport_min, business_min, sales_min, spirit_min, points_min, deadline, created_at
        FROM goals WHERE user_id=$1 ORDER BY created_at ASC, goal_id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Reward, &g.SportMin, &g.BusinessMin, &g.SalesMin, &g.SpiritMin, &g.PointsMin, &g.Deadline, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

// ReplaceActivityTypes swaps the user's full activity-type set in one
// transaction. Schedule entries referencing removed types are dropped by the
// foreign-key cascade.
func (r *Repository) ReplaceActivityTypes(ctx context.Context, userID string, types []domain.ActivityType) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM activity_types WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, t := range types {
		if _, err = tx.Exec(ctx, `INSERT INTO activity_types (type_id, user_id, name) VALUES ($1,$2,$3)`, t.ID, t.UserID, t.Name); err != nil {
			return err
		}
	}
	err = tx.Commit(ctx)
	return err
}

// ActivityTypesByUser lists the user's activity types.
func (r *Repository) ActivityTypesByUser(ctx context.Context, userID string) ([]domain.ActivityType, error) {
	const query = `SELECT type_id, user_id, name FROM activity_types WHERE user_id=$1 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.ActivityType
	for rows.Next() {
		var t domain.ActivityType
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

// ReplaceSchedule swaps the user's full reminder schedule in one
// transaction.
func (r *Repository) ReplaceSchedule(ctx context.Context, userID string, entries []domain.ScheduleEntry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM schedule_entries WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err = tx.Exec(ctx,
			`INSERT INTO schedule_entries (entry_id, user_id, type_id, dow, at_time) VALUES ($1,$2,$3,$4,$5)`,
			e.ID, e.UserID, e.TypeID, e.DayOfWeek, e.TimeOfDay); err != nil {
			return err
		}
	}
	err = tx.Commit(ctx)
	return err
}

// ScheduleByUser lists the user's schedule entries.
func (r *Repository) ScheduleByUser(ctx context.Context, userID string) ([]domain.ScheduleEntry, error) {
	const query = `SELECT entry_id, user_id, type_id, dow, at_time
        FROM schedule_entries WHERE user_id=$1 ORDER BY dow ASC, at_time ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.TypeID, &e.DayOfWeek, &e.TimeOfDay); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureSettings creates the user's settings row with defaults on first
// contact and returns the current values.
func (r *Repository) EnsureSettings(ctx context.Context, userID string) (domain.Settings, error) {
	const insert = `INSERT INTO users (user_id, created_at) VALUES ($1, $2)
        ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insert, userID, time.Now().UTC()); err != nil {
		return domain.Settings{}, err
	}
	return r.settings(ctx, userID)
}

func (r *Repository) settings(ctx context.Context, userID string) (domain.Settings, error) {
	const query = `SELECT user_id, tz, notify, sale_threshold, created_at FROM users WHERE user_id=$1`

	var s domain.Settings
	err := r.pool.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Timezone, &s.NotifyEnabled, &s.SaleThreshold, &s.CreatedAt)
	if err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// UpdateSettings persists the full settings row.
func (r *Repository) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	const stmt = `UPDATE users SET tz=$2, notify=$3, sale_threshold=$4 WHERE user_id=$1`

	_, err := r.pool.Exec(ctx, stmt, settings.UserID, settings.Timezone, settings.NotifyEnabled, settings.SaleThreshold)
	return err
}

// NotifiableSettings lists every user with notifications enabled.
func (r *Repository) NotifiableSettings(ctx context.Context) ([]domain.Settings, error) {
	const query = `SELECT user_id, tz, notify, sale_threshold, created_at FROM users WHERE notify ORDER BY user_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []domain.Settings
	for rows.Next() {
		var s domain.Settings
		if err := rows.Scan(&s.UserID, &s.Timezone, &s.NotifyEnabled, &s.SaleThreshold, &s.CreatedAt); err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
