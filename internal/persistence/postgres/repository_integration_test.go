//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/progress/internal/domain"
)

func startRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("progress"),
		postgrescontainer.WithUsername("progress"),
		postgrescontainer.WithPassword("progress"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewRepository(pool)
}

func TestEventWindowsAreInclusive(t *testing.T) {
	ctx := context.Background()
	repo := startRepository(t, ctx)

	userID := uuid.NewString()
	_, err := repo.EnsureSettings(ctx, userID)
	require.NoError(t, err)

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(-time.Second),
		base,
		base.Add(time.Hour),
		base.Add(48 * time.Hour),
	}
	for _, ts := range stamps {
		require.NoError(t, repo.AppendEvent(ctx, domain.Event{
			ID:        uuid.NewString(),
			UserID:    userID,
			Kind:      domain.EventSport,
			CreatedAt: ts,
		}))
	}

	since, err := repo.EventsSince(ctx, userID, base)
	require.NoError(t, err)
	require.Len(t, since, 3)
	require.Equal(t, base, since[0].CreatedAt.UTC())

	between, err := repo.EventsBetween(ctx, userID, base, base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 3)
	require.Equal(t, base.Add(48*time.Hour), between[2].CreatedAt.UTC())
}

func TestListEventsPagination(t *testing.T) {
	ctx := context.Background()
	repo := startRepository(t, ctx)

	userID := uuid.NewString()
	_, err := repo.EnsureSettings(ctx, userID)
	require.NoError(t, err)

	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendEvent(ctx, domain.Event{
			ID:        uuid.NewString(),
			UserID:    userID,
			Kind:      domain.EventCash,
			Value:     int64(i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	first, cursor, err := repo.ListEvents(ctx, userID, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, cursor)
	require.Equal(t, int64(5), first[0].Value)

	second, cursor, err := repo.ListEvents(ctx, userID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.NotNil(t, cursor)
	require.Equal(t, int64(3), second[0].Value)

	last, cursor, err := repo.ListEvents(ctx, userID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Nil(t, cursor)
	require.Equal(t, int64(1), last[0].Value)
}

func TestAwardPointsAccumulatesUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := startRepository(t, ctx)

	userID := uuid.NewString()
	_, err := repo.EnsureSettings(ctx, userID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.AwardPoints(ctx, userID, 2)
		}()
	}
	wg.Wait()

	balance, err := repo.PointsBalance(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(40), balance)

	missing, err := repo.PointsBalance(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Zero(t, missing)
}

func TestReplaceActivityTypesCascadesIntoSchedule(t *testing.T) {
	ctx := context.Background()
	repo := startRepository(t, ctx)

	userID := uuid.NewString()
	_, err := repo.EnsureSettings(ctx, userID)
	require.NoError(t, err)

	gym := domain.ActivityType{ID: uuid.NewString(), UserID: userID, Name: "gym"}
	pool := domain.ActivityType{ID: uuid.NewString(), UserID: userID, Name: "pool"}
	require.NoError(t, repo.ReplaceActivityTypes(ctx, userID, []domain.ActivityType{gym, pool}))

	require.NoError(t, repo.ReplaceSchedule(ctx, userID, []domain.ScheduleEntry{
		{ID: uuid.NewString(), UserID: userID, TypeID: gym.ID, DayOfWeek: 1, TimeOfDay: "19:00"},
		{ID: uuid.NewString(), UserID: userID, TypeID: pool.ID, DayOfWeek: 3, TimeOfDay: "07:30"},
	}))

	// Replacing the type set removes both old types; the cascade must take
	// the schedule entries with them.
	run := domain.ActivityType{ID: uuid.NewString(), UserID: userID, Name: "run"}
	require.NoError(t, repo.ReplaceActivityTypes(ctx, userID, []domain.ActivityType{run}))

	entries, err := repo.ScheduleByUser(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, entries)

	types, err := repo.ActivityTypesByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Equal(t, "run", types[0].Name)
}

func TestEnsureSettingsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := startRepository(t, ctx)

	userID := uuid.NewString()
	settings, err := repo.EnsureSettings(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Asia/Yekaterinburg", settings.Timezone)
	require.True(t, settings.NotifyEnabled)
	require.Zero(t, settings.SaleThreshold)

	settings.NotifyEnabled = false
	settings.SaleThreshold = 100000
	require.NoError(t, repo.UpdateSettings(ctx, settings))

	// EnsureSettings on an existing row must not reset anything.
	settings, err = repo.EnsureSettings(ctx, userID)
	require.NoError(t, err)
	require.False(t, settings.NotifyEnabled)
	require.Equal(t, int64(100000), settings.SaleThreshold)

	notifiable, err := repo.NotifiableSettings(ctx)
	require.NoError(t, err)
	for _, s := range notifiable {
		require.NotEqual(t, userID, s.UserID)
	}
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
