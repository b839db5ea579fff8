package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

var (
	sharedOnce    sync.Once
	sharedInitErr error
	sharedCtr     *tcpostgres.PostgresContainer
	sharedPool    *pgxpool.Pool
)

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "migrations")
}

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedCtr != nil {
		_ = testcontainers.TerminateContainer(sharedCtr)
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("eventplanner"),
			tcpostgres.WithUsername("eventplanner"),
			tcpostgres.WithPassword("eventplanner"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			sharedInitErr = err
			return
		}
		sharedCtr = container
		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		if err := RunMigrations(dsn, migrationsDir(), logger); err != nil {
			sharedInitErr = err
			return
		}
		sharedPool, sharedInitErr = NewPool(ctx, PoolOptions{DSN: dsn, AppName: "eventplanner-test", MaxConns: 5, MinConns: 1, MaxConnLifetime: time.Hour})
	})
	if sharedInitErr != nil {
		t.Skipf("postgres container unavailable: %v", sharedInitErr)
	}

	_, err := sharedPool.Exec(context.Background(), `TRUNCATE events, users CASCADE`)
	require.NoError(t, err)
	return sharedPool
}

func TestUserRepositoryPostgres(t *testing.T) {
	pool := setupPostgres(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	u := &entity.User{Name: "Alice", LastName: "L", Email: "alice@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	dup := &entity.User{Name: "A", LastName: "L", Email: "alice@x.com", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), entity.ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestEventRepositoryPostgres(t *testing.T) {
	pool := setupPostgres(t)
	users := NewUserRepository(pool)
	repo := NewEventRepository(pool)
	ctx := context.Background()

	owner := &entity.User{Name: "Alice", LastName: "L", Email: "alice@x.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, owner))
	other := &entity.User{Name: "Bob", LastName: "B", Email: "bob@x.com", PasswordHash: "h"}
	require.NoError(t, users.Create(ctx, other))

	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	var ids []string
	for _, name := range []string{"first", "second"} {
		e := &entity.Event{Name: name, Date: date, Time: "20:00", Location: "Home", Description: "d", OwnerID: owner.ID}
		require.NoError(t, repo.Create(ctx, e))
		ids = append(ids, e.ID)
	}
	require.NoError(t, repo.Create(ctx, &entity.Event{Name: "bob", Date: date, Time: "10:00", Location: "x", Description: "y", OwnerID: other.ID}))

	list, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.True(t, date.Equal(list[0].Date))

	e, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	e.Location = "Beach"
	require.NoError(t, repo.Update(ctx, e))
	got, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Beach", got.Location)
	assert.Equal(t, owner.ID, got.OwnerID)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), entity.ErrEventNotFound)
	_, err = repo.GetByID(ctx, ids[0])
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
	_, err = repo.GetByID(ctx, "bogus")
	assert.ErrorIs(t, err, entity.ErrEventNotFound)

	empty, err := repo.ListByOwner(ctx, "bogus")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
