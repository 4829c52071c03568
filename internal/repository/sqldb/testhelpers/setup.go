package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"

	"github.com/rivr-station-service/internal/repository/sqldb"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqldb.DB
	Logger *zap.Logger
}

// SetupTestDB открывает тестовую БД и применяет миграции.
// По умолчанию используется SQLite в памяти; TEST_DB_DRIVER=postgres
// переключает на PostgreSQL из TEST_DB_* переменных.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	logger := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	var (
		db  *sqlx.DB
		err error
	)
	switch driver := getEnv("TEST_DB_DRIVER", "sqlite"); driver {
	case "sqlite":
		db, err = sqlx.Connect("sqlite", ":memory:")
		if err == nil {
			// :memory: живёт в пределах одного соединения
			db.SetMaxOpenConns(1)
		}
	case "postgres":
		db, err = connectPostgres(t)
	default:
		t.Fatalf("Unsupported TEST_DB_DRIVER %q", driver)
	}
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	tdb := &TestDB{
		DB:     sqldb.NewDBForTest(db, logger),
		Logger: logger,
	}

	if err := tdb.DB.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return tdb
}

func connectPostgres(t *testing.T) (*sqlx.DB, error) {
	port, _ := strconv.Atoi(getEnv("TEST_DB_PORT", "5433"))
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		getEnv("TEST_DB_HOST", "localhost"),
		port,
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "rivr_test"),
		getEnv("TEST_DB_SSLMODE", "disable"),
	)

	// Retry connection with exponential backoff to wait for DB recovery
	var (
		db  *sqlx.DB
		err error
	)
	maxRetries := 5
	retryDelay := 500 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			return db, nil
		}
		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}
	return nil, err
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.DB.Close()
	}
}

// Cleanup удаляет данные из всех таблиц
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	for _, table := range []string{"station_cache", "station_names", "favorites"} {
		if _, err := tdb.DB.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("cleanup %s: %w", table, err)
		}
	}
	return nil
}

// InsertRawStationPayload пишет api_data как есть, минуя сериализацию
func (tdb *TestDB) InsertRawStationPayload(ctx context.Context, stationID int64, apiData string, cachedAt time.Time) error {
	_, err := tdb.DB.ExecContext(ctx,
		tdb.DB.Rebind(`INSERT INTO station_cache (station_id, api_data, cached_at) VALUES (?, ?, ?)`),
		stationID, apiData, cachedAt.UTC(),
	)
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
