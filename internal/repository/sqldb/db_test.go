package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/config"
)

func TestDataSource(t *testing.T) {
	t.Run("sqlite memory", func(t *testing.T) {
		driver, dsn, err := dataSource(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", driver)
		assert.Equal(t, ":memory:", dsn)
	})

	t.Run("sqlite file gets pragmas", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "rivr.db")
		driver, dsn, err := dataSource(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", driver)
		assert.Contains(t, dsn, "file:"+path)
		assert.Contains(t, dsn, "busy_timeout(5000)")
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		_, _, err := dataSource(&config.DatabaseConfig{Driver: config.DriverSQLite})
		assert.Error(t, err)
	})

	t.Run("pgx", func(t *testing.T) {
		driver, dsn, err := dataSource(&config.DatabaseConfig{
			Driver: config.DriverPgx, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "rivr", SSLMode: "disable",
		})
		require.NoError(t, err)
		assert.Equal(t, "pgx", driver)
		assert.Equal(t, "host=db port=5432 user=u password=p dbname=rivr sslmode=disable", dsn)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := dataSource(&config.DatabaseConfig{Driver: "mysql"})
		assert.Error(t, err)
	})
}

func TestNew_SQLiteFileAndMigrate(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "rivr.db"),
	}

	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Health(ctx))
	require.NoError(t, db.Migrate(ctx))
	// повторный прогон миграций безопасен
	require.NoError(t, db.Migrate(ctx))

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	assert.Equal(t, []string{"favorites", "station_cache", "station_names"}, tables)
}
