package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studytracker-api/pkg/config"
)

func TestDSN(t *testing.T) {
	driver, dsn, err := DSN(config.DatabaseConfig{
		Driver: config.DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Name: "study", SSLMode: "disable",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=study sslmode=disable", dsn)

	driver, dsn, err = DSN(config.DatabaseConfig{Driver: config.DriverSQLite, Path: "/tmp/study.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", driver)
	assert.Contains(t, dsn, "file:/tmp/study.db")

	_, _, err = DSN(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateSQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: t.TempDir() + "/study.db"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db.DB, db.DriverName()))

	version, err := Version(db.DB, db.DriverName())
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM study_sessions"))
	assert.Zero(t, count)

	require.NoError(t, Rollback(db.DB, db.DriverName()))
	version, err = Version(db.DB, db.DriverName())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestMigrateUnknownDriver(t *testing.T) {
	assert.Error(t, Migrate(nil, "mysql"))
}
