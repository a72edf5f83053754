//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/codepulse/internal/iocache"
	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns a connection string usable by both
// the record store and golang-migrate.
func startMySQL(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "codepulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/codepulse?parseTime=true&multiStatements=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

// exerciseRecordStore runs the store contract against a live database.
func exerciseRecordStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	ctx := context.Background()

	require.NoError(t, iocache.MigrateStore(backend, connStr, -1))

	store, err := iocache.NewRecordStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	first := schema.NewDailyRecord("2026-03-09", 5400)
	first.Languages = []schema.BreakdownEntry{{Name: "Go", TotalSeconds: 5400, Percent: 100}}
	require.NoError(t, store.Upsert(ctx, "akshay", first))
	require.NoError(t, store.Upsert(ctx, "akshay", schema.NewDailyRecord("2026-03-10", 60)))
	require.NoError(t, store.Upsert(ctx, "teammate", schema.NewDailyRecord("2026-03-10", 120)))

	// Replacing keeps a single row per user and date
	replaced := schema.NewDailyRecord("2026-03-10", 1800)
	require.NoError(t, store.Upsert(ctx, "akshay", replaced))

	records, err := store.FindByRange(ctx, "akshay", "", "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-03-09", records[0].Date)
	assert.Equal(t, "Go", records[0].Languages[0].Name)
	assert.Equal(t, int64(1800), records[1].TotalSeconds)
	assert.Equal(t, "0 hrs 30 mins", records[1].Text)

	byDates, err := store.FindByDates(ctx, "akshay", []string{"2026-03-10", "2026-03-11"})
	require.NoError(t, err)
	require.Len(t, byDates, 1)

	runID, err := store.BeginIngest(ctx, "akshay", schema.SyncSource, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.EndIngest(ctx, runID, time.Now(), []string{"2026-03-09"}, []string{"2026-03-10"}, nil))

	runs, err := store.GetAllIngestRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"2026-03-10"}, runs[0].DatesFailed)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 3, status.TotalRecords)
	assert.Equal(t, 2, status.TotalUsers)
}

// TestRecordStoreWithMySQL exercises the store and the CLI with a MySQL backend.
func TestRecordStoreWithMySQL(t *testing.T) {
	ctx := context.Background()
	connStr := startMySQL(t, ctx)

	exerciseRecordStore(t, schema.MySQLBackend, connStr)

	env := map[string]string{
		"CODEPULSE_STORE_BACKEND":    "mysql",
		"CODEPULSE_STORE_DB_CONNECT": connStr,
		"CODEPULSE_USER":             "akshay",
		"CODEPULSE_TODAY":            "2026-03-10",
		"CODEPULSE_TIMEZONE":         "UTC",
	}
	out, err := runCodepulse(t, env, "summaries", "--interval", "alltime", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-09,5400")

	out, err = runCodepulse(t, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Records: 3")

	_, err = runCodepulse(t, env, "store", "clear")
	require.NoError(t, err)
}

// TestRecordStoreWithPostgres exercises the store and the CLI with a PostgreSQL backend.
func TestRecordStoreWithPostgres(t *testing.T) {
	ctx := context.Background()
	connStr := startPostgres(t, ctx)

	exerciseRecordStore(t, schema.PostgreSQLBackend, connStr)

	env := map[string]string{
		"CODEPULSE_STORE_BACKEND":    "postgresql",
		"CODEPULSE_STORE_DB_CONNECT": connStr,
		"CODEPULSE_USER":             "akshay",
		"CODEPULSE_TODAY":            "2026-03-10",
		"CODEPULSE_TIMEZONE":         "UTC",
	}
	out, err := runCodepulse(t, env, "weekly", "--tracking-start", "2026-03-04", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "weekly,Mar 04 - Mar 10")

	out, err = runCodepulse(t, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Ingest Runs: 1")

	_, err = runCodepulse(t, env, "store", "clear")
	require.NoError(t, err)
}
