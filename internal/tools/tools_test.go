package tools

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/reeltalk/reeltalk/internal/db"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/reeltalk/reeltalk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	require.NoError(t, gdb.Create(&models.Genre{GenreID: 0, Name: "Action"}).Error)
	require.NoError(t, gdb.Create(&models.User{UserID: 1, Age: 30, Gender: "F"}).Error)
	require.NoError(t, gdb.Create(&models.Movie{MovieID: 1, Title: "GoldenEye (1995)"}).Error)
	require.NoError(t, gdb.Create(&models.Rating{UserID: 1, MovieID: 1, Rating: 4, Timestamp: 874965758}).Error)
	return gdb
}

func TestSQLToolsSet(t *testing.T) {
	set := SQLTools(testDB(t), testLogger(), metrics.NewCollector())
	require.Len(t, set, 3)

	names := make(map[string]bool)
	for _, tool := range set {
		names[tool.Name()] = true
		assert.NotEmpty(t, tool.Description())
	}
	assert.True(t, names["list_tables"])
	assert.True(t, names["table_schema"])
	assert.True(t, names["sql_query"])
}

func TestListTablesTool(t *testing.T) {
	tool := ListTablesTool{db: testDB(t), logger: testLogger()}

	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "movies")
	assert.Contains(t, out, "ratings")
}

func TestTableSchemaTool(t *testing.T) {
	tool := TableSchemaTool{db: testDB(t), logger: testLogger()}

	out, err := tool.Call(context.Background(), "movies, ratings")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE")
	assert.Contains(t, out, "movies")

	out, err = tool.Call(context.Background(), "   ")
	require.NoError(t, err)
	assert.Contains(t, out, "no table names given")
}

func TestQueryTool(t *testing.T) {
	collector := metrics.NewCollector()
	tool := QueryTool{db: testDB(t), logger: testLogger(), metrics: collector}

	out, err := tool.Call(context.Background(), "SELECT title FROM movies")
	require.NoError(t, err)
	assert.Contains(t, out, "GoldenEye (1995)")

	// Mutations come back as observations, not hard errors.
	out, err = tool.Call(context.Background(), "DELETE FROM movies")
	require.NoError(t, err)
	assert.Contains(t, out, "query failed")

	snap := collector.Snapshot()
	require.NotNil(t, snap.DBQuery)
	assert.Equal(t, int64(2), snap.DBQuery.Count)
	assert.Equal(t, int64(1), snap.DBQuery.Errors)
}
