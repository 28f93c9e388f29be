package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reeltalk/reeltalk/internal/db"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"gorm.io/gorm"
)

// QueryTool runs a read-only SQL query against the movie database.
type QueryTool struct {
	db      *gorm.DB
	logger  *slog.Logger
	metrics *metrics.Collector
}

// Name implements tools.Tool.
func (t QueryTool) Name() string {
	return "sql_query"
}

// Description implements tools.Tool.
func (t QueryTool) Description() string {
	return "Executes a read-only SQL SELECT query against the movie database " +
		"and returns the result rows. Input is a single SQLite SELECT statement. " +
		"Inspect table schemas with table_schema before querying."
}

// Call implements tools.Tool. Query errors (bad SQL, rejected statements)
// are returned as observations so the agent can rewrite the query.
func (t QueryTool) Call(ctx context.Context, input string) (string, error) {
	start := time.Now()

	result, err := db.RunReadOnly(t.db, input)
	if err != nil {
		t.metrics.RecordError(metrics.OpDBQuery, time.Since(start))
		t.logger.Warn("sql_query tool rejected query", "error", err)
		return fmt.Sprintf("query failed: %v", err), nil
	}

	t.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start))
	t.logger.Debug("sql_query tool", "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
