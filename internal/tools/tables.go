package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reeltalk/reeltalk/internal/db"
	"gorm.io/gorm"
)

// ListTablesTool returns the names of the tables in the movie database.
type ListTablesTool struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Name implements tools.Tool.
func (t ListTablesTool) Name() string {
	return "list_tables"
}

// Description implements tools.Tool.
func (t ListTablesTool) Description() string {
	return "Lists the tables available in the movie database. " +
		"Input is ignored. Output is a comma-separated list of table names."
}

// Call implements tools.Tool. Failures are returned as observations so the
// agent can react instead of aborting the run.
func (t ListTablesTool) Call(ctx context.Context, _ string) (string, error) {
	tables, err := db.ListTables(t.db)
	if err != nil {
		t.logger.Error("list_tables tool failed", "error", err)
		return fmt.Sprintf("listing tables failed: %v", err), nil
	}

	t.logger.Debug("list_tables tool", "count", len(tables))
	return strings.Join(tables, ", "), nil
}
