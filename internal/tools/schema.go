package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reeltalk/reeltalk/internal/db"
	"gorm.io/gorm"
)

// TableSchemaTool returns CREATE TABLE statements for requested tables.
type TableSchemaTool struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Name implements tools.Tool.
func (t TableSchemaTool) Name() string {
	return "table_schema"
}

// Description implements tools.Tool.
func (t TableSchemaTool) Description() string {
	return "Shows the SQL schema of the given tables. " +
		"Input is a comma-separated list of table names, e.g. 'movies, ratings'. " +
		"Output is the CREATE TABLE statement for each table."
}

// Call implements tools.Tool.
func (t TableSchemaTool) Call(ctx context.Context, input string) (string, error) {
	var tables []string
	for _, name := range strings.Split(input, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tables = append(tables, name)
		}
	}
	if len(tables) == 0 {
		return "no table names given; input must be a comma-separated list of table names", nil
	}

	schema, err := db.TableSchema(t.db, tables)
	if err != nil {
		t.logger.Error("table_schema tool failed", "error", err)
		return fmt.Sprintf("fetching schema failed: %v", err), nil
	}

	t.logger.Debug("table_schema tool", "tables", tables)
	return schema, nil
}
