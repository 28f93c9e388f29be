// Package tools implements the read-only SQL tools the answer agent uses to
// consult the movie database.
package tools

import (
	"log/slog"

	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/tmc/langchaingo/tools"
	"gorm.io/gorm"
)

// SQLTools returns the toolset for the answer agent: list tables, inspect
// schemas and run read-only queries.
func SQLTools(db *gorm.DB, logger *slog.Logger, collector *metrics.Collector) []tools.Tool {
	return []tools.Tool{
		ListTablesTool{db: db, logger: logger},
		TableSchemaTool{db: db, logger: logger},
		QueryTool{db: db, logger: logger, metrics: collector},
	}
}
