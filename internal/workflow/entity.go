package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reeltalk/reeltalk/internal/metrics"
)

// EntityExtractor pulls structured movie fields out of the query.
type EntityExtractor struct {
	caller  StructuredCaller
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewEntityExtractor creates the entity extraction stage.
func NewEntityExtractor(caller StructuredCaller, logger *slog.Logger, collector *metrics.Collector) *EntityExtractor {
	return &EntityExtractor{caller: caller, logger: logger, metrics: collector}
}

// Extract runs entity extraction. Calling it before intent classification is
// an ordering violation recorded as a stage error; the model is not invoked.
func (e *EntityExtractor) Extract(ctx context.Context, st State) State {
	if st.Intent == nil {
		e.logger.Error("entity extraction invoked before intent classification")
		st.Err = "entity extraction failed: intent must be classified before entity extraction"
		return st
	}

	start := time.Now()
	e.logger.Debug("extracting entities", "query", st.Query, "intent", st.Intent.Intent)

	userPrompt := fmt.Sprintf("%s\n\nIntent: %s", st.Query, st.Intent.Intent)

	var entities ExtractedEntities
	if err := e.caller.GenerateJSON(ctx, entityPrompt, userPrompt, &entities); err != nil {
		e.metrics.RecordError(metrics.OpEntities, time.Since(start))
		e.logger.Error("entity extraction failed", "error", err)
		st.Err = fmt.Sprintf("entity extraction failed: %v", err)
		return st
	}

	e.metrics.RecordTiming(metrics.OpEntities, time.Since(start))
	e.logger.Info("entities extracted",
		"movie_titles", len(entities.MovieTitles),
		"genres", len(entities.Genres),
	)

	st.Entities = &entities
	return st
}
