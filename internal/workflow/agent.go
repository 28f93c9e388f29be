package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
)

// AgentInput is everything the answer engine needs for one query.
type AgentInput struct {
	Query    string
	Intent   IntentClassification
	Entities ExtractedEntities
	History  []llm.Message
}

// AnswerEngine produces the final answer, internally consulting the movie
// database. It may make several model and tool sub-calls, but from the
// workflow's perspective it is one opaque call.
type AnswerEngine interface {
	Answer(ctx context.Context, in AgentInput) (string, error)
}

// AnswerGenerator is the terminal success stage: it turns intent, entities
// and the query into a natural-language answer grounded in the dataset.
type AnswerGenerator struct {
	engine  AnswerEngine
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewAnswerGenerator creates the answer generation stage.
func NewAnswerGenerator(engine AnswerEngine, logger *slog.Logger, collector *metrics.Collector) *AnswerGenerator {
	return &AnswerGenerator{engine: engine, logger: logger, metrics: collector}
}

// Generate runs answer generation. Missing intent or entities is an ordering
// violation recorded as a stage error; the engine is not invoked.
func (g *AnswerGenerator) Generate(ctx context.Context, st State) State {
	if st.Intent == nil || st.Entities == nil {
		g.logger.Error("answer generation invoked before intent and entity extraction")
		st.Err = "answer generation failed: intent and entities must be extracted before answer generation"
		return st
	}

	start := time.Now()
	g.logger.Debug("generating answer", "query", st.Query, "intent", st.Intent.Intent)

	answer, err := g.engine.Answer(ctx, AgentInput{
		Query:    st.Query,
		Intent:   *st.Intent,
		Entities: *st.Entities,
		History:  st.History,
	})
	if err != nil {
		g.metrics.RecordError(metrics.OpAnswer, time.Since(start))
		g.logger.Error("answer generation failed", "error", err)
		st.Err = fmt.Sprintf("answer generation failed: %v", err)
		return st
	}
	if answer == "" {
		g.metrics.RecordError(metrics.OpAnswer, time.Since(start))
		st.Err = "answer generation failed: engine returned an empty answer"
		return st
	}

	g.metrics.RecordTiming(metrics.OpAnswer, time.Since(start))
	g.logger.Info("answer generated", "length", len(answer))

	st.FinalResponse = answer
	return st
}
