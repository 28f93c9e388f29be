package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reeltalk/reeltalk/internal/metrics"
)

// IntentClassifier assigns the query one of the closed intent categories.
type IntentClassifier struct {
	caller  StructuredCaller
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewIntentClassifier creates the intent classification stage.
func NewIntentClassifier(caller StructuredCaller, logger *slog.Logger, collector *metrics.Collector) *IntentClassifier {
	return &IntentClassifier{caller: caller, logger: logger, metrics: collector}
}

// Classify runs intent classification. A category outside the closed set is
// a stage failure, same as a failed model call.
func (c *IntentClassifier) Classify(ctx context.Context, st State) State {
	start := time.Now()
	c.logger.Debug("classifying intent", "query", st.Query)

	var raw struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := c.caller.GenerateJSON(ctx, intentPrompt, st.Query, &raw); err != nil {
		c.metrics.RecordError(metrics.OpIntent, time.Since(start))
		c.logger.Error("intent classification failed", "error", err)
		st.Err = fmt.Sprintf("intent classification failed: %v", err)
		return st
	}

	intent, err := ParseIntent(raw.Intent)
	if err != nil {
		c.metrics.RecordError(metrics.OpIntent, time.Since(start))
		c.logger.Error("intent classification returned malformed category", "category", raw.Intent)
		st.Err = fmt.Sprintf("intent classification failed: %v", err)
		return st
	}

	c.metrics.RecordTiming(metrics.OpIntent, time.Since(start))
	c.logger.Info("intent classified", "intent", intent, "confidence", raw.Confidence)

	st.Intent = &IntentClassification{
		Intent:     intent,
		Confidence: raw.Confidence,
		Reasoning:  raw.Reasoning,
	}
	return st
}
