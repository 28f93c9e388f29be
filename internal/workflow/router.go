package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
)

// Router decides whether a query can proceed to intent classification or
// needs clarification from the user first.
type Router struct {
	caller  StructuredCaller
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewRouter creates the routing stage.
func NewRouter(caller StructuredCaller, logger *slog.Logger, collector *metrics.Collector) *Router {
	return &Router{caller: caller, logger: logger, metrics: collector}
}

// Decide runs the routing decision. A failed model call is captured in the
// state's error field rather than returned, per the stage convention.
func (r *Router) Decide(ctx context.Context, st State) State {
	start := time.Now()
	r.logger.Debug("routing query", "query", st.Query)

	userPrompt := fmt.Sprintf("Conversation History:\n%s\n\nUser Query: %s",
		llm.RenderHistory(st.History), st.Query)

	var decision RouterDecision
	if err := r.caller.GenerateJSON(ctx, routerPrompt, userPrompt, &decision); err != nil {
		r.metrics.RecordError(metrics.OpRouter, time.Since(start))
		r.logger.Error("routing failed", "error", err)
		st.Err = fmt.Sprintf("routing failed: %v", err)
		return st
	}

	r.metrics.RecordTiming(metrics.OpRouter, time.Since(start))
	r.logger.Info("routing decision",
		"route", decision.Route,
		"confidence", decision.Confidence,
		"reason", decision.Reason,
	)

	st.Decision = &decision
	return st
}
