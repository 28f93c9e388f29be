package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

// fallbackClarification is returned when the router asks for clarification
// without providing its own message.
const fallbackClarification = "Could you tell me a bit more about what you're looking for? " +
	"For example a movie title, a genre, or the kind of recommendation you want."

// Stage interfaces, satisfied by the concrete stages and by test doubles.
type (
	routerStage interface {
		Decide(ctx context.Context, st State) State
	}
	intentStage interface {
		Classify(ctx context.Context, st State) State
	}
	entityStage interface {
		Extract(ctx context.Context, st State) State
	}
	answerStage interface {
		Generate(ctx context.Context, st State) State
	}
)

// Workflow sequences the four stages: routing, then either clarification or
// intent classification, entity extraction and answer generation, with an
// error check before each transition.
type Workflow struct {
	router   routerStage
	intent   intentStage
	entities entityStage
	answer   answerStage
	logger   *slog.Logger
}

// New wires the production workflow: LLM-backed stages over the movie
// database.
func New(model llms.Model, caller StructuredCaller, gdb *gorm.DB, logger *slog.Logger, collector *metrics.Collector) (*Workflow, error) {
	engine, err := NewSQLAgent(model, gdb, logger, collector)
	if err != nil {
		return nil, fmt.Errorf("workflow: %w", err)
	}

	return NewWithStages(
		NewRouter(caller, logger, collector),
		NewIntentClassifier(caller, logger, collector),
		NewEntityExtractor(caller, logger, collector),
		NewAnswerGenerator(engine, logger, collector),
		logger,
	), nil
}

// NewWithStages wires a workflow from explicit stages.
func NewWithStages(router routerStage, intent intentStage, entities entityStage, answer answerStage, logger *slog.Logger) *Workflow {
	return &Workflow{
		router:   router,
		intent:   intent,
		entities: entities,
		answer:   answer,
		logger:   logger,
	}
}

// Run processes one query through the workflow and returns the terminal
// response. Stage-local failures are absorbed into an error response; a
// returned error indicates a defect in the sequencing itself (including
// invalid arguments) and is the caller's problem.
func (w *Workflow) Run(ctx context.Context, query string, history []llm.Message) (string, error) {
	if query == "" {
		return "", fmt.Errorf("workflow: query must not be empty")
	}
	if w.router == nil || w.intent == nil || w.entities == nil || w.answer == nil {
		return "", fmt.Errorf("workflow: not fully wired")
	}

	st := State{Query: query, History: history}

	st = w.router.Decide(ctx, st)
	if st.Failed() {
		return w.errorTerminal(st), nil
	}
	if st.Decision == nil {
		return "", fmt.Errorf("workflow: router produced no decision and no error")
	}

	// Anything other than an explicit proceed ends with a clarification.
	if st.Decision.Route != RouteProceed {
		return w.clarificationTerminal(st), nil
	}

	st = w.intent.Classify(ctx, st)
	if st.Failed() {
		return w.errorTerminal(st), nil
	}

	st = w.entities.Extract(ctx, st)
	if st.Failed() {
		return w.errorTerminal(st), nil
	}

	st = w.answer.Generate(ctx, st)
	if st.Failed() {
		return w.errorTerminal(st), nil
	}

	if st.FinalResponse == "" {
		return "", fmt.Errorf("workflow: reached success terminal with empty response")
	}
	return st.FinalResponse, nil
}

// clarificationTerminal surfaces the router's clarification question
// verbatim, falling back to a generic prompt when none was provided.
func (w *Workflow) clarificationTerminal(st State) string {
	w.logger.Info("workflow ended with clarification", "route", st.Decision.Route)
	if st.Decision.ClarificationMessage != "" {
		return st.Decision.ClarificationMessage
	}
	return fallbackClarification
}

// errorTerminal synthesizes a user-facing message that embeds the stage
// error detail.
func (w *Workflow) errorTerminal(st State) string {
	w.logger.Warn("workflow ended with stage error", "error", st.Err)
	return fmt.Sprintf("I'm sorry, I couldn't answer that. (%s)", st.Err)
}
