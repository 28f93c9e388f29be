package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/reeltalk/reeltalk/internal/tools"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

// maxAgentIterations bounds the tool-call loop of the SQL agent.
const maxAgentIterations = 8

// topKRows is the default row limit the agent is told to apply.
const topKRows = 5

// SQLAgent answers movie questions with a ReAct-style tool loop over
// read-only SQL tools. It is the only component allowed multi-step
// interaction with the model.
type SQLAgent struct {
	executor *agents.Executor
	prompt   *template.Template
	logger   *slog.Logger
}

// NewSQLAgent builds the tool-calling agent over the movie database.
func NewSQLAgent(model llms.Model, gdb *gorm.DB, logger *slog.Logger, collector *metrics.Collector) (*SQLAgent, error) {
	prompt, err := template.New("tool_agent").Parse(toolAgentPrompt)
	if err != nil {
		return nil, fmt.Errorf("parse agent prompt: %w", err)
	}

	agentTools := tools.SQLTools(gdb, logger, collector)
	agent := agents.NewOneShotAgent(model, agentTools,
		agents.WithMaxIterations(maxAgentIterations))

	return &SQLAgent{
		executor: agents.NewExecutor(agent),
		prompt:   prompt,
		logger:   logger,
	}, nil
}

// Answer renders the agent prompt and runs the tool loop to completion.
func (a *SQLAgent) Answer(ctx context.Context, in AgentInput) (string, error) {
	input, err := a.renderPrompt(in)
	if err != nil {
		return "", err
	}

	answer, err := chains.Run(ctx, a.executor, input)
	if err != nil {
		return "", fmt.Errorf("run sql agent: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (a *SQLAgent) renderPrompt(in AgentInput) (string, error) {
	entities, err := json.Marshal(in.Entities)
	if err != nil {
		return "", fmt.Errorf("marshal entities: %w", err)
	}

	var b strings.Builder
	err = a.prompt.Execute(&b, map[string]any{
		"TopK":     topKRows,
		"Intent":   string(in.Intent.Intent),
		"Entities": string(entities),
		"History":  llm.RenderHistory(in.History),
		"Query":    in.Query,
	})
	if err != nil {
		return "", fmt.Errorf("render agent prompt: %w", err)
	}
	return b.String(), nil
}
