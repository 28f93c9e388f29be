package llm

import (
	"testing"

	"github.com/reeltalk/reeltalk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"route":"proceed"}`, `{"route":"proceed"}`},
		{"fenced json", "```json\n{\"route\":\"proceed\"}\n```", `{"route":"proceed"}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Here is the result:\n{\"a\":1}", `{"a":1}`},
		{"trailing prose", "{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"no json at all", "sorry, I cannot", "sorry, I cannot"},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestNewModelUnsupportedProvider(t *testing.T) {
	_, err := NewModel(config.Config{LLMProvider: "watson"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestNewModelMissingKeys(t *testing.T) {
	_, err := NewModel(config.Config{LLMProvider: config.ProviderOpenAI})
	require.Error(t, err)

	_, err = NewModel(config.Config{LLMProvider: config.ProviderAnthropic})
	require.Error(t, err)
}

func TestRenderHistory(t *testing.T) {
	assert.Equal(t, "(none)", RenderHistory(nil))

	history := []Message{
		{Role: RoleUser, Content: "What are the top rated movies?"},
		{Role: RoleAssistant, Content: "Here are some top rated movies..."},
	}
	got := RenderHistory(history)
	assert.Equal(t, "user: What are the top rated movies?\nassistant: Here are some top rated movies...", got)
}
