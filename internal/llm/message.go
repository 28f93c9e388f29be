package llm

import (
	"fmt"
	"strings"
)

// Message roles, matching the conversation turn roles stored per session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn as seen by the model: role and
// content only, with identifiers and timestamps stripped.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RenderHistory formats prior turns for inclusion in a prompt, one turn per
// line in original order. An empty history renders as "(none)".
func RenderHistory(history []Message) string {
	if len(history) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
