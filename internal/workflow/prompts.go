package workflow

import (
	_ "embed"
)

//go:embed prompts/router.prompt
var routerPrompt string

//go:embed prompts/intent.prompt
var intentPrompt string

//go:embed prompts/entity.prompt
var entityPrompt string

//go:embed prompts/tool_agent.prompt
var toolAgentPrompt string
