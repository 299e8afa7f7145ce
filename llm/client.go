// Package llm defines the thin boundary the core consumes from an LLM
// chat-completion provider. The provider implementation itself is out of
// scope; only this interface, an instrumented decorator, and a test double
// live here.
package llm

import (
	"context"

	"github.com/sandboxagent/sandboxagent/models"
)

// ToolSchema is the machine-readable shape of one tool advertised to the LLM.
type ToolSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Client is the chat-completion boundary: an ordered message list plus the
// available tool schemas goes in, one assistant message (text and/or tool
// calls) comes out.
type Client interface {
	Chat(ctx context.Context, messages []models.Message, tools []ToolSchema) (models.Message, error)
	ModelName() string
}

// Error is a structured provider error, analogous to an HTTP status code,
// used both for user-facing messages and for metrics classification.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
