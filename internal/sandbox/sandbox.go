package sandbox

import (
	"context"

	"github.com/sandboxagent/sandboxagent/models"
)

// Sandbox is a single conversation's isolated execution container.
type Sandbox interface {
	// Exec runs argv inside the container, working directory /workspace.
	Exec(ctx context.Context, argv []string, timeoutSeconds int) (*models.ExecResult, error)
	// Destroy removes the container.
	Destroy(ctx context.Context) error
	// ID returns the backend container id.
	ID() string
}

// Manager creates, reuses, and destroys one container per conversation id.
type Manager interface {
	// Exec runs argv for the given conversation, creating the container on
	// first use and transparently recreating it if it has disappeared or
	// gone unhealthy since the last call.
	Exec(ctx context.Context, conversationID string, argv []string) (*models.ExecResult, error)
	// Reset destroys the container for conversationID, if any. Idempotent.
	Reset(ctx context.Context, conversationID string) error
	// CleanupAll removes every container matching the manager's name
	// prefix; called at shutdown and recommended at startup.
	CleanupAll(ctx context.Context) error
}
