package sandbox

// Config configures the isolation policy applied to every container the
// manager creates. All fields are applied simultaneously; failing to apply
// any one is fatal (the exec fails with SandboxUnavailable).
type Config struct {
	Image               string
	MemMiB              int64
	CPUs                float64
	Pids                int64
	ExecTimeoutSeconds   int
	OutputCapBytes       int64
	WorkspaceRoot        string // host directory under which <conversation-id> dirs are created
	ContainerPrefix      string
}

// DefaultConfig mirrors the defaults named in the external interfaces
// contract (§6).
func DefaultConfig() Config {
	return Config{
		Image:              "sandboxagent-runner:bookworm-slim",
		MemMiB:             512,
		CPUs:               1.0,
		Pids:               128,
		ExecTimeoutSeconds: 30,
		OutputCapBytes:     65536,
		WorkspaceRoot:      "./data/workspace",
		ContainerPrefix:    "runner-",
	}
}

// ContainerName returns the deterministic container name for a conversation.
func (c Config) ContainerName(conversationID string) string {
	return c.ContainerPrefix + conversationID
}
