package config

import "time"

// Settings is a typed, read-once snapshot of configuration, consumed by the
// rest of the program instead of repeated string-keyed lookups.
type Settings struct {
	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	AgentMaxTurns            int
	AgentMaxRepeated         int
	AgentMaxConsecutiveErrors int

	SandboxImage          string
	SandboxMemMiB         int
	SandboxCPUs           float64
	SandboxPids           int
	SandboxExecTimeoutS   int
	SandboxOutputCapBytes int

	FetchMaxBytes     int
	FetchTimeoutS     int
	FetchMaxRedirects int

	WorkspaceRoot string
}

// FetchTimeout returns the fetch timeout as a time.Duration.
func (s Settings) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutS) * time.Second
}

// Snapshot materialises a Settings from a loaded Manager.
func Snapshot(m *Manager) Settings {
	return Settings{
		LLMEndpoint: m.GetString(KeyLLMEndpoint),
		LLMAPIKey:   m.GetString(KeyLLMAPIKey),
		LLMModel:    m.GetString(KeyLLMModel),

		AgentMaxTurns:             m.GetInt(KeyAgentMaxTurns, 10),
		AgentMaxRepeated:          m.GetInt(KeyAgentMaxRepeated, 2),
		AgentMaxConsecutiveErrors: m.GetInt(KeyAgentMaxConsecutiveErrors, 3),

		SandboxImage:          m.GetString(KeySandboxImage),
		SandboxMemMiB:         m.GetInt(KeySandboxMemMiB, 512),
		SandboxCPUs:           m.GetFloat(KeySandboxCPUs, 1.0),
		SandboxPids:           m.GetInt(KeySandboxPids, 128),
		SandboxExecTimeoutS:   m.GetInt(KeySandboxExecTimeoutS, 30),
		SandboxOutputCapBytes: m.GetInt(KeySandboxOutputCapBytes, 65536),

		FetchMaxBytes:     m.GetInt(KeyFetchMaxBytes, 1<<20),
		FetchTimeoutS:     m.GetInt(KeyFetchTimeoutS, 15),
		FetchMaxRedirects: m.GetInt(KeyFetchMaxRedirects, 5),

		WorkspaceRoot: m.GetString(KeyWorkspaceRoot),
	}
}
