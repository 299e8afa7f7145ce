package config

// Recognised configuration keys, per the external interfaces contract.
const (
	KeyLLMEndpoint = "LLM_ENDPOINT"
	KeyLLMAPIKey   = "LLM_API_KEY"
	KeyLLMModel    = "LLM_MODEL"

	KeyAgentMaxTurns            = "AGENT_MAX_TURNS"
	KeyAgentMaxRepeated         = "AGENT_MAX_REPEATED"
	KeyAgentMaxConsecutiveErrors = "AGENT_MAX_CONSECUTIVE_ERRORS"

	KeySandboxImage          = "SANDBOX_IMAGE"
	KeySandboxMemMiB         = "SANDBOX_MEM_MIB"
	KeySandboxCPUs           = "SANDBOX_CPUS"
	KeySandboxPids           = "SANDBOX_PIDS"
	KeySandboxExecTimeoutS   = "SANDBOX_EXEC_TIMEOUT_S"
	KeySandboxOutputCapBytes = "SANDBOX_OUTPUT_CAP_BYTES"

	KeyFetchMaxBytes     = "FETCH_MAX_BYTES"
	KeyFetchTimeoutS     = "FETCH_TIMEOUT_S"
	KeyFetchMaxRedirects = "FETCH_MAX_REDIRECTS"

	KeyWorkspaceRoot = "WORKSPACE_ROOT"
)

var defaults = map[string]string{
	KeyLLMModel: "",

	KeyAgentMaxTurns:             "10",
	KeyAgentMaxRepeated:          "2",
	KeyAgentMaxConsecutiveErrors: "3",

	KeySandboxImage:          "sandboxagent-runner:bookworm-slim",
	KeySandboxMemMiB:         "512",
	KeySandboxCPUs:           "1.0",
	KeySandboxPids:           "128",
	KeySandboxExecTimeoutS:   "30",
	KeySandboxOutputCapBytes: "65536",

	KeyFetchMaxBytes:     "1048576",
	KeyFetchTimeoutS:     "15",
	KeyFetchMaxRedirects: "5",

	KeyWorkspaceRoot: "./data/workspace",
}
