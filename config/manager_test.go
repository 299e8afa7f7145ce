package config

import (
	"os"
	"testing"

	"go.uber.org/zap"
)

func TestManagerEnvOverridesDefaults(t *testing.T) {
	os.Setenv("AGENT_MAX_TURNS", "7")
	defer os.Unsetenv("AGENT_MAX_TURNS")

	m := New(zap.NewNop())
	m.Load()

	if got := m.GetInt(KeyAgentMaxTurns, -1); got != 7 {
		t.Errorf("GetInt(AGENT_MAX_TURNS) = %d, want 7", got)
	}
}

func TestManagerSetTakesPriority(t *testing.T) {
	m := New(zap.NewNop())
	m.Load()
	m.Set(KeySandboxImage, "custom:image")

	if got := m.GetString(KeySandboxImage); got != "custom:image" {
		t.Errorf("GetString(SANDBOX_IMAGE) = %q, want custom:image", got)
	}
}

func TestSnapshotDefaults(t *testing.T) {
	m := New(zap.NewNop())
	m.Load()
	s := Snapshot(m)

	if s.AgentMaxTurns != 10 {
		t.Errorf("AgentMaxTurns = %d, want 10", s.AgentMaxTurns)
	}
	if s.SandboxMemMiB != 512 {
		t.Errorf("SandboxMemMiB = %d, want 512", s.SandboxMemMiB)
	}
	if s.FetchMaxRedirects != 5 {
		t.Errorf("FetchMaxRedirects = %d, want 5", s.FetchMaxRedirects)
	}
}
