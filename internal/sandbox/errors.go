package sandbox

import "fmt"

// Error is the sandbox manager's distinguishable error taxonomy:
// SandboxUnavailable, ContainerStartFailed, ExecTimeout. A nonzero exit
// code is never an error — it is a normal ExecResult.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

const (
	KindSandboxUnavailable = "SandboxUnavailable"
	KindContainerStartFail = "ContainerStartFailed"
	KindExecTimeout        = "ExecTimeout"
)
