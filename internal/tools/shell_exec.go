package tools

import (
	"context"
	"fmt"

	"github.com/sandboxagent/sandboxagent/internal/sandbox"
	"github.com/sandboxagent/sandboxagent/internal/validator"
	"github.com/sandboxagent/sandboxagent/llm"
	"github.com/sandboxagent/sandboxagent/models"
	"github.com/sandboxagent/sandboxagent/utils"
)

// ShellExecSchema is the JSON schema advertised to the LLM for shell-exec.
var ShellExecSchema = llm.ToolSchema{
	Name:        "shell-exec",
	Description: "Run an allowlisted shell command inside the conversation's sandbox container.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{"type": "string", "description": "the command line to run"},
		},
		"required": []string{"command"},
	},
}

// NewShellExecHandler binds the Command Validator and Sandbox Manager for
// one conversation id into a Handler.
func NewShellExecHandler(v *validator.Validator, mgr sandbox.Manager, conversationID string) Handler {
	return func(ctx context.Context, args map[string]interface{}) (string, *int, bool, models.ErrorKind, error) {
		command, _ := args["command"].(string)

		argv, err := v.Validate(command)
		if err != nil {
			verr := err.(*validator.Error)
			return verr.Error(), nil, false, models.ErrorKind(verr.Kind), err
		}

		res, err := mgr.Exec(ctx, conversationID, argv)
		if err != nil {
			serr, ok := err.(*sandbox.Error)
			kind := models.ErrSandboxUnavailable
			if ok {
				kind = models.ErrorKind(serr.Kind)
			}
			return err.Error(), nil, false, kind, err
		}

		output := utils.Sanitize(string(res.Output))
		if res.TimedOut {
			return output, nil, res.Truncated, models.ErrExecTimeout, &sandbox.Error{Kind: sandbox.KindExecTimeout, Message: fmt.Sprintf("command timed out: %q", command)}
		}

		exitCode := res.ExitCode
		return output, &exitCode, res.Truncated, models.ErrNone, nil
	}
}
