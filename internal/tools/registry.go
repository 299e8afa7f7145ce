// Package tools implements the Tool Registry (C4): a uniform dispatch
// surface over {shell-exec, web-fetch} translating tool invocations into
// validated calls against the command validator, sandbox manager, and safe
// fetcher.
package tools

import (
	"context"
	"time"

	"github.com/sandboxagent/sandboxagent/llm"
	"github.com/sandboxagent/sandboxagent/models"
)

// Handler executes one tool call and returns its result payload.
type Handler func(ctx context.Context, args map[string]interface{}) (payload string, exitCode *int, truncated bool, errKind models.ErrorKind, err error)

// entry is one registered tool: its handler plus the schema advertised to
// the LLM.
type entry struct {
	schema  llm.ToolSchema
	handler Handler
}

// Registry maps tool name to handler and schema.
type Registry struct {
	entries map[string]entry
	record  func(tool string, success bool, duration time.Duration)
}

// New builds an empty Registry. record, if non-nil, is called after every
// dispatch (wired to metrics.ToolMetrics.Record by the caller).
func New(record func(tool string, success bool, duration time.Duration)) *Registry {
	return &Registry{entries: make(map[string]entry), record: record}
}

// Register adds a tool under name.
func (r *Registry) Register(schema llm.ToolSchema, handler Handler) {
	r.entries[schema.Name] = entry{schema: schema, handler: handler}
}

// Schemas returns every registered tool's schema, in the form handed to the LLM.
func (r *Registry) Schemas() []llm.ToolSchema {
	out := make([]llm.ToolSchema, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.schema)
	}
	return out
}

// Dispatch validates and executes one tool call, always returning a
// ToolResult carrying call.ID.
func (r *Registry) Dispatch(ctx context.Context, call models.ToolCall) models.ToolResult {
	e, ok := r.entries[call.Name]
	if !ok {
		return models.ToolResult{CallID: call.ID, Success: false, ErrorKind: models.ErrUnknownTool, Payload: "unknown tool: " + call.Name}
	}

	if reason, field, bad := validateArgs(e.schema, call.Arguments); bad {
		return models.ToolResult{
			CallID: call.ID, Success: false, ErrorKind: models.ErrBadArguments,
			Payload: "bad argument " + field + ": " + reason,
		}
	}

	start := time.Now()
	payload, exitCode, truncated, errKind, err := e.handler(ctx, call.Arguments)
	duration := time.Since(start)

	success := err == nil
	if r.record != nil {
		r.record(call.Name, success, duration)
	}

	if err != nil {
		if payload == "" {
			payload = err.Error()
		}
		return models.ToolResult{
			CallID: call.ID, Success: false, ErrorKind: errKind, Payload: payload,
			ExitCode: exitCode, DurationMS: duration.Milliseconds(), Truncated: truncated,
		}
	}

	return models.ToolResult{
		CallID: call.ID, Success: true, Payload: payload,
		ExitCode: exitCode, DurationMS: duration.Milliseconds(), Truncated: truncated,
	}
}

// DispatchAll runs every call in a turn strictly in order, one result per
// call. Calls within a single turn share a conversation's sandbox container,
// so running them concurrently would race on container creation and exec;
// ordering also matches what the LLM expects when a later call depends on an
// earlier one's output.
func (r *Registry) DispatchAll(ctx context.Context, calls []models.ToolCall) []models.ToolResult {
	results := make([]models.ToolResult, len(calls))
	for i, c := range calls {
		results[i] = r.Dispatch(ctx, c)
	}
	return results
}

// requiredStringFields names which schema parameters must be present and
// string-typed for each tool. The pack carries no JSON-schema-validation
// library; this hand-rolled check is the whole feature (presence + type of
// a handful of named fields), so no third-party dependency applies.
var requiredStringFields = map[string][]string{
	"shell-exec": {"command"},
	"web-fetch":  {"url"},
}

func validateArgs(schema llm.ToolSchema, args map[string]interface{}) (reason, field string, bad bool) {
	for _, f := range requiredStringFields[schema.Name] {
		v, ok := args[f]
		if !ok {
			return "missing", f, true
		}
		if _, ok := v.(string); !ok {
			return "must be a string", f, true
		}
	}
	return "", "", false
}
