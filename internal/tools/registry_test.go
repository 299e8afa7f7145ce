package tools

import (
	"context"
	"testing"

	"github.com/sandboxagent/sandboxagent/llm"
	"github.com/sandboxagent/sandboxagent/models"
)

func echoSchema(name string) llm.ToolSchema {
	return llm.ToolSchema{Name: name, Description: "test tool"}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := New(nil)
	res := r.Dispatch(context.Background(), models.ToolCall{ID: "1", Name: "does-not-exist"})
	if res.Success || res.ErrorKind != models.ErrUnknownTool {
		t.Fatalf("expected UnknownTool, got %+v", res)
	}
	if res.CallID != "1" {
		t.Errorf("CallID = %q, want 1", res.CallID)
	}
}

func TestDispatchBadArguments(t *testing.T) {
	r := New(nil)
	r.Register(ShellExecSchema, func(ctx context.Context, args map[string]interface{}) (string, *int, bool, models.ErrorKind, error) {
		t.Fatal("handler should not run when arguments are invalid")
		return "", nil, false, models.ErrNone, nil
	})

	res := r.Dispatch(context.Background(), models.ToolCall{ID: "1", Name: "shell-exec", Arguments: map[string]interface{}{}})
	if res.Success || res.ErrorKind != models.ErrBadArguments {
		t.Fatalf("expected BadArguments, got %+v", res)
	}
}

func TestDispatchSuccessRoundTripsCallID(t *testing.T) {
	r := New(nil)
	r.Register(echoSchema("echo-tool"), func(ctx context.Context, args map[string]interface{}) (string, *int, bool, models.ErrorKind, error) {
		return "ok", nil, false, models.ErrNone, nil
	})

	res := r.Dispatch(context.Background(), models.ToolCall{ID: "call-42", Name: "echo-tool"})
	if !res.Success || res.CallID != "call-42" || res.Payload != "ok" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDispatchAllRunsInOrder(t *testing.T) {
	r := New(nil)
	for _, name := range []string{"a", "b", "c"} {
		name := name
		r.Register(echoSchema(name), func(ctx context.Context, args map[string]interface{}) (string, *int, bool, models.ErrorKind, error) {
			return name, nil, false, models.ErrNone, nil
		})
	}

	calls := []models.ToolCall{
		{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"},
	}
	results := r.DispatchAll(context.Background(), calls)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Payload != want {
			t.Errorf("results[%d].Payload = %q, want %q", i, results[i].Payload, want)
		}
	}
}

func TestDispatchAllRunsStrictlySequentially(t *testing.T) {
	r := New(nil)
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		r.Register(echoSchema(name), func(ctx context.Context, args map[string]interface{}) (string, *int, bool, models.ErrorKind, error) {
			order = append(order, "start:"+name)
			order = append(order, "end:"+name)
			return name, nil, false, models.ErrNone, nil
		})
	}

	calls := []models.ToolCall{
		{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "c"},
	}
	r.DispatchAll(context.Background(), calls)

	want := []string{"start:a", "end:a", "start:b", "end:b", "start:c", "end:c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
