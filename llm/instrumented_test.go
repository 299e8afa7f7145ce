package llm

import (
	"context"
	"testing"
	"time"

	"github.com/sandboxagent/sandboxagent/models"
)

type mockRecorder struct {
	requests []string
	errors   []string
}

func (r *mockRecorder) RecordRequest(provider, model, status string, duration time.Duration) {
	r.requests = append(r.requests, provider+"/"+model+"/"+status)
}

func (r *mockRecorder) RecordError(provider, model, errorType string) {
	r.errors = append(r.errors, errorType)
}

func TestInstrumentedClientSuccess(t *testing.T) {
	inner := &MockClient{Model: "test-model", Responses: []MockResponse{
		{Message: models.Message{Role: models.RoleAssistant, Content: "hi"}},
	}}
	rec := &mockRecorder{}
	c := NewInstrumentedClient(inner, rec, "mockprovider")

	msg, err := c.Chat(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "hi" {
		t.Errorf("Content = %q, want hi", msg.Content)
	}
	if len(rec.requests) != 1 || rec.requests[0] != "mockprovider/test-model/success" {
		t.Errorf("requests = %v", rec.requests)
	}
}

func TestInstrumentedClientError(t *testing.T) {
	inner := &MockClient{Model: "test-model", Responses: []MockResponse{
		{Err: &Error{Code: 429, Message: "rate limited"}},
	}}
	rec := &mockRecorder{}
	c := NewInstrumentedClient(inner, rec, "mockprovider")

	_, err := c.Chat(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.errors) != 1 || rec.errors[0] != "rate_limit" {
		t.Errorf("errors = %v", rec.errors)
	}
}
