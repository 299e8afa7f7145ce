package llm

import (
	"context"

	"github.com/sandboxagent/sandboxagent/models"
)

// MockClient is a scripted test double: each call to Chat consumes the next
// entry of Responses, in order.
type MockClient struct {
	Model     string
	Responses []MockResponse
	calls     int
}

// MockResponse is either a canned assistant message or an error to return.
type MockResponse struct {
	Message models.Message
	Err     error
}

func (m *MockClient) ModelName() string { return m.Model }

func (m *MockClient) Chat(_ context.Context, _ []models.Message, _ []ToolSchema) (models.Message, error) {
	if m.calls >= len(m.Responses) {
		return models.Message{}, &Error{Code: 500, Message: "mock client exhausted"}
	}
	r := m.Responses[m.calls]
	m.calls++
	return r.Message, r.Err
}
