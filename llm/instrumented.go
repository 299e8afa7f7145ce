package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandboxagent/sandboxagent/models"
)

// MetricsRecorder records per-call latency and error classification.
// Implemented by the metrics package to avoid importing it here.
type MetricsRecorder interface {
	RecordRequest(provider, model, status string, duration time.Duration)
	RecordError(provider, model, errorType string)
}

// InstrumentedClient wraps a Client and records metrics for every call.
type InstrumentedClient struct {
	inner    Client
	recorder MetricsRecorder
	provider string
}

// NewInstrumentedClient builds a metrics-recording wrapper.
func NewInstrumentedClient(inner Client, recorder MetricsRecorder, provider string) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, recorder: recorder, provider: provider}
}

func (c *InstrumentedClient) ModelName() string { return c.inner.ModelName() }

func (c *InstrumentedClient) Chat(ctx context.Context, messages []models.Message, tools []ToolSchema) (models.Message, error) {
	model := c.inner.ModelName()
	start := time.Now()

	msg, err := c.inner.Chat(ctx, messages, tools)
	duration := time.Since(start)

	if err != nil {
		c.recorder.RecordRequest(c.provider, model, "error", duration)
		c.recorder.RecordError(c.provider, model, classifyError(err))
		return msg, err
	}

	c.recorder.RecordRequest(c.provider, model, "success", duration)
	return msg, nil
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		switch {
		case llmErr.Code == 429:
			return "rate_limit"
		case llmErr.Code == 401 || llmErr.Code == 403:
			return "auth_error"
		case llmErr.Code >= 500:
			return "server_error"
		case llmErr.Code == 408:
			return "timeout"
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return "rate_limit"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "forbidden"):
		return "auth_error"
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") || strings.Contains(msg, "503"):
		return "server_error"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unknown"
	}
}
