// Package agent implements the Agent Loop (C5): a bounded THINK -> ACT ->
// OBSERVE cycle against an LLM, enforcing a turn cap and three circuit
// breakers, producing a terminal AgentResult.
package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandboxagent/sandboxagent/internal/tools"
	"github.com/sandboxagent/sandboxagent/llm"
	"github.com/sandboxagent/sandboxagent/models"
)

// Config bounds the loop. Zero fields fall back to the spec's defaults.
type Config struct {
	MaxTurns             int
	MaxRepeated          int
	MaxConsecutiveErrors int
}

func (c Config) withDefaults() Config {
	if c.MaxTurns <= 0 {
		c.MaxTurns = 10
	}
	if c.MaxRepeated <= 0 {
		c.MaxRepeated = 2
	}
	if c.MaxConsecutiveErrors <= 0 {
		c.MaxConsecutiveErrors = 3
	}
	return c
}

// StopRecorder is notified once per terminated request, wired to
// metrics.AgentMetrics.RecordStop by the caller.
type StopRecorder func(reason string, turns int)

// Loop drives one conversation's THINK->ACT->OBSERVE cycle.
type Loop struct {
	client   llm.Client
	registry *tools.Registry
	cfg      Config
	logger   *zap.Logger
	record   StopRecorder
}

// New builds a Loop.
func New(client llm.Client, registry *tools.Registry, cfg Config, logger *zap.Logger, record StopRecorder) *Loop {
	return &Loop{client: client, registry: registry, cfg: cfg.withDefaults(), logger: logger, record: record}
}

// Run appends userMessage to history and iterates until a terminal state is
// reached: an LLM response with no tool calls, a circuit breaker trip, or
// an LLM transport error.
func (l *Loop) Run(ctx context.Context, history []models.Message, userMessage string) models.AgentResult {
	msgs := append(append([]models.Message{}, history...), models.Message{Role: models.RoleUser, Content: userMessage})

	br := newBreakers(l.cfg.MaxRepeated, l.cfg.MaxConsecutiveErrors)
	var trace []models.TurnTrace

	for turn := 1; ; turn++ {
		if turn > l.cfg.MaxTurns {
			return l.finish(models.StopMaxTurns, turn-1, "", trace)
		}

		reply, err := l.client.Chat(ctx, msgs, l.registry.Schemas())
		if err != nil {
			l.logger.Warn("llm call failed", zap.Error(err), zap.Int("turn", turn))
			return l.finish(models.StopLLMError, turn, "", trace)
		}

		if len(reply.ToolCalls) == 0 {
			return l.finish(models.StopCompleted, turn, reply.Content, trace)
		}

		msgs = append(msgs, reply)

		if br.checkRepeated(reply.ToolCalls) {
			return l.finish(models.StopRepeatedCall, turn, "", trace)
		}

		results := l.registry.DispatchAll(ctx, reply.ToolCalls)
		trace = append(trace, models.TurnTrace{Turn: turn, Calls: reply.ToolCalls, Results: results})

		tripped := false
		for _, res := range results {
			msgs = append(msgs, models.Message{Role: models.RoleTool, Content: res.Payload, ToolCallID: res.CallID})
			if br.recordResult(res) {
				tripped = true
			}
		}
		if tripped {
			return l.finish(models.StopConsecutiveErrors, turn, "", trace)
		}
	}
}

func (l *Loop) finish(reason models.StopReason, turns int, finalText string, trace []models.TurnTrace) models.AgentResult {
	if l.record != nil {
		l.record(string(reason), turns)
	}
	return models.AgentResult{FinalText: finalText, Stop: reason, Turns: turns, Trace: trace}
}
