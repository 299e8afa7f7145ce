package agent

import "github.com/sandboxagent/sandboxagent/models"

// breakers holds the mutable state of the three in-request circuit
// breakers (turn cap is a plain comparison against Config.MaxTurns and
// needs no state of its own).
type breakers struct {
	maxRepeated          int
	maxConsecutiveErrors int

	streaks           map[string]int
	consecutiveErrors int
}

func newBreakers(maxRepeated, maxConsecutiveErrors int) *breakers {
	return &breakers{maxRepeated: maxRepeated, maxConsecutiveErrors: maxConsecutiveErrors}
}

// checkRepeated reports whether any call signature in this turn has now
// appeared in maxRepeated consecutive turns, per §4.5: "the same signature
// appears as a tool call in N consecutive turns". Each signature's streak
// increments while it keeps appearing turn over turn and resets the moment
// it's absent from a turn; with the spec's default maxRepeated of 2 this
// trips on the second consecutive occurrence, same as comparing only to the
// immediately preceding turn.
func (b *breakers) checkRepeated(calls []models.ToolCall) bool {
	next := make(map[string]int, len(calls))
	tripped := false
	for _, c := range calls {
		sig := models.CanonicalSignature(c.Name, c.Arguments)
		if _, seen := next[sig]; seen {
			continue
		}
		next[sig] = b.streaks[sig] + 1
		if next[sig] >= b.maxRepeated {
			tripped = true
		}
	}
	b.streaks = next
	return tripped
}

// recordResult updates the consecutive-errors counter and reports whether
// the breaker has now tripped. The counter resets on any success.
func (b *breakers) recordResult(result models.ToolResult) bool {
	if result.Success {
		b.consecutiveErrors = 0
		return false
	}
	b.consecutiveErrors++
	return b.consecutiveErrors >= b.maxConsecutiveErrors
}
