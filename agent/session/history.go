package session

import contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"

// trimHistory keeps roughly the last limit turns. The kept window always starts at a
// user turn so no tool result loses the call it answers. When the window holds no
// user turn, the latest exchange is kept whole even if it exceeds limit.
func trimHistory(history []contractx.Turn, limit int) []contractx.Turn {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	start := len(history) - limit
	for start < len(history) && history[start].Role != contractx.RoleUser {
		start++
	}
	if start == len(history) {
		start = lastUserTurn(history)
		if start <= 0 {
			return history
		}
	}
	kept := make([]contractx.Turn, len(history)-start, max(limit, len(history)-start))
	copy(kept, history[start:])
	return kept
}

func lastUserTurn(history []contractx.Turn) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == contractx.RoleUser {
			return i
		}
	}
	return -1
}
