package chatapi

import "github.com/zjrosen/airdesk/internal/domain"

// Response is one decoded backend reply, split by merge semantics.
type Response struct {
	Snapshot Snapshot
	Delta    Delta
}

// Snapshot fields replace client state wholesale.
type Snapshot struct {
	ConversationID string
	CurrentAgent   string
	Context        map[string]any
	// Agents and Guardrails are absent when the backend omitted them;
	// absent means "keep what you have", present-but-empty means "clear".
	Agents     domain.Replacement[[]domain.Agent]
	Guardrails domain.Replacement[[]domain.GuardrailCheck]
}

// Delta fields are appended to accumulated client state.
type Delta struct {
	// Messages are the assistant replies produced this turn, in order.
	Messages []Reply
	// Events are the runner events produced this turn, in order. ID and
	// Timestamp are zero when the backend omitted them.
	Events []domain.AgentEvent
}

// Reply is one assistant message as sent by the backend.
type Reply struct {
	Content   string
	Agent     string
	Directive domain.Directive
}
