package conversation

import (
	"maps"
	"slices"

	"github.com/zjrosen/airdesk/internal/domain"
)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	// ConversationID is empty until the first successful response and is
	// never changed afterwards.
	ConversationID string
	CurrentAgent   string
	Context        map[string]any

	// Messages is the append-only transcript.
	Messages []domain.Message
	// Events is the append-only runner output log.
	Events     []domain.AgentEvent
	Agents     []domain.Agent
	Guardrails []domain.GuardrailCheck

	// Pending is true while any request is queued or in flight.
	Pending bool
	// LastError is the failure of the most recent completed request, nil
	// after a success.
	LastError error
	// Failures counts failed requests over the store's lifetime, so repeated
	// failures with identical text remain distinguishable.
	Failures uint64
	// Version increases with every published change.
	Version uint64
}

// Initialized reports whether the session has a conversation id.
func (s Snapshot) Initialized() bool {
	return s.ConversationID != ""
}

// CurrentAgentInfo returns the roster entry of the active agent.
func (s Snapshot) CurrentAgentInfo() (domain.Agent, bool) {
	return domain.FindAgent(s.Agents, s.CurrentAgent)
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Context = maps.Clone(s.Context)
	out.Messages = slices.Clone(s.Messages)
	out.Guardrails = slices.Clone(s.Guardrails)

	if s.Events != nil {
		out.Events = make([]domain.AgentEvent, len(s.Events))
		for i, e := range s.Events {
			out.Events[i] = e.Clone()
		}
	}
	if s.Agents != nil {
		out.Agents = make([]domain.Agent, len(s.Agents))
		for i, a := range s.Agents {
			out.Agents[i] = a.Clone()
		}
	}
	return out
}
