package sqlite

import (
	"encoding/json"
	"time"

	"github.com/zjrosen/airdesk/internal/domain"
)

// ConversationModel is a row of the conversations table. JSON columns hold
// the replaced-wholesale parts of the session.
type ConversationModel struct {
	ID           string
	CurrentAgent string
	Context      string
	Agents       string
	Guardrails   string
	SelectedSeat *string // nullable
	CreatedAt    int64   // Unix milliseconds
	UpdatedAt    int64   // Unix milliseconds
}

// MessageModel is a row of the messages table.
type MessageModel struct {
	Seq       int
	ID        string
	Role      string
	Agent     string
	Content   string
	Directive string
	Origin    string
	CreatedAt int64
}

// EventModel is a row of the events table.
type EventModel struct {
	Seq       int
	ID        string
	Type      string
	Agent     string
	Content   string
	Metadata  *string // nullable JSON
	CreatedAt int64
}

type agentJSON struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Handoffs        []string `json:"handoffs,omitempty"`
	Tools           []string `json:"tools,omitempty"`
	InputGuardrails []string `json:"input_guardrails,omitempty"`
}

type guardrailJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Input     string `json:"input"`
	Reasoning string `json:"reasoning"`
	Passed    bool   `json:"passed"`
	Timestamp int64  `json:"timestamp"`
}

type metadataJSON struct {
	SourceAgent  string         `json:"source_agent,omitempty"`
	TargetAgent  string         `json:"target_agent,omitempty"`
	ToolName     string         `json:"tool_name,omitempty"`
	ToolArgs     map[string]any `json:"tool_args,omitempty"`
	ToolResult   any            `json:"tool_result,omitempty"`
	ContextKey   string         `json:"context_key,omitempty"`
	ContextValue any            `json:"context_value,omitempty"`
	Changes      map[string]any `json:"changes,omitempty"`
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func toMessageModel(seq int, m domain.Message) MessageModel {
	return MessageModel{
		Seq:       seq,
		ID:        m.ID,
		Role:      string(m.Role),
		Agent:     m.Agent,
		Content:   m.Content,
		Directive: m.Directive.String(),
		Origin:    string(m.Origin),
		CreatedAt: toMillis(m.Timestamp),
	}
}

func (m MessageModel) toDomain() domain.Message {
	return domain.Message{
		ID:        m.ID,
		Content:   m.Content,
		Role:      domain.Role(m.Role),
		Agent:     m.Agent,
		Timestamp: fromMillis(m.CreatedAt),
		Directive: domain.DirectiveFromString(m.Directive),
		Origin:    domain.Origin(m.Origin),
	}
}

func toEventModel(seq int, e domain.AgentEvent) (EventModel, error) {
	model := EventModel{
		Seq:       seq,
		ID:        e.ID,
		Type:      string(e.Type),
		Agent:     e.Agent,
		Content:   e.Content,
		CreatedAt: toMillis(e.Timestamp),
	}
	if e.Metadata != nil {
		raw, err := json.Marshal(metadataJSON(*e.Metadata))
		if err != nil {
			return EventModel{}, err
		}
		s := string(raw)
		model.Metadata = &s
	}
	return model, nil
}

func (m EventModel) toDomain() (domain.AgentEvent, error) {
	e := domain.AgentEvent{
		ID:        m.ID,
		Type:      domain.EventType(m.Type),
		Agent:     m.Agent,
		Content:   m.Content,
		Timestamp: fromMillis(m.CreatedAt),
	}
	if m.Metadata != nil {
		var md metadataJSON
		if err := json.Unmarshal([]byte(*m.Metadata), &md); err != nil {
			return domain.AgentEvent{}, err
		}
		converted := domain.EventMetadata(md)
		e.Metadata = &converted
	}
	return e, nil
}

func encodeAgents(agents []domain.Agent) (string, error) {
	out := make([]agentJSON, len(agents))
	for i, a := range agents {
		out[i] = agentJSON(a)
	}
	raw, err := json.Marshal(out)
	return string(raw), err
}

func decodeAgents(s string) ([]domain.Agent, error) {
	var in []agentJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, err
	}
	out := make([]domain.Agent, len(in))
	for i, a := range in {
		out[i] = domain.Agent(a)
	}
	return out, nil
}

func encodeGuardrails(checks []domain.GuardrailCheck) (string, error) {
	out := make([]guardrailJSON, len(checks))
	for i, g := range checks {
		out[i] = guardrailJSON{
			ID:        g.ID,
			Name:      g.Name,
			Input:     g.Input,
			Reasoning: g.Reasoning,
			Passed:    g.Passed,
			Timestamp: toMillis(g.Timestamp),
		}
	}
	raw, err := json.Marshal(out)
	return string(raw), err
}

func decodeGuardrails(s string) ([]domain.GuardrailCheck, error) {
	var in []guardrailJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, err
	}
	out := make([]domain.GuardrailCheck, len(in))
	for i, g := range in {
		out[i] = domain.GuardrailCheck{
			ID:        g.ID,
			Name:      g.Name,
			Input:     g.Input,
			Reasoning: g.Reasoning,
			Passed:    g.Passed,
			Timestamp: fromMillis(g.Timestamp),
		}
	}
	return out, nil
}
