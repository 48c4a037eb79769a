package chatapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/zjrosen/airdesk/internal/domain"
)

// chatRequest is the only request shape the backend accepts.
type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// chatResponse mirrors the backend payload. Pointer fields distinguish an
// absent key from an empty value.
type chatResponse struct {
	ConversationID *string          `json:"conversation_id"`
	CurrentAgent   *string          `json:"current_agent"`
	Context        *map[string]any  `json:"context"`
	Messages       []wireMessage    `json:"messages"`
	Events         []wireEvent      `json:"events"`
	Agents         *[]wireAgent     `json:"agents"`
	Guardrails     *[]wireGuardrail `json:"guardrails"`
}

type wireMessage struct {
	Content string `json:"content"`
	Agent   string `json:"agent"`
}

type wireEvent struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Agent     string        `json:"agent"`
	Content   string        `json:"content"`
	Timestamp wireTime      `json:"timestamp"`
	Metadata  *wireMetadata `json:"metadata"`
}

type wireMetadata struct {
	SourceAgent  string         `json:"source_agent"`
	TargetAgent  string         `json:"target_agent"`
	ToolName     string         `json:"tool_name"`
	ToolArgs     map[string]any `json:"tool_args"`
	ToolResult   any            `json:"tool_result"`
	ContextKey   string         `json:"context_key"`
	ContextValue any            `json:"context_value"`
	Changes      map[string]any `json:"changes"`
}

type wireAgent struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Handoffs        []string `json:"handoffs"`
	Tools           []string `json:"tools"`
	InputGuardrails []string `json:"input_guardrails"`
}

type wireGuardrail struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Input     string   `json:"input"`
	Reasoning string   `json:"reasoning"`
	Passed    bool     `json:"passed"`
	Timestamp wireTime `json:"timestamp"`
}

// wireTime accepts epoch milliseconds (number or numeric string) or an
// RFC 3339 string. null and absent both decode to the zero time.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			t.Time = parsed
			return nil
		}
		ms, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("timestamp %q is neither RFC 3339 nor epoch milliseconds", s)
		}
		t.Time = fromEpochMillis(ms)
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = fromEpochMillis(ms)
	return nil
}

func fromEpochMillis(ms float64) time.Time {
	sec, frac := math.Modf(ms / 1000)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// decodeResponse validates and converts a payload. It never returns a
// partially populated Response: either everything decoded or a Failure.
func decodeResponse(body []byte) (*Response, error) {
	var raw chatResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, malformed("decode body: %w", err)
	}

	if raw.ConversationID == nil || *raw.ConversationID == "" {
		return nil, malformed("missing conversation_id")
	}
	if raw.CurrentAgent == nil {
		return nil, malformed("missing current_agent")
	}
	if raw.Context == nil {
		return nil, malformed("missing context")
	}

	resp := &Response{
		Snapshot: Snapshot{
			ConversationID: *raw.ConversationID,
			CurrentAgent:   *raw.CurrentAgent,
			Context:        *raw.Context,
		},
	}
	if resp.Snapshot.Context == nil {
		resp.Snapshot.Context = map[string]any{}
	}

	for _, m := range raw.Messages {
		resp.Delta.Messages = append(resp.Delta.Messages, Reply{
			Content:   m.Content,
			Agent:     m.Agent,
			Directive: domain.ParseDirective(m.Content),
		})
	}

	for i, e := range raw.Events {
		typ := domain.EventType(e.Type)
		if !typ.Valid() {
			return nil, malformed("event %d: unknown type %q", i, e.Type)
		}
		resp.Delta.Events = append(resp.Delta.Events, domain.AgentEvent{
			ID:        e.ID,
			Type:      typ,
			Agent:     e.Agent,
			Content:   e.Content,
			Timestamp: e.Timestamp.Time,
			Metadata:  e.Metadata.toDomain(),
		})
	}

	if raw.Agents != nil {
		agents := make([]domain.Agent, 0, len(*raw.Agents))
		for i, a := range *raw.Agents {
			if a.Name == "" {
				return nil, malformed("agent %d: missing name", i)
			}
			agents = append(agents, domain.Agent{
				Name:            a.Name,
				Description:     a.Description,
				Handoffs:        a.Handoffs,
				Tools:           a.Tools,
				InputGuardrails: a.InputGuardrails,
			})
		}
		resp.Snapshot.Agents = domain.Replace(agents)
	}

	if raw.Guardrails != nil {
		checks := make([]domain.GuardrailCheck, 0, len(*raw.Guardrails))
		for _, g := range *raw.Guardrails {
			checks = append(checks, domain.GuardrailCheck{
				ID:        g.ID,
				Name:      g.Name,
				Input:     g.Input,
				Reasoning: g.Reasoning,
				Passed:    g.Passed,
				Timestamp: g.Timestamp.Time,
			})
		}
		resp.Snapshot.Guardrails = domain.Replace(checks)
	}

	return resp, nil
}

func (m *wireMetadata) toDomain() *domain.EventMetadata {
	if m == nil {
		return nil
	}
	return &domain.EventMetadata{
		SourceAgent:  m.SourceAgent,
		TargetAgent:  m.TargetAgent,
		ToolName:     m.ToolName,
		ToolArgs:     m.ToolArgs,
		ToolResult:   m.ToolResult,
		ContextKey:   m.ContextKey,
		ContextValue: m.ContextValue,
		Changes:      m.Changes,
	}
}
