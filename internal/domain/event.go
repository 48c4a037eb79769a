package domain

import (
	"maps"
	"time"
)

// EventType classifies runner events.
type EventType string

const (
	EventMessage       EventType = "message"
	EventHandoff       EventType = "handoff"
	EventToolCall      EventType = "tool_call"
	EventToolOutput    EventType = "tool_output"
	EventContextUpdate EventType = "context_update"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventMessage, EventHandoff, EventToolCall, EventToolOutput, EventContextUpdate:
		return true
	}
	return false
}

// EventMetadata carries type-specific event details. Which fields are set
// depends on the event type: handoffs carry SourceAgent/TargetAgent, tool
// calls carry ToolName/ToolArgs, tool outputs carry ToolResult, and context
// updates carry Changes (or a single ContextKey/ContextValue pair).
type EventMetadata struct {
	SourceAgent  string
	TargetAgent  string
	ToolName     string
	ToolArgs     map[string]any
	ToolResult   any
	ContextKey   string
	ContextValue any
	Changes      map[string]any
}

// AgentEvent is one entry of the runner output log.
type AgentEvent struct {
	ID        string
	Type      EventType
	Agent     string
	Content   string
	Timestamp time.Time
	Metadata  *EventMetadata
}

// Clone returns a copy whose metadata maps are not shared with e.
func (e AgentEvent) Clone() AgentEvent {
	if e.Metadata == nil {
		return e
	}
	md := *e.Metadata
	md.ToolArgs = maps.Clone(md.ToolArgs)
	md.Changes = maps.Clone(md.Changes)
	e.Metadata = &md
	return e
}
