package mockbackend

// chatRequest is the body of POST /chat.
type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// chatResponse is always sent with every key present. Slices are non-nil so
// they serialize as [] rather than null.
type chatResponse struct {
	ConversationID string          `json:"conversation_id"`
	CurrentAgent   string          `json:"current_agent"`
	Context        map[string]any  `json:"context"`
	Messages       []messageJSON   `json:"messages"`
	Events         []eventJSON     `json:"events"`
	Agents         []agentJSON     `json:"agents"`
	Guardrails     []guardrailJSON `json:"guardrails"`
}

type messageJSON struct {
	Content string `json:"content"`
	Agent   string `json:"agent"`
}

type eventJSON struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Agent     string        `json:"agent"`
	Content   string        `json:"content"`
	Timestamp int64         `json:"timestamp"` // epoch ms
	Metadata  *metadataJSON `json:"metadata,omitempty"`
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

type agentJSON struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Handoffs        []string `json:"handoffs"`
	Tools           []string `json:"tools"`
	InputGuardrails []string `json:"input_guardrails"`
}

type guardrailJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Input     string `json:"input"`
	Reasoning string `json:"reasoning"`
	Passed    bool   `json:"passed"`
	Timestamp int64  `json:"timestamp"` // epoch ms
}

type errorJSON struct {
	Error string `json:"error"`
}
