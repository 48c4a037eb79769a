package tracing

// Span names.
const (
	SpanChatSend         = "chatapi.send"
	SpanConversationTurn = "conversation.turn"
)

// Span attribute keys.
const (
	AttrConversationID = "airdesk.conversation_id"
	AttrCurrentAgent   = "airdesk.current_agent"
	AttrMessageLength  = "airdesk.message_length"
	AttrMessageCount   = "airdesk.messages"
	AttrEventCount     = "airdesk.events"
	AttrBootstrap      = "airdesk.bootstrap"
	AttrQueueDepth     = "airdesk.queue_depth"
)

// Span event names.
const (
	EventResponseApplied = "response.applied"
	EventRequestFailed   = "request.failed"
)
