package domain

import "time"

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Origin records where a message entered the transcript.
type Origin string

const (
	// OriginLocal marks a user message appended optimistically on submission.
	// It is authoritative locally and never re-inserted from a response.
	OriginLocal Origin = "local"
	// OriginServer marks a message decoded from a backend response.
	OriginServer Origin = "server"
)

// SeatMapSentinel is the reserved assistant payload asking the client to
// open the seat selector. It is a control signal, never displayed text.
const SeatMapSentinel = "DISPLAY_SEAT_MAP"

// Directive is the decoded intent of a message.
type Directive int

const (
	// DirectivePlain is ordinary conversational content.
	DirectivePlain Directive = iota
	// DirectiveShowSeatSelector asks the client to open the seat overlay.
	DirectiveShowSeatSelector
)

func (d Directive) String() string {
	switch d {
	case DirectiveShowSeatSelector:
		return "show_seat_selector"
	default:
		return "plain"
	}
}

// ParseDirective decodes the directive carried by a message payload.
// Only an exact match of the sentinel is a control signal.
func ParseDirective(content string) Directive {
	if content == SeatMapSentinel {
		return DirectiveShowSeatSelector
	}
	return DirectivePlain
}

// DirectiveFromString is the inverse of Directive.String, used when
// reloading persisted transcripts.
func DirectiveFromString(s string) Directive {
	if s == DirectiveShowSeatSelector.String() {
		return DirectiveShowSeatSelector
	}
	return DirectivePlain
}

// Message is one transcript entry.
type Message struct {
	ID        string
	Content   string
	Role      Role
	Agent     string // assistant messages only
	Timestamp time.Time
	Directive Directive
	Origin    Origin
}

// Renderable reports whether the message is shown as a chat bubble.
// Directive messages exist purely as control signals, and the sentinel text
// is never displayed whoever sent it.
func (m Message) Renderable() bool {
	return m.Directive == DirectivePlain && m.Content != SeatMapSentinel
}

// RequestsSeatSelector reports whether m is an assistant message asking for
// the seat overlay.
func (m Message) RequestsSeatSelector() bool {
	return m.Role == RoleAssistant && m.Directive == DirectiveShowSeatSelector
}
