package mockbackend

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/zjrosen/airdesk/internal/domain"
)

// Context keys maintained per conversation.
const (
	ctxPassengerName      = "passenger_name"
	ctxConfirmationNumber = "confirmation_number"
	ctxSeatNumber         = "seat_number"
	ctxFlightNumber       = "flight_number"
	ctxAccountNumber      = "account_number"
)

// Canned replies.
const (
	replyRejected = "Sorry, I can only answer questions related to airline travel."
	replyTriage   = "I can help with seat changes, flight status, cancellations and questions about baggage or the aircraft. What would you like to do?"
	replyPickSeat = "Please select your new seat from the seat map."
	replyFAQMiss  = "I'm sorry, I don't know the answer to that question."
)

var designatorPattern = regexp.MustCompile(`(?i)\b([1-9]|1[0-9]|2[0-4])([A-F])\b`)

type session struct {
	mu            sync.Mutex
	id            string
	currentAgent  string
	context       map[string]any
	pendingCancel bool
}

func newSession(id, account string) *session {
	return &session{
		id:           id,
		currentAgent: TriageAgent,
		context: map[string]any{
			ctxPassengerName:      nil,
			ctxConfirmationNumber: nil,
			ctxSeatNumber:         nil,
			ctxFlightNumber:       nil,
			ctxAccountNumber:      account,
		},
	}
}

// turn accumulates the output of one scripted exchange.
type turn struct {
	srv      *Server
	sess     *session
	messages []messageJSON
	events   []eventJSON
}

func (t *turn) say(content string) {
	t.messages = append(t.messages, messageJSON{Content: content, Agent: t.sess.currentAgent})
	if domain.ParseDirective(content) == domain.DirectivePlain {
		t.emit(string(domain.EventMessage), content, nil)
	}
}

func (t *turn) emit(typ, content string, md *metadataJSON) {
	t.events = append(t.events, eventJSON{
		ID:        t.srv.newID(),
		Type:      typ,
		Agent:     t.sess.currentAgent,
		Content:   content,
		Timestamp: t.srv.now().UnixMilli(),
		Metadata:  md,
	})
}

// handoffTo transfers control, routing through triage when the current
// agent has no direct handoff to the target.
func (t *turn) handoffTo(target string) {
	from := t.sess.currentAgent
	if from == target {
		return
	}
	if !canHandoff(from, target) && from != TriageAgent {
		t.handoffTo(TriageAgent)
		from = TriageAgent
	}
	t.emit(string(domain.EventHandoff), fmt.Sprintf("%s -> %s", from, target), &metadataJSON{
		SourceAgent: from,
		TargetAgent: target,
	})
	t.sess.currentAgent = target
	t.sess.pendingCancel = false
}

func (t *turn) tool(name string, args map[string]any, result any) {
	if args == nil {
		args = map[string]any{}
	}
	t.emit(string(domain.EventToolCall), name, &metadataJSON{ToolName: name, ToolArgs: args})
	t.emit(string(domain.EventToolOutput), fmt.Sprint(result), &metadataJSON{ToolName: name, ToolResult: result})
}

func (t *turn) updateContext(changes map[string]any) {
	for k, v := range changes {
		t.sess.context[k] = v
	}
	t.emit(string(domain.EventContextUpdate), "", &metadataJSON{Changes: changes})
}

// ensureBooking fills in flight and confirmation numbers the first time a
// specialist needs them.
func (t *turn) ensureBooking() {
	changes := map[string]any{}
	if t.sess.context[ctxFlightNumber] == nil {
		changes[ctxFlightNumber] = "FLT-" + t.srv.newCode(3, digits)
	}
	if t.sess.context[ctxConfirmationNumber] == nil {
		changes[ctxConfirmationNumber] = t.srv.newCode(6, alphanumerics)
	}
	if len(changes) > 0 {
		t.updateContext(changes)
	}
}

// classify picks the specialist for message, or "" when nothing matches.
func classify(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "cancel"):
		return CancellationAgent
	case containsAny(lower, "how many", "bag", "luggage", "wifi", "wi-fi", "meal"):
		return FAQAgent
	case strings.Contains(lower, "seat") || designatorPattern.MatchString(message):
		return SeatBookingAgent
	case containsAny(lower, "status", "delay", "gate", "on time", "depart"):
		return FlightStatusAgent
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// run executes one user message against the session.
func (t *turn) run(message string) {
	if target := classify(message); target != "" {
		t.handoffTo(target)
	}

	switch t.sess.currentAgent {
	case SeatBookingAgent:
		t.seatBooking(message)
	case FlightStatusAgent:
		t.flightStatus()
	case CancellationAgent:
		t.cancellation(message)
	case FAQAgent:
		t.faq(message)
	default:
		t.say(replyTriage)
	}
}

func (t *turn) seatBooking(message string) {
	t.ensureBooking()

	m := designatorPattern.FindStringSubmatch(message)
	if m == nil {
		t.tool(toolDisplaySeatMap, nil, domain.SeatMapSentinel)
		t.say(replyPickSeat)
		t.say(domain.SeatMapSentinel)
		return
	}

	seat := m[1] + strings.ToUpper(m[2])
	confirmation := t.sess.context[ctxConfirmationNumber]
	t.tool(toolUpdateSeat,
		map[string]any{"confirmation_number": confirmation, "new_seat": seat},
		fmt.Sprintf("Updated seat to %s for confirmation number %v", seat, confirmation),
	)
	t.updateContext(map[string]any{ctxSeatNumber: seat})
	t.say(fmt.Sprintf("Done! Your seat has been changed to %s. Is there anything else I can help you with?", seat))
}

func (t *turn) flightStatus() {
	t.ensureBooking()
	flight := t.sess.context[ctxFlightNumber]
	result := fmt.Sprintf("Flight %v is on time and scheduled to depart at gate A10.", flight)
	t.tool(toolFlightStatus, map[string]any{"flight_number": flight}, result)
	t.say(result)
}

func (t *turn) cancellation(message string) {
	t.ensureBooking()
	flight := t.sess.context[ctxFlightNumber]
	confirmation := t.sess.context[ctxConfirmationNumber]

	lower := strings.ToLower(message)
	if t.sess.pendingCancel && containsAny(lower, "yes", "confirm", "please do") {
		result := fmt.Sprintf("Flight %v successfully cancelled", flight)
		t.tool(toolCancelFlight, map[string]any{"confirmation_number": confirmation, "flight_number": flight}, result)
		t.sess.pendingCancel = false
		t.say(result + ". A refund will be issued to your original form of payment.")
		return
	}

	t.sess.pendingCancel = true
	t.say(fmt.Sprintf("I can cancel flight %v (confirmation %v). Reply yes to confirm.", flight, confirmation))
}

func (t *turn) faq(message string) {
	answer := faqAnswer(message)
	t.tool(toolFAQLookup, map[string]any{"question": message}, answer)
	t.say(answer)
}

func faqAnswer(question string) string {
	lower := strings.ToLower(question)
	switch {
	case containsAny(lower, "bag", "luggage"):
		return "You are allowed to bring one bag on the plane. It must be under 50 pounds and 22 inches x 14 inches x 9 inches."
	case containsAny(lower, "seat", "plane", "aircraft", "how many"):
		return "There are 120 seats on the plane. Rows 1-4 are business class, rows 5-8 are Economy Plus with extra legroom, and rows 4 and 16 are exit rows."
	case containsAny(lower, "wifi", "wi-fi", "internet"):
		return "We have free wifi on the plane, join Airline-Wifi."
	case strings.Contains(lower, "meal"):
		return "Complimentary snacks are served on every flight; hot meals are available in business class."
	}
	return replyFAQMiss
}
