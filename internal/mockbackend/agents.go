package mockbackend

import "slices"

// Agent names served by the scripted backend.
const (
	TriageAgent       = "Triage Agent"
	FAQAgent          = "FAQ Agent"
	SeatBookingAgent  = "Seat Booking Agent"
	FlightStatusAgent = "Flight Status Agent"
	CancellationAgent = "Cancellation Agent"
)

// Guardrail identifiers as they appear in input_guardrails.
const (
	RelevanceGuardrail = "relevance_guardrail"
	JailbreakGuardrail = "jailbreak_guardrail"
)

// Tool names reported in tool_call events.
const (
	toolFAQLookup      = "faq_lookup_tool"
	toolUpdateSeat     = "update_seat"
	toolDisplaySeatMap = "display_seat_map"
	toolFlightStatus   = "flight_status_tool"
	toolCancelFlight   = "cancel_flight"
)

var allGuardrails = []string{RelevanceGuardrail, JailbreakGuardrail}

var roster = []agentJSON{
	{
		Name:            TriageAgent,
		Description:     "A triage agent that can delegate a customer's request to the appropriate agent.",
		Handoffs:        []string{FlightStatusAgent, CancellationAgent, FAQAgent, SeatBookingAgent},
		Tools:           []string{},
		InputGuardrails: allGuardrails,
	},
	{
		Name:            FAQAgent,
		Description:     "A helpful agent that can answer questions about the airline.",
		Handoffs:        []string{TriageAgent},
		Tools:           []string{toolFAQLookup},
		InputGuardrails: allGuardrails,
	},
	{
		Name:            SeatBookingAgent,
		Description:     "A helpful agent that can update a seat on a flight.",
		Handoffs:        []string{TriageAgent},
		Tools:           []string{toolUpdateSeat, toolDisplaySeatMap},
		InputGuardrails: allGuardrails,
	},
	{
		Name:            FlightStatusAgent,
		Description:     "An agent to provide flight status information.",
		Handoffs:        []string{TriageAgent},
		Tools:           []string{toolFlightStatus},
		InputGuardrails: allGuardrails,
	},
	{
		Name:            CancellationAgent,
		Description:     "An agent to cancel flights.",
		Handoffs:        []string{TriageAgent},
		Tools:           []string{toolCancelFlight},
		InputGuardrails: allGuardrails,
	},
}

// rosterJSON returns a copy of the roster safe to hand to the encoder.
func rosterJSON() []agentJSON {
	out := make([]agentJSON, len(roster))
	for i, a := range roster {
		a.Handoffs = slices.Clone(a.Handoffs)
		a.Tools = slices.Clone(a.Tools)
		a.InputGuardrails = slices.Clone(a.InputGuardrails)
		out[i] = a
	}
	return out
}

func canHandoff(from, to string) bool {
	for _, a := range roster {
		if a.Name == from {
			return slices.Contains(a.Handoffs, to)
		}
	}
	return false
}
