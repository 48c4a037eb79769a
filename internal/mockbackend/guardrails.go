package mockbackend

import "strings"

type verdict struct {
	name      string
	passed    bool
	reasoning string
}

var jailbreakPhrases = []string{
	"ignore previous",
	"ignore all previous",
	"ignore your instructions",
	"system prompt",
	"developer mode",
	"pretend you are",
	"drop table",
	"jailbreak",
}

var airlineTerms = []string{
	"flight", "seat", "bag", "luggage", "cancel", "status", "gate", "delay",
	"wifi", "wi-fi", "plane", "aircraft", "airline", "book", "ticket",
	"confirmation", "refund", "meal", "travel", "trip", "board", "depart",
	"arriv", "help", "thank",
}

// conversationalLimit is the word count under which a message counts as
// small talk and passes the relevance check.
const conversationalLimit = 3

func checkRelevance(message string) verdict {
	lower := strings.ToLower(message)
	for _, term := range airlineTerms {
		if strings.Contains(lower, term) {
			return verdict{name: RelevanceGuardrail, passed: true, reasoning: "Message mentions airline travel."}
		}
	}
	if len(strings.Fields(message)) <= conversationalLimit {
		return verdict{name: RelevanceGuardrail, passed: true, reasoning: "Short conversational message."}
	}
	return verdict{name: RelevanceGuardrail, passed: false, reasoning: "Message is unrelated to airline customer service."}
}

func checkJailbreak(message string) verdict {
	lower := strings.ToLower(message)
	for _, phrase := range jailbreakPhrases {
		if strings.Contains(lower, phrase) {
			return verdict{name: JailbreakGuardrail, passed: false, reasoning: "Attempt to override system instructions: " + phrase}
		}
	}
	return verdict{name: JailbreakGuardrail, passed: true, reasoning: "No attempt to bypass instructions detected."}
}

// runGuardrails evaluates every input guardrail in roster order.
func runGuardrails(message string) []verdict {
	return []verdict{checkRelevance(message), checkJailbreak(message)}
}
