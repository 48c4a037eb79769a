package domain

import (
	"slices"
	"time"
)

// Agent is one roster entry.
type Agent struct {
	Name            string
	Description     string
	Handoffs        []string
	Tools           []string
	InputGuardrails []string
}

// CanHandoffTo reports whether a may transfer control to the named agent.
func (a Agent) CanHandoffTo(name string) bool {
	return slices.Contains(a.Handoffs, name)
}

// Clone returns a deep copy of a.
func (a Agent) Clone() Agent {
	a.Handoffs = slices.Clone(a.Handoffs)
	a.Tools = slices.Clone(a.Tools)
	a.InputGuardrails = slices.Clone(a.InputGuardrails)
	return a
}

// FindAgent returns the roster entry named name.
func FindAgent(roster []Agent, name string) (Agent, bool) {
	for _, a := range roster {
		if a.Name == name {
			return a, true
		}
	}
	return Agent{}, false
}

// GuardrailCheck is the result of one guardrail evaluation.
type GuardrailCheck struct {
	ID        string
	Name      string
	Input     string
	Reasoning string
	Passed    bool
	Timestamp time.Time
}
