// Package domain holds the data model shared by the chat client, the
// conversation store, the seat overlay and the views: messages with their
// typed directives, runner events, the agent roster and guardrail results.
package domain
