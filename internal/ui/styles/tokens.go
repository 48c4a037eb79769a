// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Toast notifications
	TokenToastSuccess ColorToken = "toast.success"
	TokenToastError   ColorToken = "toast.error"
	TokenToastInfo    ColorToken = "toast.info"
	TokenToastWarn    ColorToken = "toast.warn"

	// Transcript
	TokenBubbleUser      ColorToken = "bubble.user"
	TokenBubbleAssistant ColorToken = "bubble.assistant"
	TokenAgentLabel      ColorToken = "agent.label"

	// Agent roster
	TokenAgentActive  ColorToken = "agent.active"
	TokenAgentHandoff ColorToken = "agent.handoff"
	TokenAgentDimmed  ColorToken = "agent.dimmed"

	// Guardrails
	TokenGuardrailPassed ColorToken = "guardrail.passed"
	TokenGuardrailFailed ColorToken = "guardrail.failed"

	// Runner events
	TokenEventHandoff ColorToken = "event.handoff"
	TokenEventTool    ColorToken = "event.tool"
	TokenEventContext ColorToken = "event.context"
	TokenEventMessage ColorToken = "event.message"

	// Seat map
	TokenSeatAvailable ColorToken = "seat.available"
	TokenSeatOccupied  ColorToken = "seat.occupied"
	TokenSeatSelected  ColorToken = "seat.selected"
	TokenSeatCursor    ColorToken = "seat.cursor"
	TokenSeatExitRow   ColorToken = "seat.exit"

	// Misc
	TokenSectionTitle ColorToken = "section.title"
	TokenSpinner      ColorToken = "spinner"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenBorderDefault,
		TokenBorderFocus,
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,
		TokenToastSuccess,
		TokenToastError,
		TokenToastInfo,
		TokenToastWarn,
		TokenBubbleUser,
		TokenBubbleAssistant,
		TokenAgentLabel,
		TokenAgentActive,
		TokenAgentHandoff,
		TokenAgentDimmed,
		TokenGuardrailPassed,
		TokenGuardrailFailed,
		TokenEventHandoff,
		TokenEventTool,
		TokenEventContext,
		TokenEventMessage,
		TokenSeatAvailable,
		TokenSeatOccupied,
		TokenSeatSelected,
		TokenSeatCursor,
		TokenSeatExitRow,
		TokenSectionTitle,
		TokenSpinner,
	}
}
