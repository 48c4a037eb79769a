package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"} // Hints, dimmed agents

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF8787"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#FECA57"}

	// Transcript
	BubbleUserColor      = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}
	BubbleAssistantColor = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#8C8C8C"}
	AgentLabelColor      = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#B392F0"}

	// Agent roster
	AgentActiveColor  = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}
	AgentHandoffColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	AgentDimmedColor  = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#555555"}

	// Guardrails
	GuardrailPassedColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	GuardrailFailedColor = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF8787"}

	// Runner events
	EventHandoffColor = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#B392F0"}
	EventToolColor    = lipgloss.AdaptiveColor{Light: "#BC4C00", Dark: "#FF9F43"}
	EventContextColor = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}
	EventMessageColor = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#999999"}

	// Seat map
	SeatAvailableColor = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#73F59F"}
	SeatOccupiedColor  = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#555555"}
	SeatSelectedColor  = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#54A0FF"}
	SeatCursorColor    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SeatExitRowColor   = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#FECA57"}

	SectionTitleColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#C9C9C9"}
	SpinnerColor      = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#FFFFFF"}
)

var (
	MutedStyle   lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	SectionTitleStyle lipgloss.Style
	AgentLabelStyle   lipgloss.Style

	SeatAvailableStyle lipgloss.Style
	SeatOccupiedStyle  lipgloss.Style
	SeatSelectedStyle  lipgloss.Style
	SeatCursorStyle    lipgloss.Style

	StatusBarStyle lipgloss.Style
	SpinnerStyle   lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates all Style objects with updated colors.
// lipgloss.Style captures colors at creation time.
func rebuildStyles() {
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)

	SectionTitleStyle = lipgloss.NewStyle().Foreground(SectionTitleColor).Bold(true)
	AgentLabelStyle = lipgloss.NewStyle().Foreground(AgentLabelColor).Bold(true)

	SeatAvailableStyle = lipgloss.NewStyle().Foreground(SeatAvailableColor)
	SeatOccupiedStyle = lipgloss.NewStyle().Foreground(SeatOccupiedColor).Strikethrough(true)
	SeatSelectedStyle = lipgloss.NewStyle().Foreground(SeatSelectedColor).Bold(true)
	SeatCursorStyle = lipgloss.NewStyle().Foreground(SeatCursorColor).Background(SeatSelectedColor).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)
	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)
}
