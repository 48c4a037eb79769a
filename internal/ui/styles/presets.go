package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"high-contrast": HighContrastPreset,
	"light":         LightPreset,
}

// DefaultPreset matches the Dark values in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default airdesk theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#CCCCCC",
		TokenTextSecondary: "#BBBBBB",
		TokenTextMuted:     "#696969",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenToastSuccess: "#73F59F",
		TokenToastError:   "#FF8787",
		TokenToastInfo:    "#54A0FF",
		TokenToastWarn:    "#FECA57",

		TokenBubbleUser:      "#54A0FF",
		TokenBubbleAssistant: "#8C8C8C",
		TokenAgentLabel:      "#B392F0",

		TokenAgentActive:  "#54A0FF",
		TokenAgentHandoff: "#CCCCCC",
		TokenAgentDimmed:  "#555555",

		TokenGuardrailPassed: "#73F59F",
		TokenGuardrailFailed: "#FF8787",

		TokenEventHandoff: "#B392F0",
		TokenEventTool:    "#FF9F43",
		TokenEventContext: "#54A0FF",
		TokenEventMessage: "#999999",

		TokenSeatAvailable: "#73F59F",
		TokenSeatOccupied:  "#555555",
		TokenSeatSelected:  "#54A0FF",
		TokenSeatCursor:    "#FFFFFF",
		TokenSeatExitRow:   "#FECA57",

		TokenSectionTitle: "#C9C9C9",
		TokenSpinner:      "#FFFFFF",
	},
}

// HighContrastPreset uses only saturated colors on black.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#FFFFFF",
		TokenTextSecondary: "#FFFFFF",
		TokenTextMuted:     "#C0C0C0",

		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#00FFFF",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenToastSuccess: "#00FF00",
		TokenToastError:   "#FF0000",
		TokenToastInfo:    "#00FFFF",
		TokenToastWarn:    "#FFFF00",

		TokenBubbleUser:      "#00FFFF",
		TokenBubbleAssistant: "#FFFFFF",
		TokenAgentLabel:      "#FF00FF",

		TokenAgentActive:  "#00FFFF",
		TokenAgentHandoff: "#FFFFFF",
		TokenAgentDimmed:  "#808080",

		TokenGuardrailPassed: "#00FF00",
		TokenGuardrailFailed: "#FF0000",

		TokenEventHandoff: "#FF00FF",
		TokenEventTool:    "#FFFF00",
		TokenEventContext: "#00FFFF",
		TokenEventMessage: "#FFFFFF",

		TokenSeatAvailable: "#00FF00",
		TokenSeatOccupied:  "#808080",
		TokenSeatSelected:  "#00FFFF",
		TokenSeatCursor:    "#000000",
		TokenSeatExitRow:   "#FFFF00",

		TokenSectionTitle: "#FFFFFF",
		TokenSpinner:      "#FFFFFF",
	},
}

// LightPreset is tuned for light terminal backgrounds.
var LightPreset = Preset{
	Name:        "light",
	Description: "For light terminal backgrounds",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#1F2328",
		TokenTextSecondary: "#57606A",
		TokenTextMuted:     "#8C959F",

		TokenBorderDefault: "#D0D7DE",
		TokenBorderFocus:   "#0969DA",

		TokenStatusSuccess: "#1A7F37",
		TokenStatusWarning: "#9A6700",
		TokenStatusError:   "#CF222E",

		TokenToastSuccess: "#1A7F37",
		TokenToastError:   "#CF222E",
		TokenToastInfo:    "#0969DA",
		TokenToastWarn:    "#9A6700",

		TokenBubbleUser:      "#0969DA",
		TokenBubbleAssistant: "#D0D7DE",
		TokenAgentLabel:      "#8250DF",

		TokenAgentActive:  "#0969DA",
		TokenAgentHandoff: "#1F2328",
		TokenAgentDimmed:  "#8C959F",

		TokenGuardrailPassed: "#1A7F37",
		TokenGuardrailFailed: "#CF222E",

		TokenEventHandoff: "#8250DF",
		TokenEventTool:    "#BC4C00",
		TokenEventContext: "#0969DA",
		TokenEventMessage: "#57606A",

		TokenSeatAvailable: "#1A7F37",
		TokenSeatOccupied:  "#8C959F",
		TokenSeatSelected:  "#0969DA",
		TokenSeatCursor:    "#FFFFFF",
		TokenSeatExitRow:   "#9A6700",

		TokenSectionTitle: "#1F2328",
		TokenSpinner:      "#8250DF",
	},
}
