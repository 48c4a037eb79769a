// Package config provides configuration types, defaults, and persistence for airdesk.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/seatmap"
	"github.com/zjrosen/airdesk/internal/tracing"
)

// Config holds all airdesk configuration.
type Config struct {
	Backend     BackendConfig     `mapstructure:"backend"`
	UI          UIConfig          `mapstructure:"ui"`
	Theme       ThemeConfig       `mapstructure:"theme"`
	Seats       SeatsConfig       `mapstructure:"seats"`
	History     HistoryConfig     `mapstructure:"history"`
	Tracing     tracing.Config    `mapstructure:"tracing"`
	MockBackend MockBackendConfig `mapstructure:"mock_backend"`
	Debug       bool              `mapstructure:"debug"`
	LogLevel    string            `mapstructure:"log_level"`
}

// BackendConfig points the console at the chat backend.
type BackendConfig struct {
	URL     string            `mapstructure:"url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
}

// UIConfig holds user interface settings.
type UIConfig struct {
	MarkdownStyle   string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowAgentPanel  bool   `mapstructure:"show_agent_panel"`
	ShowEventPanel  bool   `mapstructure:"show_event_panel"`
	ShowContextView bool   `mapstructure:"show_context"`
	Mouse           bool   `mapstructure:"mouse"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset is a built-in theme name (e.g., "high-contrast").
	Preset string `mapstructure:"preset"`

	// Colors overrides specific color tokens. Keys may be nested
	// (status: {error: "#F00"}) or dotted ("status.error").
	Colors map[string]any `mapstructure:"colors"`
}

// SeatsConfig controls the seat-map overlay inventory.
type SeatsConfig struct {
	// InventoryFile is an optional YAML file listing occupied seats.
	InventoryFile string `mapstructure:"inventory_file"`

	// Occupied overrides the built-in occupied set when InventoryFile is unset.
	Occupied []string `mapstructure:"occupied"`

	// Watch reloads InventoryFile when it changes on disk.
	Watch bool `mapstructure:"watch"`
}

// HistoryConfig controls transcript persistence.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MockBackendConfig configures `airdesk mock-backend`.
type MockBackendConfig struct {
	Addr string `mapstructure:"addr"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// yaml.v2-style decoders hand back map[any]any
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				if s, ok := mk.(string); ok {
					converted[s] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DefaultBackendURL is where the reference backend listens.
const DefaultBackendURL = "http://localhost:8000"

// DefaultBackendTimeout bounds one /chat exchange.
const DefaultBackendTimeout = 60 * time.Second

// ConfigDir returns ~/.config/airdesk, or "" when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "airdesk")
}

// DefaultConfigPath returns the user-level config file path.
func DefaultConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultHistoryPath returns the default transcript database path.
// Returns ~/.config/airdesk/history.db or empty string if home dir unavailable.
func DefaultHistoryPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()

	return Config{
		Backend: BackendConfig{
			URL:     DefaultBackendURL,
			Timeout: DefaultBackendTimeout,
		},
		UI: UIConfig{
			MarkdownStyle:   "dark",
			ShowAgentPanel:  true,
			ShowEventPanel:  true,
			ShowContextView: true,
			Mouse:           true,
		},
		Seats: SeatsConfig{
			Watch: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Tracing: tc,
		MockBackend: MockBackendConfig{
			Addr: ":8000",
		},
		LogLevel: "debug",
	}
}

// Validate runs every section validator and joins the failures.
func (c Config) Validate() error {
	return errors.Join(
		ValidateBackend(c.Backend),
		ValidateUI(c.UI),
		ValidateSeats(c.Seats),
		ValidateHistory(c.History),
		ValidateTracing(c.Tracing),
	)
}

// ValidateBackend checks the backend URL and timeout.
func ValidateBackend(b BackendConfig) error {
	if strings.TrimSpace(b.URL) == "" {
		return fmt.Errorf("backend.url is required")
	}
	u, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("backend.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must use http or https, got %q", b.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.url has no host: %q", b.URL)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", b.Timeout)
	}
	return nil
}

// ValidateUI checks user interface settings.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateSeats checks the inline occupied list. The inventory file is
// checked when it is loaded.
func ValidateSeats(s SeatsConfig) error {
	if len(s.Occupied) == 0 {
		return nil
	}
	if _, err := seatmap.NewInventory(s.Occupied); err != nil {
		return fmt.Errorf("seats.occupied: %w", err)
	}
	return nil
}

// ValidateHistory checks transcript persistence settings.
func ValidateHistory(h HistoryConfig) error {
	if h.Enabled && strings.TrimSpace(h.Path) == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}

	if tc.Enabled {
		if tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == tracing.ExporterOTLP && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# airdesk configuration

# Chat backend
backend:
  url: http://localhost:8000   # POST {url}/chat
  timeout: 60s                 # Per-request timeout
  # headers:
  #   Authorization: Bearer <token>

# UI settings
ui:
  markdown_style: dark     # "dark" (default) or "light"
  show_agent_panel: true   # Agents and guardrails on the left
  show_event_panel: true   # Runner output on the right
  show_context: true       # Conversation context section
  mouse: true              # Click seats in the seat map

# Theme configuration
theme:
  # preset: high-contrast
  #
  # Available presets:
  #   default        - Default airdesk theme
  #   high-contrast  - High contrast for accessibility
  #   light          - For light terminal backgrounds
  #
  # colors:
  #   seat.available: "#73F59F"
  #   guardrail.failed: "#FF0000"

# Seat map
seats:
  # inventory_file: ~/.config/airdesk/seats.yaml   # YAML with "occupied: [1A, 2B]"
  # occupied: [1A, 2B, 3C]                          # Inline override when no file is set
  watch: true                                        # Reload inventory_file on change

# Transcript history (restore with: airdesk --resume <conversation-id>)
history:
  enabled: true
  # path: ~/.config/airdesk/history.db

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/airdesk/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # 0.0-1.0 (default: 1.0)

# Scripted development backend (airdesk mock-backend)
mock_backend:
  addr: ":8000"

# log_level: debug   # debug, info, warn, error (only with --debug)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
