// Package config provides configuration types and defaults for compleet.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"

	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/surface"
	"github.com/zjrosen/compleet/internal/ui/menu"
)

// Config holds all configuration options for compleet.
type Config struct {
	Debug      bool             `mapstructure:"debug"`
	UI         UIConfig         `mapstructure:"ui"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Completion CompletionConfig `mapstructure:"completion"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Menu MenuConfig `mapstructure:"menu"`
}

// MenuConfig bounds the size and look of the completion menu.
type MenuConfig struct {
	MaxWidth  int          `mapstructure:"max_width"`
	MaxHeight int          `mapstructure:"max_height"`
	Border    BorderConfig `mapstructure:"border"`
}

// BorderConfig controls the frame drawn around the menu.
type BorderConfig struct {
	Enable bool `mapstructure:"enable"`

	// Style is either a named style ("single", "double", "rounded",
	// "solid", "shadow") or a list of eight characters, clockwise from the
	// top-left corner.
	Style any `mapstructure:"style"`
}

// CompletionConfig holds the behavior of the demo editor's word source.
type CompletionConfig struct {
	// Autoshow opens the menu while typing instead of waiting for the
	// show-completions key.
	Autoshow bool `mapstructure:"autoshow"`

	// Words extends the words collected from the buffer.
	Words []string `mapstructure:"words"`
}

// ThemeConfig holds color overrides for the menu highlight groups.
type ThemeConfig struct {
	// Colors maps color tokens to hex colors.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     menu:
	//       selected: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "menu.selected": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
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
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing of display surface calls is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/compleet/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// BorderStyle converts Style into a surface.BorderStyle.
// An unset style means "single".
func (b BorderConfig) BorderStyle() (surface.BorderStyle, error) {
	switch style := b.Style.(type) {
	case nil:
		return surface.NamedBorderStyle(surface.BorderSingle)
	case string:
		return surface.NamedBorderStyle(style)
	case []string:
		return surface.CustomBorderStyle(style)
	case []any:
		chars := make([]string, len(style))
		for i, c := range style {
			s, ok := c.(string)
			if !ok {
				return surface.BorderStyle{}, fmt.Errorf("border character %d must be a string, got %T", i, c)
			}
			chars[i] = s
		}
		return surface.CustomBorderStyle(chars)
	default:
		return surface.BorderStyle{}, fmt.Errorf("border style must be a name or a list of 8 characters, got %T", b.Style)
	}
}

// Border converts the enable/style pair into a surface.Border.
func (b BorderConfig) Border() (surface.Border, error) {
	if !b.Enable {
		return surface.NoBorder{}, nil
	}
	style, err := b.BorderStyle()
	if err != nil {
		return nil, err
	}
	return surface.Bordered{Style: style}, nil
}

// Settings returns the menu settings described by m.
func (m MenuConfig) Settings() (menu.Settings, error) {
	border, err := m.Border.Border()
	if err != nil {
		return menu.Settings{}, err
	}
	return menu.Settings{
		MaxWidth:  m.MaxWidth,
		MaxHeight: m.MaxHeight,
		Border:    border,
	}, nil
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/compleet/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "compleet", "traces", "traces.jsonl")
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateMenu(cfg.UI.Menu); err != nil {
		return err
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateMenu checks menu configuration for errors.
func ValidateMenu(m MenuConfig) error {
	if m.MaxWidth < 1 {
		return fmt.Errorf("ui.menu.max_width must be at least 1, got %d", m.MaxWidth)
	}
	if m.MaxHeight < 1 {
		return fmt.Errorf("ui.menu.max_height must be at least 1, got %d", m.MaxHeight)
	}
	// The style is checked even when the border is disabled so that
	// enabling it later cannot fail.
	if _, err := m.Border.BorderStyle(); err != nil {
		return fmt.Errorf("ui.menu.border.style: %w", err)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateTheme checks that every color override is a known token with a
// hex value.
func ValidateTheme(theme ThemeConfig) error {
	for token, color := range theme.FlattenedColors() {
		if !IsColorToken(token) {
			return fmt.Errorf("theme.colors: unknown color token %q", token)
		}
		if !hexColor.MatchString(color) {
			return fmt.Errorf("theme.colors.%s must be a hex color like #RRGGBB, got %q", token, color)
		}
	}
	return nil
}

// Color tokens accepted in theme.colors.
const (
	ColorMenuNormal   = "menu.normal"
	ColorMenuSelected = "menu.selected"
	ColorMenuBorder   = "menu.border"
	ColorMenuMatching = "menu.matching"
	ColorToastSuccess = "toast.success"
	ColorToastError   = "toast.error"
	ColorToastInfo    = "toast.info"
)

// IsColorToken reports whether token can be overridden in theme.colors.
func IsColorToken(token string) bool {
	switch token {
	case ColorMenuNormal, ColorMenuSelected, ColorMenuBorder, ColorMenuMatching,
		ColorToastSuccess, ColorToastError, ColorToastInfo:
		return true
	}
	return false
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	// Validate Exporter is a valid option
	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		UI: UIConfig{
			Menu: MenuConfig{
				MaxWidth:  40,
				MaxHeight: 10,
				Border: BorderConfig{
					Enable: false,
					Style:  surface.BorderSingle,
				},
			},
		},
		Completion: CompletionConfig{
			Autoshow: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// SetDefaults registers the defaults with v so that keys missing from the
// config file still decode to sensible values.
func SetDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("ui.menu.max_width", defaults.UI.Menu.MaxWidth)
	v.SetDefault("ui.menu.max_height", defaults.UI.Menu.MaxHeight)
	v.SetDefault("ui.menu.border.enable", defaults.UI.Menu.Border.Enable)
	v.SetDefault("ui.menu.border.style", defaults.UI.Menu.Border.Style)
	v.SetDefault("completion.autoshow", defaults.Completion.Autoshow)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug(log.CatConfig, "Loaded config", "path", path)
	return cfg, nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# compleet configuration

# Write debug logs to debug.log
debug: false

# Completion menu
ui:
  menu:
    max_width: 40    # Widest the menu may grow, in cells
    max_height: 10   # Most items shown at once
    border:
      enable: false
      # Named style: single, double, rounded, solid, shadow
      style: single
      # Or eight characters, clockwise from the top-left corner:
      # style: ["┌", "─", "┐", "│", "┘", "─", "└", "│"]

# Menu and notification colors (hex). Unset tokens use the built-in palette.
theme:
  # colors:
  #   menu.normal: "#C0CAF5"
  #   menu.selected: "#7AA2F7"
  #   menu.border: "#565F89"
  #   menu.matching: "#FF9E64"
  #   toast.success: "#9ECE6A"
  #   toast.error: "#F7768E"
  #   toast.info: "#7DCFFF"

# Demo editor word source
completion:
  autoshow: true   # Open the menu while typing
  # words: [fmt, func, fallthrough]

# Tracing of display surface calls
tracing:
  enabled: false
  # exporter: file      # none, file, stdout, otlp
  # file_path: ~/.config/compleet/traces/traces.jsonl
  #
  # Example: Send traces to Jaeger via OTLP
  # tracing:
  #   enabled: true
  #   exporter: otlp
  #   otlp_endpoint: jaeger.internal:4317
  #   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
