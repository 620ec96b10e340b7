package styles

import (
	"fmt"
	"maps"
	"regexp"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ApplyTheme applies color overrides on top of the default palette and
// rebuilds the group styles. A nil or empty map restores the defaults.
func ApplyTheme(overrides map[string]string) error {
	colors := maps.Clone(defaultColors)

	for key, value := range overrides {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !hexColor.MatchString(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	rebuildStyles(colors)
	return nil
}
