// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
// These are the keys users can override in their config.
type ColorToken string

const (
	TokenMenuNormal   ColorToken = "menu.normal"
	TokenMenuSelected ColorToken = "menu.selected"
	TokenMenuBorder   ColorToken = "menu.border"
	TokenMenuMatching ColorToken = "menu.matching"

	TokenToastSuccess ColorToken = "toast.success"
	TokenToastError   ColorToken = "toast.error"
	TokenToastInfo    ColorToken = "toast.info"
)

// AllTokens returns every themeable token.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenMenuNormal, TokenMenuSelected, TokenMenuBorder, TokenMenuMatching,
		TokenToastSuccess, TokenToastError, TokenToastInfo,
	}
}

func isValidToken(token ColorToken) bool {
	for _, t := range AllTokens() {
		if t == token {
			return true
		}
	}
	return false
}
