package surface

import (
	"fmt"
	"strings"
)

// Border is either NoBorder or Bordered. The unexported method seals the set.
type Border interface {
	isBorder()
}

// NoBorder draws the window without a frame.
type NoBorder struct{}

// Bordered draws a frame around the window using Style.
type Bordered struct {
	Style BorderStyle
}

func (NoBorder) isBorder() {}
func (Bordered) isBorder() {}

// HasBorder reports whether b draws a frame.
func HasBorder(b Border) bool {
	_, ok := b.(Bordered)
	return ok
}

// Thickness returns the number of cells the frame adds on each side.
func Thickness(b Border) int {
	if HasBorder(b) {
		return 1
	}
	return 0
}

// Named border styles.
const (
	BorderSingle  = "single"
	BorderDouble  = "double"
	BorderRounded = "rounded"
	BorderSolid   = "solid"
	BorderShadow  = "shadow"
)

var namedBorders = []string{BorderSingle, BorderDouble, BorderRounded, BorderSolid, BorderShadow}

// BorderStyle is a named style or eight custom characters, clockwise from
// the top-left corner.
type BorderStyle struct {
	name  string
	chars []string
}

// NamedBorderStyle returns the style registered under name.
func NamedBorderStyle(name string) (BorderStyle, error) {
	for _, n := range namedBorders {
		if n == name {
			return BorderStyle{name: name}, nil
		}
	}
	return BorderStyle{}, fmt.Errorf("unknown border style %q (must be one of %s)", name, strings.Join(namedBorders, ", "))
}

// CustomBorderStyle returns a style drawn with the given characters.
func CustomBorderStyle(chars []string) (BorderStyle, error) {
	if len(chars) != 8 {
		return BorderStyle{}, fmt.Errorf("custom border needs 8 characters, got %d", len(chars))
	}
	return BorderStyle{chars: append([]string(nil), chars...)}, nil
}

// Name returns the style name, or "" for custom styles.
func (s BorderStyle) Name() string {
	return s.name
}

// Chars returns the custom characters, or nil for named styles.
func (s BorderStyle) Chars() []string {
	return append([]string(nil), s.chars...)
}

// IsCustom reports whether the style uses custom characters.
func (s BorderStyle) IsCustom() bool {
	return s.chars != nil
}

// Value returns the style in the form hosts expect: the name for named
// styles, the character list otherwise.
func (s BorderStyle) Value() any {
	if s.IsCustom() {
		return s.Chars()
	}
	return s.name
}

func (s BorderStyle) String() string {
	if s.IsCustom() {
		return strings.Join(s.chars, "")
	}
	return s.name
}
