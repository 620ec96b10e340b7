// Package completion defines the candidates shown by the completion menu.
package completion

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Span marks a byte range [Start, End) of an item's label that matches the
// typed prefix, together with the highlight group used to draw it.
type Span struct {
	Start int
	End   int
	Group string
}

// Item is a single, already formatted completion candidate.
type Item struct {
	Label string
	Spans []Span
}

// NewItem creates an item with the given label and match spans.
func NewItem(label string, spans ...Span) Item {
	return Item{Label: label, Spans: spans}
}

// Width returns the display width of the label in terminal cells.
func (i Item) Width() int {
	return runewidth.StringWidth(i.Label)
}

// MaxWidth returns the display width of the widest label, or 0 for no items.
func MaxWidth(items []Item) int {
	widest := 0
	for _, item := range items {
		if w := item.Width(); w > widest {
			widest = w
		}
	}
	return widest
}

// PrefixMatch builds one item per word starting with prefix, in input order.
// The matched prefix is covered by a single span tagged with group.
// Duplicate words and words equal to the prefix are skipped.
func PrefixMatch(prefix string, words []string, group string) []Item {
	if prefix == "" {
		return nil
	}

	seen := make(map[string]struct{}, len(words))
	var items []Item
	for _, word := range words {
		if word == prefix || !strings.HasPrefix(word, prefix) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		items = append(items, NewItem(word, Span{Start: 0, End: len(prefix), Group: group}))
	}
	return items
}
