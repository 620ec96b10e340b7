package app

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// buffer is the demo editor's text. The cursor column is a byte offset
// into the current line and always sits on a rune boundary.
type buffer struct {
	lines []string
	row   int
	col   int
}

func newBuffer(text string) *buffer {
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	return &buffer{lines: lines, row: last, col: len(lines[last])}
}

func (b *buffer) line() string {
	return b.lines[b.row]
}

func (b *buffer) String() string {
	return strings.Join(b.lines, "\n")
}

func (b *buffer) insert(s string) {
	line := b.line()
	b.lines[b.row] = line[:b.col] + s + line[b.col:]
	b.col += len(s)
}

func (b *buffer) newline() {
	line := b.line()
	head, tail := line[:b.col], line[b.col:]
	b.lines[b.row] = head
	b.lines = append(b.lines[:b.row+1], append([]string{tail}, b.lines[b.row+1:]...)...)
	b.row++
	b.col = 0
}

// backspace deletes the rune before the cursor, joining lines at column 0.
func (b *buffer) backspace() {
	if b.col > 0 {
		line := b.line()
		_, size := utf8.DecodeLastRuneInString(line[:b.col])
		b.lines[b.row] = line[:b.col-size] + line[b.col:]
		b.col -= size
		return
	}
	if b.row == 0 {
		return
	}
	prev := b.lines[b.row-1]
	b.lines[b.row-1] = prev + b.line()
	b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
	b.row--
	b.col = len(prev)
}

func (b *buffer) left() {
	if b.col > 0 {
		_, size := utf8.DecodeLastRuneInString(b.line()[:b.col])
		b.col -= size
	}
}

func (b *buffer) right() {
	if b.col < len(b.line()) {
		_, size := utf8.DecodeRuneInString(b.line()[b.col:])
		b.col += size
	}
}

func (b *buffer) up() {
	if b.row > 0 {
		b.moveToRow(b.row - 1)
	}
}

func (b *buffer) down() {
	if b.row < len(b.lines)-1 {
		b.moveToRow(b.row + 1)
	}
}

// moveToRow keeps the cursor's screen column where possible.
func (b *buffer) moveToRow(row int) {
	want := b.cursorCell()
	b.row = row
	b.col = 0
	for b.col < len(b.line()) {
		r, size := utf8.DecodeRuneInString(b.line()[b.col:])
		if runewidth.StringWidth(b.line()[:b.col])+runewidth.RuneWidth(r) > want {
			break
		}
		b.col += size
	}
}

// cursorCell returns the screen column of the cursor.
func (b *buffer) cursorCell() int {
	return runewidth.StringWidth(b.line()[:b.col])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// prefix returns the part of the word under the cursor that precedes it.
func (b *buffer) prefix() string {
	line := b.line()[:b.col]
	start := len(line)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	return line[start:]
}

// replacePrefix swaps the word prefix before the cursor for word.
func (b *buffer) replacePrefix(word string) {
	p := b.prefix()
	line := b.line()
	start := b.col - len(p)
	b.lines[b.row] = line[:start] + word + line[b.col:]
	b.col = start + len(word)
}

// words returns every word of the buffer in order of first appearance.
func (b *buffer) words() []string {
	var words []string
	seen := make(map[string]struct{})
	for _, line := range b.lines {
		for _, w := range strings.FieldsFunc(line, func(r rune) bool { return !isWordRune(r) }) {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	return words
}
