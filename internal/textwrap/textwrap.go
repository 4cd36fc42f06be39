// Package textwrap wraps text to a maximum display-column width.
//
// Widths are measured in terminal columns, not runes: East Asian wide and
// fullwidth glyphs count as two columns, everything else as one. Words are
// unbreakable units, with a tokenizer that additionally keeps interpreted
// text spans, hyphenated compounds and em-dash sequences whole. Words wider
// than a whole line are broken at the last column boundary that fits.
package textwrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/mattn/go-runewidth"
)

// ErrInvalidWidth is returned when the configured wrap width is not
// positive.
var ErrInvalidWidth = errors.New("wrap width must be positive")

// wordsep splits text into whitespace runs and unbreakable word chunks.
// The alternatives, in order: whitespace; a backtick interpreted-text span
// preceded by whitespace, optionally with a :role: prefix; a hyphenated
// compound (hyphen directly followed by a letter); a two-or-more-dash
// em-dash sequence between word characters. Lookarounds rule out stdlib
// regexp here.
var wordsep = regexp2.MustCompile(
	"(\\s+|"+
		"(?<=\\s)(?::[a-z-]+:)?`\\S+|"+
		"[^\\s\\w]*\\w+[a-zA-Z]-(?=\\w+[a-zA-Z])|"+
		"(?<=[\\w!\"'&.,?])-{2,}(?=\\w))",
	regexp2.None,
)

// Options configures a Wrapper. The zero value is not useful; use New for
// defaults.
type Options struct {
	// Width is the maximum display-column width of an output line,
	// including the indents below.
	Width int
	// InitialIndent is prepended to the first output line and reserved
	// from its width.
	InitialIndent string
	// SubsequentIndent is prepended to every line after the first.
	SubsequentIndent string
	// DropWhitespace strips whitespace chunks at line boundaries.
	DropWhitespace bool
	// BreakLongWords breaks a chunk wider than a whole line at a column
	// boundary instead of overflowing.
	BreakLongWords bool
}

// Wrapper wraps text according to its Options. A Wrapper is stateless and
// safe for reuse across calls.
type Wrapper struct {
	opts Options
}

// New returns a Wrapper for the given width with whitespace dropping and
// long-word breaking enabled.
func New(width int) *Wrapper {
	return &Wrapper{opts: Options{
		Width:          width,
		DropWhitespace: true,
		BreakLongWords: true,
	}}
}

// NewWithOptions returns a Wrapper using opts as given.
func NewWithOptions(opts Options) *Wrapper {
	return &Wrapper{opts: opts}
}

// Wrap is shorthand for New(width).Wrap(text).
func Wrap(text string, width int) ([]string, error) {
	return New(width).Wrap(text)
}

// Wrap splits text into lines no wider than the configured width in display
// columns. A line may exceed the width only when it consists of a single
// unbreakable chunk that is itself too wide and breaking is disabled.
func (w *Wrapper) Wrap(text string) ([]string, error) {
	if w.opts.Width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, w.opts.Width)
	}
	return w.wrapChunks(w.split(text)), nil
}

// split tokenizes text by wordsep, then explodes chunks that mix display
// widths: runs of non-single-width runes become one chunk per rune, runs of
// single-width runes are re-tokenized. No resulting chunk spans a
// wide/narrow transition.
func (w *Wrapper) split(text string) []string {
	var chunks []string
	for _, chunk := range splitTokens(text) {
		// Whitespace runs stay whole; control characters report width 0
		// but never mix with printable glyphs on emission.
		if strings.TrimSpace(chunk) == "" {
			chunks = append(chunks, chunk)
			continue
		}
		if uniformWidth(chunk) {
			chunks = append(chunks, chunk)
			continue
		}
		for _, run := range groupByRuneWidth(chunk) {
			if run.width == 1 {
				chunks = append(chunks, splitTokens(run.text)...)
			} else {
				for _, r := range run.text {
					chunks = append(chunks, string(r))
				}
			}
		}
	}
	return chunks
}

// splitTokens splits text at wordsep matches, keeping the separators as
// chunks (the matches are the whitespace runs and compound words).
func splitTokens(text string) []string {
	var chunks []string
	runes := []rune(text)
	last := 0
	m, err := wordsep.FindStringMatch(text)
	for err == nil && m != nil {
		if m.Index > last {
			chunks = append(chunks, string(runes[last:m.Index]))
		}
		chunks = append(chunks, m.String())
		last = m.Index + m.Length
		m, err = wordsep.FindNextMatch(m)
	}
	if last < len(runes) {
		chunks = append(chunks, string(runes[last:]))
	}
	return chunks
}

func uniformWidth(chunk string) bool {
	for _, r := range chunk {
		if runewidth.RuneWidth(r) != 1 {
			return false
		}
	}
	return true
}

type widthRun struct {
	width int
	text  string
}

// groupByRuneWidth splits chunk into maximal runs of runes sharing the same
// display width.
func groupByRuneWidth(chunk string) []widthRun {
	var runs []widthRun
	var sb strings.Builder
	cur := -1
	for _, r := range chunk {
		rw := runewidth.RuneWidth(r)
		if rw != cur && sb.Len() > 0 {
			runs = append(runs, widthRun{width: cur, text: sb.String()})
			sb.Reset()
		}
		cur = rw
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		runs = append(runs, widthRun{width: cur, text: sb.String()})
	}
	return runs
}

// wrapChunks greedily packs chunks onto lines by display-column width.
func (w *Wrapper) wrapChunks(chunks []string) []string {
	var lines []string

	for len(chunks) > 0 {
		var curLine []string
		curLen := 0

		indent := w.opts.InitialIndent
		if len(lines) > 0 {
			indent = w.opts.SubsequentIndent
		}
		width := w.opts.Width - runewidth.StringWidth(indent)

		// A whitespace chunk at the start of a continuation line is noise.
		if w.opts.DropWhitespace && len(lines) > 0 && strings.TrimSpace(chunks[0]) == "" {
			chunks = chunks[1:]
		}

		for len(chunks) > 0 {
			cw := runewidth.StringWidth(chunks[0])
			if curLen+cw > width {
				break
			}
			curLine = append(curLine, chunks[0])
			curLen += cw
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && runewidth.StringWidth(chunks[0]) > width {
			chunks = w.handleLongWord(chunks, &curLine, curLen, width)
		}

		if w.opts.DropWhitespace && len(curLine) > 0 && strings.TrimSpace(curLine[len(curLine)-1]) == "" {
			curLine = curLine[:len(curLine)-1]
		}

		if len(curLine) > 0 {
			lines = append(lines, indent+strings.Join(curLine, ""))
		}
	}

	return lines
}

// handleLongWord places a chunk that is wider than the space remaining on
// the current line. With breaking enabled the chunk is split at a column
// boundary; otherwise it is deferred to the next line, or force-appended
// when the line is empty (a lone oversized chunk may overflow).
func (w *Wrapper) handleLongWord(chunks []string, curLine *[]string, curLen, width int) []string {
	spaceLeft := width - curLen
	if spaceLeft < 1 {
		spaceLeft = 1
	}

	if w.opts.BreakLongWords {
		head, rest := breakWord(chunks[0], spaceLeft)
		*curLine = append(*curLine, head)
		if rest == "" {
			return chunks[1:]
		}
		chunks[0] = rest
		return chunks
	}

	if len(*curLine) == 0 {
		*curLine = append(*curLine, chunks[0])
		return chunks[1:]
	}
	return chunks
}

// breakWord splits word at the last rune boundary whose cumulative display
// width fits in spaceLeft. A double-width rune is never split in half; when
// not even the first rune fits, that rune is taken whole so the wrap always
// makes progress.
func breakWord(word string, spaceLeft int) (head, rest string) {
	runes := []rune(word)
	total := 0
	for i, r := range runes {
		total += runewidth.RuneWidth(r)
		if total > spaceLeft {
			if i == 0 {
				return string(runes[:1]), string(runes[1:])
			}
			return string(runes[:i]), string(runes[i:])
		}
	}
	return word, ""
}
