// Package mdx renders a doctree document as MDX: Markdown extended with
// inline HTML tags, `:::` callout fences and `<dl>` API description blocks.
//
// A Translator is a doctree.Visitor; the walk drives it in depth-first
// enter/exit order and it reacts by pushing and popping output buffers. One
// Translator serves exactly one document; create a fresh one per call.
package mdx

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"

	"git.home.luguber.info/inful/mdxwriter/internal/doctree"
	"git.home.luguber.info/inful/mdxwriter/internal/textwrap"
)

// stdIndent is the indentation of nested block contexts (definitions, code
// blocks, description bodies).
const stdIndent = 4

// DefaultMaxLineWidth is used when Options.MaxLineWidth is zero.
const DefaultMaxLineWidth = 120

// Options configures a Translator.
type Options struct {
	// MaxLineWidth is the display-column width at which wrapped buffers
	// are re-flowed. Must be positive; zero selects the default.
	MaxLineWidth int
	// Labels overrides the display label for admonition kinds
	// (e.g. "note" -> "Nota"). Unlisted kinds keep the built-in label.
	Labels map[string]string
	// Logger receives diagnostics (unknown kinds, broken references).
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// bufferEntry is one element of an output buffer: either a raw text run,
// wrapped when the buffer is finalized, or a preformatted block of lines
// that bypasses wrapping.
type bufferEntry interface {
	isBufferEntry()
}

type textRun struct {
	text string
}

type preformatted struct {
	indent int
	lines  []string
}

func (textRun) isBufferEntry()      {}
func (preformatted) isBufferEntry() {}

// endBlank is the default buffer terminator: one empty line, which becomes
// the blank separator between blocks.
var endBlank = []string{""}

// Translator accumulates MDX output while a walk drives it over a document
// tree. All fields are per-run state.
type Translator struct {
	maxLineWidth int
	labels       map[string]string
	logger       *slog.Logger

	sectionLevel int
	messages     []string
	warned       map[doctree.Kind]struct{}

	states      [][]bufferEntry
	stateIndent []int

	listCounter     []int
	classifierCount int
	inLiteral       bool
	descCount       int
	refURI          string

	tableHeader   []string
	tableBody     [][]string
	currentRow    []string
	inTableHeader bool
	colWidths     []int
	colAligns     []doctree.Alignment

	body string
}

// New returns a Translator ready to translate one document.
func New(opts Options) *Translator {
	width := opts.MaxLineWidth
	if width == 0 {
		width = DefaultMaxLineWidth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	labels := make(map[string]string, len(admonitionLabels))
	for kind, label := range admonitionLabels {
		labels[kind] = label
	}
	for kind, label := range opts.Labels {
		labels[kind] = label
	}
	return &Translator{
		maxLineWidth: width,
		labels:       labels,
		logger:       logger,
		warned:       make(map[doctree.Kind]struct{}),
		states:       [][]bufferEntry{{}},
		stateIndent:  []int{0},
	}
}

// Translate walks root and returns the rendered document body. The only
// fatal condition is an invalid wrap width; recoverable conditions become
// diagnostics (see Messages) and leave the rest of the output intact.
func (t *Translator) Translate(root *doctree.Node) (string, error) {
	if t.maxLineWidth <= 0 {
		return "", fmt.Errorf("%w: %d", textwrap.ErrInvalidWidth, t.maxLineWidth)
	}
	if err := doctree.Walk(root, t); err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return t.body, nil
}

// Messages returns the recoverable diagnostics collected during the run.
func (t *Translator) Messages() []string {
	return t.messages
}

// Enter implements doctree.Visitor.
func (t *Translator) Enter(n *doctree.Node) (doctree.WalkStatus, error) {
	h, ok := handlers[n.Kind]
	if !ok {
		t.warnUnknown(n.Kind)
		return doctree.WalkSkipChildren, nil
	}
	if h.enter == nil {
		return doctree.WalkContinue, nil
	}
	return h.enter(t, n)
}

// Exit implements doctree.Visitor. It is never called for kinds whose Enter
// skipped the subtree, so the kind is always registered here.
func (t *Translator) Exit(n *doctree.Node) error {
	h := handlers[n.Kind]
	if h.exit == nil {
		return nil
	}
	return h.exit(t, n)
}

func (t *Translator) warnUnknown(kind doctree.Kind) {
	if _, seen := t.warned[kind]; seen {
		return
	}
	t.warned[kind] = struct{}{}
	t.messages = append(t.messages, fmt.Sprintf("unknown node kind %q, subtree skipped", kind))
	t.logger.Warn("unknown node kind, skipping subtree", slog.String("kind", string(kind)))
}

// addText appends a raw text run to the current buffer. Runs are
// concatenated and wrapped (or split into lines) when the buffer is
// finalized.
func (t *Translator) addText(text string) {
	top := len(t.states) - 1
	t.states[top] = append(t.states[top], textRun{text: text})
}

// newState opens a nested output buffer with the given relative indent.
func (t *Translator) newState(indent int) {
	t.states = append(t.states, nil)
	t.stateIndent = append(t.stateIndent, indent)
}

// endState finalizes the top buffer and folds it into its parent.
//
// Accumulated text runs are joined and either wrapped to the configured
// width (minus the total nesting indent) or split on their embedded
// newlines; each formatted group is terminated by end (endBlank yields the
// usual blank separator line, nil no terminator). Preformatted blocks pass
// through with their indent re-based onto this buffer's indent. A non-empty
// first is spliced into the first finalized line; when that line is empty
// the prefix becomes its own line instead.
func (t *Translator) endState(wrap bool, end []string, first string) error {
	top := len(t.states) - 1
	content := t.states[top]
	t.states = t.states[:top]

	maxIndent := 0
	for _, ind := range t.stateIndent {
		maxIndent += ind
	}
	indent := t.stateIndent[len(t.stateIndent)-1]
	t.stateIndent = t.stateIndent[:len(t.stateIndent)-1]

	var result []preformatted
	var toFormat []string

	doFormat := func() error {
		if len(toFormat) == 0 {
			return nil
		}
		joined := strings.Join(toFormat, "")
		toFormat = nil
		var res []string
		if wrap {
			wrapped, err := textwrap.Wrap(joined, t.maxLineWidth-maxIndent)
			if err != nil {
				return err
			}
			res = wrapped
		} else {
			res = splitLines(joined)
		}
		res = append(res, end...)
		result = append(result, preformatted{indent: indent, lines: res})
		return nil
	}

	for _, entry := range content {
		switch entry := entry.(type) {
		case textRun:
			toFormat = append(toFormat, entry.text)
		case preformatted:
			if err := doFormat(); err != nil {
				return err
			}
			result = append(result, preformatted{indent: indent + entry.indent, lines: entry.lines})
		}
	}
	if err := doFormat(); err != nil {
		return err
	}

	if first != "" && len(result) > 0 {
		newIndent := result[0].indent - indent
		if len(result[0].lines) == 1 && result[0].lines[0] == "" {
			result = append([]preformatted{{indent: newIndent, lines: []string{first}}}, result...)
		} else {
			line := first + result[0].lines[0]
			result[0].lines = result[0].lines[1:]
			result = append([]preformatted{{indent: newIndent, lines: []string{line}}}, result...)
		}
	}

	top = len(t.states) - 1
	for _, r := range result {
		t.states[top] = append(t.states[top], r)
	}
	return nil
}

// dropLastEntry removes the most recently folded entry from the current
// buffer. Bullet list items use it to discard their implicit blank
// terminator line.
func (t *Translator) dropLastEntry() {
	top := len(t.states) - 1
	if n := len(t.states[top]); n > 0 {
		t.states[top] = t.states[top][:n-1]
	}
}

// assemble joins the finalized root buffer into the document body: each
// line prefixed by its indent in spaces, empty lines kept empty.
func (t *Translator) assemble() {
	var lines []string
	for _, entry := range t.states[0] {
		pre, ok := entry.(preformatted)
		if !ok {
			continue
		}
		for _, line := range pre.lines {
			if line == "" {
				lines = append(lines, "")
			} else {
				lines = append(lines, strings.Repeat(" ", pre.indent)+line)
			}
		}
	}
	t.body = strings.Join(lines, "\n")

	if len(t.messages) > 0 {
		for _, msg := range t.messages {
			t.logger.Info("translator diagnostic", slog.String("message", msg))
		}
	}
}

// splitLines splits on newlines without producing a final empty element for
// a trailing newline, mirroring how preformatted buffers are laid out.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// labelFor returns the display label for an admonition kind. Every specific
// admonition kind has a built-in label; the kind name is the fallback for
// labels erased by a caller-supplied map.
func (t *Translator) labelFor(kind doctree.Kind) string {
	if label, ok := t.labels[string(kind)]; ok && label != "" {
		return label
	}
	return string(kind)
}

// labelWidth is the display width a label prefix adds to a line.
func labelWidth(label string) int {
	return runewidth.StringWidth(label)
}
