package mdx

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdxwriter/internal/doctree"
)

// List context markers stored on the list counter stack. Non-negative
// values are the running item counter of an enumerated list.
const (
	bulletListMarker     = -1
	definitionListMarker = -2
)

// handler pairs the enter and exit hooks for a node kind. A nil hook is a
// pass-through; a kind absent from the table is unknown and its subtree is
// skipped.
type handler struct {
	enter func(*Translator, *doctree.Node) (doctree.WalkStatus, error)
	exit  func(*Translator, *doctree.Node) error
}

var handlers = map[doctree.Kind]handler{
	doctree.KindText:     {enter: enterText},
	doctree.KindDocument: {enter: enterDocument, exit: exitDocument},
	doctree.KindSection:  {enter: enterSection, exit: exitSection},
	doctree.KindTitle:    {enter: enterTitle, exit: exitTitle},
	doctree.KindSubtitle: {},

	doctree.KindTopic:       {enter: enterUnwrappedBlock, exit: exitUnwrappedBlock},
	doctree.KindSidebar:     {enter: enterUnwrappedBlock, exit: exitUnwrappedBlock},
	doctree.KindRubric:      {enter: enterRubric, exit: exitRubric},
	doctree.KindCompound:    {},
	doctree.KindGlossary:    {},
	doctree.KindAttribution: {},
	doctree.KindParagraph:   {enter: enterParagraph, exit: exitParagraph},
	doctree.KindTarget:      {},

	doctree.KindComment: {enter: skipSubtree},
	doctree.KindIndex:   {enter: skipSubtree},
	doctree.KindToctree: {enter: skipSubtree},

	doctree.KindReference:      {enter: enterReference, exit: exitReference},
	doctree.KindTitleReference: {enter: emit("<cite>"), exit: emitExit("</cite>")},
	doctree.KindImage:          {enter: enterImage},
	doctree.KindProblematic:    {enter: enterProblematic},

	doctree.KindEmphasis:      {enter: emit("<em>"), exit: emitExit("</em>")},
	doctree.KindLiteralEmph:   {enter: emit("<em>"), exit: emitExit("</em>")},
	doctree.KindStrong:        {enter: emit("<strong>"), exit: emitExit("</strong>")},
	doctree.KindLiteralStrong: {enter: emit("<strong>"), exit: emitExit("</strong>")},
	doctree.KindLiteral:       {enter: enterLiteral, exit: exitLiteral},
	doctree.KindInline:        {enter: enterLiteral, exit: exitLiteral},
	doctree.KindLiteralBlock:  {enter: enterLiteralBlock, exit: exitLiteralBlock},

	doctree.KindAdmonition: {enter: enterAdmonition, exit: exitAdmonition},

	doctree.KindBulletList:         {enter: enterBulletList, exit: exitBulletList},
	doctree.KindEnumeratedList:     {enter: enterEnumeratedList, exit: exitEnumeratedList},
	doctree.KindListItem:           {enter: enterListItem, exit: exitListItem},
	doctree.KindDefinitionList:     {enter: enterDefinitionList, exit: exitDefinitionList},
	doctree.KindDefinitionListItem: {enter: enterDefinitionListItem},
	doctree.KindTerm:               {enter: enterTerm, exit: exitTerm},
	doctree.KindClassifier:         {enter: enterClassifier, exit: exitClassifier},
	doctree.KindDefinition:         {enter: enterDefinition, exit: exitDefinition},
	doctree.KindFieldList:          {enter: enterFieldList, exit: exitFieldList},
	doctree.KindField:              {},
	doctree.KindFieldName:          {exit: exitFieldName},
	doctree.KindFieldBody:          {},

	doctree.KindTable:   {enter: enterTable, exit: exitTable},
	doctree.KindTGroup:  {enter: enterTGroup},
	doctree.KindColSpec: {enter: enterColSpec},
	doctree.KindTHead:   {enter: enterTHead, exit: exitTHead},
	doctree.KindTBody:   {},
	doctree.KindRow:     {enter: enterRow, exit: exitRow},
	doctree.KindEntry:   {enter: enterEntry, exit: exitEntry},

	doctree.KindFlag: {enter: enterFlag, exit: exitFlag},

	doctree.KindDesc:              {enter: enterDesc, exit: exitDesc},
	doctree.KindDescSignature:     {enter: enterDescSignature, exit: exitDescSignature},
	doctree.KindDescSignatureLine: {},
	doctree.KindDescContent:       {enter: enterDescContent, exit: exitDescContent},
	doctree.KindDescInline:        {enter: emit("<span>"), exit: emitExit("</span>")},
	doctree.KindDescName:          {},
	doctree.KindDescAddname:       {},
	doctree.KindDescType:          {},
	doctree.KindDescReturns:       {enter: emit(" -> ")},
	doctree.KindDescParameterList: {enter: skipSubtree},
	doctree.KindDescParameter:     {},
	doctree.KindDescAnnotation:    {},
	doctree.KindDescSigSpace:      {},
}

// The labeled admonition kinds share one handler pair, the way the generic
// one does not: they render an indented block prefixed by their label.
func init() {
	for _, kind := range []doctree.Kind{
		doctree.KindAttention,
		doctree.KindCaution,
		doctree.KindDanger,
		doctree.KindError,
		doctree.KindHint,
		doctree.KindImportant,
		doctree.KindNote,
		doctree.KindTip,
		doctree.KindWarning,
		doctree.KindSeeAlso,
	} {
		handlers[kind] = handler{enter: enterLabeledAdmonition, exit: exitLabeledAdmonition}
	}
}

func skipSubtree(*Translator, *doctree.Node) (doctree.WalkStatus, error) {
	return doctree.WalkSkipChildren, nil
}

// emit returns an enter hook that appends a fixed token, for inline tags.
func emit(token string) func(*Translator, *doctree.Node) (doctree.WalkStatus, error) {
	return func(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
		t.addText(token)
		return doctree.WalkContinue, nil
	}
}

func emitExit(token string) func(*Translator, *doctree.Node) error {
	return func(t *Translator, _ *doctree.Node) error {
		t.addText(token)
		return nil
	}
}

// Document and sections
// ---------------------

func enterDocument(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitDocument(t *Translator, _ *doctree.Node) error {
	if err := t.endState(false, endBlank, ""); err != nil {
		return err
	}
	t.assemble()
	return nil
}

func enterSection(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.sectionLevel++
	return doctree.WalkContinue, nil
}

func exitSection(t *Translator, _ *doctree.Node) error {
	t.sectionLevel--
	return nil
}

func enterTitle(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	// An admonition title folds into the block as "Title: " rather than
	// becoming a heading.
	if n.Parent != nil && isAdmonitionKind(n.Parent.Kind) {
		t.addText(n.Text() + ": ")
		return doctree.WalkSkipChildren, nil
	}
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitTitle(t *Translator, _ *doctree.Node) error {
	prefix := strings.Repeat("#", t.sectionLevel) + " "
	return t.endState(true, endBlank, prefix)
}

func enterUnwrappedBlock(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitUnwrappedBlock(t *Translator, _ *doctree.Node) error {
	return t.endState(false, endBlank, "")
}

func enterRubric(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitRubric(t *Translator, _ *doctree.Node) error {
	t.addText(":")
	return t.endState(true, endBlank, "")
}

// Paragraphs
// ----------

// inlineParagraphParents are the containers whose sole paragraph child is
// rendered inline, without a buffer of its own.
var inlineParagraphParents = map[doctree.Kind]struct{}{
	doctree.KindListItem:    {},
	doctree.KindEntry:       {},
	doctree.KindDescContent: {},
	doctree.KindFieldBody:   {},
}

func paragraphInline(n *doctree.Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	_, ok := inlineParagraphParents[p.Kind]
	return ok && len(p.Children) == 1
}

func enterParagraph(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	if !paragraphInline(n) {
		t.newState(0)
	}
	return doctree.WalkContinue, nil
}

func exitParagraph(t *Translator, n *doctree.Node) error {
	if !paragraphInline(n) {
		return t.endState(true, endBlank, "")
	}
	return nil
}

// Text and inline markup
// ----------------------

func enterText(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	// A reference renders its own text as part of the link syntax.
	if n.Parent != nil && n.Parent.Kind == doctree.KindReference {
		return doctree.WalkContinue, nil
	}
	content := n.Content
	if t.inLiteral {
		// MDX treats < as a tag opener even in code contexts.
		content = strings.ReplaceAll(content, "<", "\\<")
	}
	t.addText(content)
	return doctree.WalkContinue, nil
}

func enterReference(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	var uri string
	switch {
	case n.HasRefURI:
		uri = n.RefURI
	case n.RefID != "":
		uri = "#" + n.RefID
	default:
		t.messages = append(t.messages, `reference has neither "refuri" nor "refid", node skipped`)
		return doctree.WalkSkipChildren, nil
	}
	t.refURI = uri
	t.addText("[" + n.Text() + "](" + uri + ")")
	return doctree.WalkContinue, nil
}

func exitReference(t *Translator, _ *doctree.Node) error {
	t.refURI = ""
	return nil
}

func enterImage(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	t.addText("![" + n.Alt + "](" + n.URI + ")")
	return doctree.WalkContinue, nil
}

func enterProblematic(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	// Malformed inline markup is rendered verbatim inside a fence so it
	// cannot inject markup.
	t.addText("```\n" + n.Text() + "\n```")
	return doctree.WalkSkipChildren, nil
}

func enterLiteral(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.inLiteral = true
	t.addText("`")
	return doctree.WalkContinue, nil
}

func exitLiteral(t *Translator, _ *doctree.Node) error {
	t.inLiteral = false
	t.addText("`")
	return nil
}

func enterLiteralBlock(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	t.inLiteral = true
	lang := n.Language
	if lang == "" {
		lang = "default"
	}
	t.newState(stdIndent)
	t.addText("```" + lang + "\n")
	return doctree.WalkContinue, nil
}

func exitLiteralBlock(t *Translator, _ *doctree.Node) error {
	t.inLiteral = false
	return t.endState(false, []string{"```"}, "")
}

// Admonitions
// -----------

func enterAdmonition(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitAdmonition(t *Translator, _ *doctree.Node) error {
	return t.endState(true, endBlank, "")
}

func enterLabeledAdmonition(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(2)
	return doctree.WalkContinue, nil
}

func exitLabeledAdmonition(t *Translator, n *doctree.Node) error {
	label := t.labelFor(n.Kind)
	// Continuation lines align under the text after "Label: ".
	t.stateIndent[len(t.stateIndent)-1] += labelWidth(label)
	return t.endState(true, endBlank, label+": ")
}

func isAdmonitionKind(kind doctree.Kind) bool {
	switch kind {
	case doctree.KindAdmonition, doctree.KindAttention, doctree.KindCaution,
		doctree.KindDanger, doctree.KindError, doctree.KindHint,
		doctree.KindImportant, doctree.KindNote, doctree.KindTip,
		doctree.KindWarning, doctree.KindSeeAlso:
		return true
	}
	return false
}

// Lists
// -----

func enterBulletList(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.listCounter = append(t.listCounter, bulletListMarker)
	// Indent 0: markers sit at the enclosing indent, continuation lines
	// indent under the item, and nested lists shift by the item's indent.
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitBulletList(t *Translator, _ *doctree.Node) error {
	t.listCounter = t.listCounter[:len(t.listCounter)-1]
	t.addText("\n")
	return t.endState(false, endBlank, "")
}

func enterEnumeratedList(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	start := n.Start
	if start == 0 {
		start = 1
	}
	t.listCounter = append(t.listCounter, start-1)
	return doctree.WalkContinue, nil
}

func exitEnumeratedList(t *Translator, _ *doctree.Node) error {
	t.listCounter = t.listCounter[:len(t.listCounter)-1]
	return nil
}

func enterListItem(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	top := len(t.listCounter) - 1
	switch t.listCounter[top] {
	case bulletListMarker:
		t.newState(2)
	case definitionListMarker:
		// Definition list items render through term/classifier/definition.
	default:
		t.listCounter[top]++
		t.newState(len(strconv.Itoa(t.listCounter[top])) + 2)
	}
	return doctree.WalkContinue, nil
}

func exitListItem(t *Translator, _ *doctree.Node) error {
	counter := t.listCounter[len(t.listCounter)-1]
	switch counter {
	case bulletListMarker:
		if err := t.endState(false, endBlank, "- "); err != nil {
			return err
		}
		// The blank terminator belongs between items only; the list adds
		// its own trailing blank line.
		t.dropLastEntry()
		return nil
	case definitionListMarker:
		return nil
	default:
		return t.endState(false, nil, strconv.Itoa(counter)+". ")
	}
}

func enterDefinitionList(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.listCounter = append(t.listCounter, definitionListMarker)
	return doctree.WalkContinue, nil
}

func exitDefinitionList(t *Translator, _ *doctree.Node) error {
	t.listCounter = t.listCounter[:len(t.listCounter)-1]
	return nil
}

func enterDefinitionListItem(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	// The term and its classifiers share one buffer, finalized by whichever
	// of them sees the count reach zero.
	t.classifierCount = n.CountDescendants(doctree.KindClassifier)
	return doctree.WalkContinue, nil
}

func enterTerm(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitTerm(t *Translator, _ *doctree.Node) error {
	if t.classifierCount == 0 {
		return t.endState(true, nil, "")
	}
	return nil
}

func enterClassifier(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.addText(" : ")
	return doctree.WalkContinue, nil
}

func exitClassifier(t *Translator, _ *doctree.Node) error {
	t.classifierCount--
	if t.classifierCount == 0 {
		return t.endState(true, nil, "")
	}
	return nil
}

func enterDefinition(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(stdIndent)
	return doctree.WalkContinue, nil
}

func exitDefinition(t *Translator, _ *doctree.Node) error {
	return t.endState(true, endBlank, "")
}

func enterFieldList(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

func exitFieldList(t *Translator, _ *doctree.Node) error {
	return t.endState(false, nil, "")
}

func exitFieldName(t *Translator, _ *doctree.Node) error {
	t.addText(": ")
	return nil
}

// Tables
// ------

func enterTable(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	t.tableHeader = nil
	t.tableBody = nil
	t.currentRow = nil
	t.inTableHeader = false
	return doctree.WalkContinue, nil
}

func exitTable(t *Translator, _ *doctree.Node) error {
	if len(t.tableHeader) > 0 {
		t.addText("| " + strings.Join(t.tableHeader, " | ") + " |\n")
		separators := make([]string, len(t.colWidths))
		for i, width := range t.colWidths {
			separators[i] = columnSeparator(width, t.colAligns[i])
		}
		t.addText("| " + strings.Join(separators, " | ") + " |\n")
	}
	for _, row := range t.tableBody {
		t.addText("| " + strings.Join(row, " | ") + " |\n")
	}
	t.addText("\n")
	if err := t.endState(false, endBlank, ""); err != nil {
		return err
	}
	t.tableHeader = nil
	t.tableBody = nil
	t.currentRow = nil
	return nil
}

// columnSeparator renders one cell of the alignment separator row.
func columnSeparator(width int, align doctree.Alignment) string {
	switch align {
	case doctree.AlignLeft:
		return ":" + dashes(width-1)
	case doctree.AlignRight:
		return dashes(width-1) + ":"
	case doctree.AlignCenter:
		return ":" + dashes(width-2) + ":"
	default:
		return dashes(width)
	}
}

func dashes(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("-", n)
}

func enterTGroup(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.colWidths = nil
	t.colAligns = nil
	return doctree.WalkContinue, nil
}

func enterColSpec(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	t.colWidths = append(t.colWidths, n.ColWidth)
	t.colAligns = append(t.colAligns, n.Align)
	return doctree.WalkContinue, nil
}

func enterTHead(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.inTableHeader = true
	return doctree.WalkContinue, nil
}

func exitTHead(t *Translator, _ *doctree.Node) error {
	t.inTableHeader = false
	return nil
}

func enterRow(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.currentRow = nil
	return doctree.WalkContinue, nil
}

func exitRow(t *Translator, _ *doctree.Node) error {
	if t.inTableHeader {
		t.tableHeader = t.currentRow
	} else {
		t.tableBody = append(t.tableBody, t.currentRow)
	}
	return nil
}

func enterEntry(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(0)
	return doctree.WalkContinue, nil
}

// exitEntry collapses the cell's buffer into a single string: a table cell
// cannot span lines, so internal wrapping is flattened and newlines
// removed.
func exitEntry(t *Translator, _ *doctree.Node) error {
	top := len(t.states) - 1
	content := t.states[top]
	t.states = t.states[:top]
	t.stateIndent = t.stateIndent[:len(t.stateIndent)-1]

	var parts []string
	for _, entry := range content {
		switch entry := entry.(type) {
		case textRun:
			if entry.text != "" {
				parts = append(parts, strings.TrimSpace(entry.text))
			}
		case preformatted:
			if len(entry.lines) > 0 {
				parts = append(parts, strings.TrimSpace(entry.lines[0]))
			}
		}
	}
	cell := strings.ReplaceAll(strings.Join(parts, "\n"), "\n", "")
	t.currentRow = append(t.currentRow, cell)
	return nil
}

// Callout flags
// -------------

func enterFlag(t *Translator, n *doctree.Node) (doctree.WalkStatus, error) {
	severity := "info"
	switch n.FlagType {
	case "experimental":
		severity = "danger"
	case "deprecated":
		severity = "warning"
	}
	// The fence delimiter must not appear inside the fence.
	message := strings.ReplaceAll(n.Message, ":::", "")

	t.newState(stdIndent)
	t.addText(":::" + severity + "[" + n.FlagType + "]\n")
	t.addText(message + "\n")
	return doctree.WalkContinue, nil
}

func exitFlag(t *Translator, _ *doctree.Node) error {
	t.addText("\n:::\n")
	return t.endState(false, endBlank, "")
}

// API description blocks
// ----------------------

func enterDesc(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.descCount++
	t.newState(0)
	t.addText("<dl>")
	return doctree.WalkContinue, nil
}

func exitDesc(t *Translator, _ *doctree.Node) error {
	t.addText("</dl>")
	if err := t.endState(false, nil, ""); err != nil {
		return err
	}
	t.descCount--
	return nil
}

func enterDescSignature(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(stdIndent)
	t.addText("<dt>")
	return doctree.WalkContinue, nil
}

func exitDescSignature(t *Translator, _ *doctree.Node) error {
	t.addText("</dt>")
	return t.endState(false, nil, "")
}

func enterDescContent(t *Translator, _ *doctree.Node) (doctree.WalkStatus, error) {
	t.newState(stdIndent)
	t.addText("<dd>")
	return doctree.WalkContinue, nil
}

func exitDescContent(t *Translator, _ *doctree.Node) error {
	t.addText("</dd>")
	return t.endState(false, nil, "")
}
