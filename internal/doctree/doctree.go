// Package doctree defines the read-only document tree consumed by the MDX
// translator and a depth-first walker that drives visitors over it.
//
// The tree is produced elsewhere (see internal/ingest); the translator never
// mutates it. Kinds follow the docutils node vocabulary so that trees built
// from other frontends map onto the same visitor table.
package doctree

import "strings"

// Kind identifies the node variant. It is a string so that producers can
// carry kinds this package does not enumerate; visitors treat those through
// their unknown-kind policy instead of failing.
type Kind string

// Structural kinds.
const (
	KindDocument  Kind = "document"
	KindSection   Kind = "section"
	KindTitle     Kind = "title"
	KindSubtitle  Kind = "subtitle"
	KindParagraph Kind = "paragraph"
	KindTopic     Kind = "topic"
	KindSidebar   Kind = "sidebar"
	KindRubric    Kind = "rubric"
	KindCompound  Kind = "compound"
	KindGlossary  Kind = "glossary"
	KindComment   Kind = "comment"
	KindTarget    Kind = "target"
	KindIndex     Kind = "index"
	KindToctree   Kind = "toctree"
	KindText      Kind = "text"
)

// Inline kinds.
const (
	KindEmphasis       Kind = "emphasis"
	KindStrong         Kind = "strong"
	KindLiteralEmph    Kind = "literal_emphasis"
	KindLiteralStrong  Kind = "literal_strong"
	KindLiteral        Kind = "literal"
	KindInline         Kind = "inline"
	KindReference      Kind = "reference"
	KindTitleReference Kind = "title_reference"
	KindImage          Kind = "image"
	KindProblematic    Kind = "problematic"
	KindAttribution    Kind = "attribution"
)

// Block kinds.
const (
	KindLiteralBlock Kind = "literal_block"
	KindFlag         Kind = "flag"
)

// Admonition kinds.
const (
	KindAdmonition Kind = "admonition"
	KindAttention  Kind = "attention"
	KindCaution    Kind = "caution"
	KindDanger     Kind = "danger"
	KindError      Kind = "error"
	KindHint       Kind = "hint"
	KindImportant  Kind = "important"
	KindNote       Kind = "note"
	KindTip        Kind = "tip"
	KindWarning    Kind = "warning"
	KindSeeAlso    Kind = "seealso"
)

// List kinds.
const (
	KindBulletList         Kind = "bullet_list"
	KindEnumeratedList     Kind = "enumerated_list"
	KindListItem           Kind = "list_item"
	KindDefinitionList     Kind = "definition_list"
	KindDefinitionListItem Kind = "definition_list_item"
	KindTerm               Kind = "term"
	KindClassifier         Kind = "classifier"
	KindDefinition         Kind = "definition"
	KindFieldList          Kind = "field_list"
	KindField              Kind = "field"
	KindFieldName          Kind = "field_name"
	KindFieldBody          Kind = "field_body"
)

// Table kinds.
const (
	KindTable   Kind = "table"
	KindTGroup  Kind = "tgroup"
	KindColSpec Kind = "colspec"
	KindTHead   Kind = "thead"
	KindTBody   Kind = "tbody"
	KindRow     Kind = "row"
	KindEntry   Kind = "entry"
)

// API description kinds.
const (
	KindDesc              Kind = "desc"
	KindDescSignature     Kind = "desc_signature"
	KindDescSignatureLine Kind = "desc_signature_line"
	KindDescContent       Kind = "desc_content"
	KindDescInline        Kind = "desc_inline"
	KindDescName          Kind = "desc_name"
	KindDescAddname       Kind = "desc_addname"
	KindDescType          Kind = "desc_type"
	KindDescReturns       Kind = "desc_returns"
	KindDescParameterList Kind = "desc_parameterlist"
	KindDescParameter     Kind = "desc_parameter"
	KindDescAnnotation    Kind = "desc_annotation"
	KindDescSigSpace      Kind = "desc_sig_space"
)

// Alignment is a table column alignment from a colspec node.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignRight   Alignment = "right"
	AlignCenter  Alignment = "center"
)

// Node is one element of the document tree. Parent is a back-reference
// maintained by AppendChild; it is never an ownership edge and visitors use
// it only for context checks (e.g. "am I the sole paragraph of a list
// item"). Attribute fields are meaningful only for the kinds that carry
// them; the zero value is "absent".
type Node struct {
	Kind     Kind
	Parent   *Node
	Children []*Node

	// Content carries the payload of text nodes.
	Content string

	// Reference attributes. HasRefURI distinguishes an explicit empty
	// target from an absent one.
	RefURI    string
	HasRefURI bool
	RefID     string

	// Image attributes.
	URI string
	Alt string

	// Literal block language tag.
	Language string

	// Enumerated list start value; 0 means unset (start at 1).
	Start int

	// Colspec attributes.
	ColWidth int
	Align    Alignment

	// Flag (callout) attributes.
	FlagType string
	Message  string
}

// New returns a node of the given kind with no children.
func New(kind Kind) *Node {
	return &Node{Kind: kind}
}

// NewText returns a text node carrying content.
func NewText(content string) *Node {
	return &Node{Kind: KindText, Content: content}
}

// AppendChild attaches child to n, setting its parent link, and returns n
// so construction can chain.
func (n *Node) AppendChild(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Text returns the concatenated content of all text nodes in n's subtree,
// in document order.
func (n *Node) Text() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	if n.Kind == KindText {
		sb.WriteString(n.Content)
		return
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

// CountDescendants returns the number of nodes of the given kind in n's
// subtree, excluding n itself.
func (n *Node) CountDescendants(kind Kind) int {
	count := 0
	for _, c := range n.Children {
		if c.Kind == kind {
			count++
		}
		count += c.CountDescendants(kind)
	}
	return count
}
