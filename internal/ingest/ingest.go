// Package ingest builds doctree documents from Markdown source using
// Goldmark (with GFM tables), so the translator has a real tree producer.
//
// Markdown is flat where the doctree is nested: headings become nested
// section/title structure by level. Constructs without a doctree equivalent
// (blockquotes, thematic breaks, raw HTML) are mapped to their docutils kind
// names and left to the translator's unknown-kind policy instead of being
// silently dropped here.
package ingest

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdxwriter/internal/doctree"
)

// minColumnWidth keeps separator rows legible for very narrow columns.
const minColumnWidth = 3

// Parse converts Markdown source into a doctree document.
func Parse(source []byte) (*doctree.Node, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(source))

	c := &converter{source: source}
	doc := doctree.New(doctree.KindDocument)

	type openSection struct {
		node  *doctree.Node
		level int
	}
	var stack []openSection
	current := func() *doctree.Node {
		if len(stack) > 0 {
			return stack[len(stack)-1].node
		}
		return doc
	}

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if h, ok := child.(*ast.Heading); ok {
			for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			title := doctree.New(doctree.KindTitle)
			title.AppendChild(c.inlines(h)...)
			section := doctree.New(doctree.KindSection)
			section.AppendChild(title)
			current().AppendChild(section)
			stack = append(stack, openSection{node: section, level: h.Level})
			continue
		}
		current().AppendChild(c.blocks(child)...)
	}
	return doc, nil
}

type converter struct {
	source []byte
}

// blocks converts one Goldmark block node into doctree nodes.
func (c *converter) blocks(n ast.Node) []*doctree.Node {
	switch n := n.(type) {
	case *ast.Paragraph:
		p := doctree.New(doctree.KindParagraph)
		p.AppendChild(c.inlines(n)...)
		return one(p)
	case *ast.TextBlock:
		// Tight list items carry a TextBlock instead of a Paragraph; the
		// doctree has no such distinction.
		p := doctree.New(doctree.KindParagraph)
		p.AppendChild(c.inlines(n)...)
		return one(p)
	case *ast.FencedCodeBlock:
		lb := doctree.New(doctree.KindLiteralBlock)
		lb.Language = string(n.Language(c.source))
		lb.AppendChild(doctree.NewText(c.blockText(n)))
		return one(lb)
	case *ast.CodeBlock:
		lb := doctree.New(doctree.KindLiteralBlock)
		lb.AppendChild(doctree.NewText(c.blockText(n)))
		return one(lb)
	case *ast.List:
		return one(c.list(n))
	case *east.Table:
		return one(c.table(n))
	case *ast.Heading:
		// A heading below the document level (goldmark only nests them
		// inside containers we do not translate) renders as a rubric.
		r := doctree.New(doctree.KindRubric)
		r.AppendChild(c.inlines(n)...)
		return one(r)
	case *ast.Blockquote:
		return one(doctree.New("block_quote"))
	case *ast.ThematicBreak:
		return one(doctree.New("transition"))
	case *ast.HTMLBlock:
		return one(doctree.New("raw"))
	default:
		return one(doctree.New(doctree.Kind(strings.ToLower(n.Kind().String()))))
	}
}

func (c *converter) list(n *ast.List) *doctree.Node {
	var list *doctree.Node
	if n.IsOrdered() {
		list = doctree.New(doctree.KindEnumeratedList)
		list.Start = n.Start
	} else {
		list = doctree.New(doctree.KindBulletList)
	}
	for it := n.FirstChild(); it != nil; it = it.NextSibling() {
		item := doctree.New(doctree.KindListItem)
		for b := it.FirstChild(); b != nil; b = b.NextSibling() {
			item.AppendChild(c.blocks(b)...)
		}
		list.AppendChild(item)
	}
	return list
}

func (c *converter) table(n *east.Table) *doctree.Node {
	colCount := len(n.Alignments)
	colWidths := make([]int, colCount)

	rowFrom := func(r ast.Node) *doctree.Node {
		row := doctree.New(doctree.KindRow)
		col := 0
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			p := doctree.New(doctree.KindParagraph)
			p.AppendChild(c.inlines(cell)...)
			entry := doctree.New(doctree.KindEntry)
			entry.AppendChild(p)
			row.AppendChild(entry)
			if col < colCount {
				if w := runewidth.StringWidth(c.textOf(cell)); w > colWidths[col] {
					colWidths[col] = w
				}
			}
			col++
		}
		return row
	}

	var header *doctree.Node
	var bodyRows []*doctree.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *east.TableHeader:
			header = rowFrom(child)
		case *east.TableRow:
			bodyRows = append(bodyRows, rowFrom(child))
		}
	}

	tgroup := doctree.New(doctree.KindTGroup)
	for i, align := range n.Alignments {
		spec := doctree.New(doctree.KindColSpec)
		spec.ColWidth = colWidths[i]
		if spec.ColWidth < minColumnWidth {
			spec.ColWidth = minColumnWidth
		}
		spec.Align = convertAlignment(align)
		tgroup.AppendChild(spec)
	}
	if header != nil {
		thead := doctree.New(doctree.KindTHead)
		thead.AppendChild(header)
		tgroup.AppendChild(thead)
	}
	tbody := doctree.New(doctree.KindTBody)
	tbody.AppendChild(bodyRows...)
	tgroup.AppendChild(tbody)

	table := doctree.New(doctree.KindTable)
	table.AppendChild(tgroup)
	return table
}

func convertAlignment(a east.Alignment) doctree.Alignment {
	switch a {
	case east.AlignLeft:
		return doctree.AlignLeft
	case east.AlignRight:
		return doctree.AlignRight
	case east.AlignCenter:
		return doctree.AlignCenter
	default:
		return doctree.AlignDefault
	}
}

// inlines converts all children of parent as inline content.
func (c *converter) inlines(parent ast.Node) []*doctree.Node {
	var out []*doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.inline(n)...)
	}
	return out
}

func (c *converter) inline(n ast.Node) []*doctree.Node {
	switch n := n.(type) {
	case *ast.Text:
		nodes := one(doctree.NewText(string(n.Segment.Value(c.source))))
		if n.SoftLineBreak() || n.HardLineBreak() {
			nodes = append(nodes, doctree.NewText("\n"))
		}
		return nodes
	case *ast.String:
		return one(doctree.NewText(string(n.Value)))
	case *ast.Emphasis:
		kind := doctree.KindEmphasis
		if n.Level >= 2 {
			kind = doctree.KindStrong
		}
		node := doctree.New(kind)
		node.AppendChild(c.inlines(n)...)
		return one(node)
	case *ast.CodeSpan:
		lit := doctree.New(doctree.KindLiteral)
		lit.AppendChild(doctree.NewText(c.textOf(n)))
		return one(lit)
	case *ast.Link:
		ref := doctree.New(doctree.KindReference)
		ref.RefURI = string(n.Destination)
		ref.HasRefURI = true
		ref.AppendChild(c.inlines(n)...)
		return one(ref)
	case *ast.AutoLink:
		url := string(n.URL(c.source))
		ref := doctree.New(doctree.KindReference)
		ref.RefURI = url
		ref.HasRefURI = true
		ref.AppendChild(doctree.NewText(url))
		return one(ref)
	case *ast.Image:
		img := doctree.New(doctree.KindImage)
		img.URI = string(n.Destination)
		img.Alt = c.textOf(n)
		return one(img)
	case *ast.RawHTML:
		return one(doctree.New("raw"))
	default:
		return one(doctree.New(doctree.Kind(strings.ToLower(n.Kind().String()))))
	}
}

// textOf returns the plain text of a Goldmark subtree.
func (c *converter) textOf(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := node.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(c.source))
		case *ast.String:
			sb.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// blockText joins the source lines of a code block, without the trailing
// newline (the translator adds its own fencing).
func (c *converter) blockText(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.source))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func one(n *doctree.Node) []*doctree.Node {
	return []*doctree.Node{n}
}
