package mdx

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxwriter/internal/doctree"
	"git.home.luguber.info/inful/mdxwriter/internal/textwrap"
)

func node(kind doctree.Kind, children ...*doctree.Node) *doctree.Node {
	n := doctree.New(kind)
	n.AppendChild(children...)
	return n
}

func txt(s string) *doctree.Node { return doctree.NewText(s) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func translate(t *testing.T, root *doctree.Node) string {
	t.Helper()
	tr := New(Options{Logger: quietLogger()})
	body, err := tr.Translate(root)
	require.NoError(t, err)
	return body
}

func TestTranslate_SectionTitle_RendersATXHeading(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindSection,
			node(doctree.KindTitle, txt("Intro"))))

	require.Equal(t, "# Intro\n", translate(t, doc))
}

func TestTranslate_NestedSections_DeepenHeadingLevel(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindSection,
			node(doctree.KindTitle, txt("A")),
			node(doctree.KindSection,
				node(doctree.KindTitle, txt("B")))))

	require.Equal(t, []string{"# A", "", "## B", ""}, strings.Split(translate(t, doc), "\n"))
}

func TestTranslate_BulletList_MarkersAtColumnZero(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindBulletList,
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("a"))),
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("b")))))

	lines := strings.Split(translate(t, doc), "\n")
	require.Equal(t, "- a", lines[0])
	require.Equal(t, "- b", lines[1])
}

func TestTranslate_NestedBulletList_IndentsUnderItem(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindBulletList,
			node(doctree.KindListItem,
				node(doctree.KindParagraph, txt("a")),
				node(doctree.KindBulletList,
					node(doctree.KindListItem, node(doctree.KindParagraph, txt("b")))))))

	require.Equal(t, "- a\n\n  - b\n\n", translate(t, doc))
}

func TestTranslate_EnumeratedList_CountsFromStart(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindEnumeratedList,
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("x"))),
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("y"))),
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("z")))))
	doc.Children[0].Start = 3

	require.Equal(t, []string{"3. x", "4. y", "5. z"}, strings.Split(translate(t, doc), "\n"))
}

func TestTranslate_EnumeratedList_DefaultStartIsOne(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindEnumeratedList,
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("first"))),
			node(doctree.KindListItem, node(doctree.KindParagraph, txt("second")))))

	require.Equal(t, []string{"1. first", "2. second"}, strings.Split(translate(t, doc), "\n"))
}

func TestTranslate_Reference_RendersInlineLink(t *testing.T) {
	ref := doctree.New(doctree.KindReference)
	ref.RefURI = "http://x"
	ref.HasRefURI = true
	ref.AppendChild(txt("click"))
	doc := node(doctree.KindDocument, node(doctree.KindParagraph, ref))

	require.Equal(t, "[click](http://x)", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_Reference_RefIDBecomesFragment(t *testing.T) {
	ref := doctree.New(doctree.KindReference)
	ref.RefID = "frag"
	ref.AppendChild(txt("t"))
	doc := node(doctree.KindDocument, node(doctree.KindParagraph, ref))

	require.Equal(t, "[t](#frag)", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_Reference_MissingTarget_SkippedWithDiagnostic(t *testing.T) {
	ref := doctree.New(doctree.KindReference)
	ref.AppendChild(txt("broken"))
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph, txt("before "), ref, txt(" after")))

	tr := New(Options{Logger: quietLogger()})
	body, err := tr.Translate(doc)
	require.NoError(t, err)
	require.Equal(t, "before  after", strings.Split(body, "\n")[0])
	require.NotContains(t, body, "broken")
	require.Len(t, tr.Messages(), 1)
}

func TestTranslate_Image(t *testing.T) {
	img := doctree.New(doctree.KindImage)
	img.URI = "img.png"
	img.Alt = "alt"
	doc := node(doctree.KindDocument, node(doctree.KindParagraph, img))

	require.Equal(t, "![alt](img.png)", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_InlineMarkup_TagsAndEscaping(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph,
			node(doctree.KindEmphasis, txt("a")),
			txt(" "),
			node(doctree.KindStrong, txt("b")),
			txt(" "),
			node(doctree.KindLiteral, txt("c<d"))))

	require.Equal(t, "<em>a</em> <strong>b</strong> `c\\<d`",
		strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_LiteralEmphasisVariants_ShareTags(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph,
			node(doctree.KindLiteralEmph, txt("x")),
			txt(" "),
			node(doctree.KindLiteralStrong, txt("y"))))

	require.Equal(t, "<em>x</em> <strong>y</strong>", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_TitleReference_RendersCite(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph, node(doctree.KindTitleReference, txt("Doc"))))

	require.Equal(t, "<cite>Doc</cite>", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_LiteralBlock_FencedAndIndented(t *testing.T) {
	lb := doctree.New(doctree.KindLiteralBlock)
	lb.Language = "python"
	lb.AppendChild(txt("x = 1\nprint(x)"))
	doc := node(doctree.KindDocument, lb)

	require.Equal(t, "    ```python\n    x = 1\n    print(x)\n    ```", translate(t, doc))
}

func TestTranslate_LiteralBlock_NoLanguageUsesDefaultTag(t *testing.T) {
	lb := doctree.New(doctree.KindLiteralBlock)
	lb.AppendChild(txt("plain"))
	doc := node(doctree.KindDocument, lb)

	require.Equal(t, "    ```default", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_Admonition_LabelPrefixAndHangingIndent(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindNote,
			node(doctree.KindParagraph, txt("aaaa bbbb cccc dddd eeee"))))

	tr := New(Options{MaxLineWidth: 20, Logger: quietLogger()})
	body, err := tr.Translate(doc)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Note: aaaa bbbb cccc",
		"      dddd eeee",
		"",
	}, strings.Split(body, "\n"))
}

func TestTranslate_Admonition_LabelOverride(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindNote, node(doctree.KindParagraph, txt("be careful"))))

	tr := New(Options{Labels: map[string]string{"note": "Nota"}, Logger: quietLogger()})
	body, err := tr.Translate(doc)
	require.NoError(t, err)
	require.Equal(t, "Nota: be careful", strings.Split(body, "\n")[0])
}

func TestTranslate_SeeAlso_UsesTwoWordLabel(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindSeeAlso, node(doctree.KindParagraph, txt("the manual"))))

	require.Equal(t, "See also: the manual", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_GenericAdmonition_TitleFoldsIntoBlock(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindAdmonition,
			node(doctree.KindTitle, txt("Custom")),
			node(doctree.KindParagraph, txt("body"))))

	lines := strings.Split(translate(t, doc), "\n")
	require.Equal(t, "Custom:", lines[0])
	require.Contains(t, lines, "body")
}

func TestTranslate_Flag_SeverityMapping(t *testing.T) {
	cases := []struct {
		flagType string
		want     string
	}{
		{"experimental", ":::danger[experimental]"},
		{"deprecated", ":::warning[deprecated]"},
		{"superseded", ":::info[superseded]"},
	}
	for _, tc := range cases {
		t.Run(tc.flagType, func(t *testing.T) {
			flag := doctree.New(doctree.KindFlag)
			flag.FlagType = tc.flagType
			flag.Message = "msg"
			doc := node(doctree.KindDocument, flag)

			lines := strings.Split(translate(t, doc), "\n")
			require.Equal(t, "    "+tc.want, lines[0])
			require.Equal(t, "    msg", lines[1])
			require.Equal(t, "    :::", lines[3])
		})
	}
}

func TestTranslate_Flag_StripsFenceDelimiterFromMessage(t *testing.T) {
	flag := doctree.New(doctree.KindFlag)
	flag.FlagType = "experimental"
	flag.Message = "Watch ::: out"
	doc := node(doctree.KindDocument, flag)

	require.Equal(t, "    Watch  out", strings.Split(translate(t, doc), "\n")[1])
}

func TestTranslate_Desc_RendersDefinitionListBlock(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindDesc,
			node(doctree.KindDescSignature,
				node(doctree.KindDescName, txt("Foo")),
				node(doctree.KindDescReturns, txt("int"))),
			node(doctree.KindDescContent,
				node(doctree.KindParagraph, txt("Does foo.")))))

	require.Equal(t,
		"<dl>\n    <dt>Foo -> int</dt>\n    <dd>Does foo.</dd>\n</dl>",
		translate(t, doc))
}

func TestTranslate_DescParameterList_NotRendered(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindDesc,
			node(doctree.KindDescSignature,
				node(doctree.KindDescName, txt("Foo")),
				node(doctree.KindDescParameterList,
					node(doctree.KindDescParameter, txt("x"))))))

	body := translate(t, doc)
	require.Contains(t, body, "<dt>Foo</dt>")
	require.NotContains(t, body, "x")
}

func TestTranslate_DescInline_RendersSpan(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph, node(doctree.KindDescInline, txt("sig"))))

	require.Equal(t, "<span>sig</span>", strings.Split(translate(t, doc), "\n")[0])
}

func tableFixture(aligns []doctree.Alignment, widths []int, header []string, rows [][]string) *doctree.Node {
	tgroup := doctree.New(doctree.KindTGroup)
	for i := range aligns {
		spec := doctree.New(doctree.KindColSpec)
		spec.ColWidth = widths[i]
		spec.Align = aligns[i]
		tgroup.AppendChild(spec)
	}
	makeRow := func(cells []string) *doctree.Node {
		row := doctree.New(doctree.KindRow)
		for _, cell := range cells {
			row.AppendChild(node(doctree.KindEntry, node(doctree.KindParagraph, txt(cell))))
		}
		return row
	}
	if header != nil {
		tgroup.AppendChild(node(doctree.KindTHead, makeRow(header)))
	}
	tbody := doctree.New(doctree.KindTBody)
	for _, r := range rows {
		tbody.AppendChild(makeRow(r))
	}
	tgroup.AppendChild(tbody)
	return node(doctree.KindTable, tgroup)
}

func TestTranslate_Table_HeaderSeparatorAndBody(t *testing.T) {
	doc := node(doctree.KindDocument, tableFixture(
		[]doctree.Alignment{doctree.AlignDefault, doctree.AlignDefault},
		[]int{3, 3},
		[]string{"A", "B"},
		[][]string{{"1", "2"}},
	))

	lines := strings.Split(translate(t, doc), "\n")
	require.Equal(t, "| A | B |", lines[0])
	require.Equal(t, "| --- | --- |", lines[1])
	require.Equal(t, "| 1 | 2 |", lines[2])
}

func TestTranslate_Table_AlignmentMarkers(t *testing.T) {
	doc := node(doctree.KindDocument, tableFixture(
		[]doctree.Alignment{doctree.AlignLeft, doctree.AlignRight, doctree.AlignCenter},
		[]int{4, 4, 4},
		[]string{"L", "R", "C"},
		[][]string{{"1", "2", "3"}},
	))

	require.Equal(t, "| :--- | ---: | :--: |", strings.Split(translate(t, doc), "\n")[1])
}

func TestTranslate_Table_ShapeInvariant(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}
	doc := node(doctree.KindDocument, tableFixture(
		[]doctree.Alignment{doctree.AlignDefault, doctree.AlignDefault},
		[]int{3, 3},
		[]string{"H1", "H2"},
		rows,
	))

	lines := strings.Split(translate(t, doc), "\n")
	require.Equal(t, len(rows)+2, countTableRows(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "|") {
			// 2 cells -> 3 pipes per row.
			require.Equal(t, 3, strings.Count(line, "|"), "row %q", line)
		}
	}
}

func countTableRows(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "|") {
			n++
		}
	}
	return n
}

func TestTranslate_Table_CellNewlinesCollapsed(t *testing.T) {
	doc := node(doctree.KindDocument, tableFixture(
		[]doctree.Alignment{doctree.AlignDefault},
		[]int{3},
		[]string{"H"},
		[][]string{{"one two three"}},
	))

	tr := New(Options{MaxLineWidth: 5, Logger: quietLogger()})
	body, err := tr.Translate(doc)
	require.NoError(t, err)
	require.Contains(t, body, "| one two three |")
}

func TestTranslate_HeaderlessTable_OmitsSeparator(t *testing.T) {
	doc := node(doctree.KindDocument, tableFixture(
		[]doctree.Alignment{doctree.AlignDefault, doctree.AlignDefault},
		[]int{3, 3},
		nil,
		[][]string{{"1", "2"}},
	))

	lines := strings.Split(translate(t, doc), "\n")
	require.Equal(t, "| 1 | 2 |", lines[0])
	require.NotContains(t, lines, "| --- | --- |")
}

func TestTranslate_UnknownKind_DiagnosticDedupedPerKind(t *testing.T) {
	doc := doctree.New(doctree.KindDocument)
	for i := 0; i < 5; i++ {
		doc.AppendChild(node("mystery", node(doctree.KindParagraph, txt("hidden"))))
	}

	tr := New(Options{Logger: quietLogger()})
	body, err := tr.Translate(doc)
	require.NoError(t, err)
	require.NotContains(t, body, "hidden")
	require.Len(t, tr.Messages(), 1)
	require.Contains(t, tr.Messages()[0], "mystery")
}

func TestTranslate_UnknownKind_DoesNotDisturbSiblings(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph, txt("a")),
		doctree.New("transition"),
		node(doctree.KindParagraph, txt("b")))

	require.Equal(t, "a\n\nb\n", translate(t, doc))
}

func TestTranslate_DefinitionList_NoClassifier(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindDefinitionList,
			node(doctree.KindDefinitionListItem,
				node(doctree.KindTerm, txt("term")),
				node(doctree.KindDefinition, node(doctree.KindParagraph, txt("def"))))))

	require.Equal(t, "term\n    def\n", translate(t, doc))
}

func TestTranslate_DefinitionList_OneClassifier(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindDefinitionList,
			node(doctree.KindDefinitionListItem,
				node(doctree.KindTerm, txt("T")),
				node(doctree.KindClassifier, txt("c")),
				node(doctree.KindDefinition, node(doctree.KindParagraph, txt("def"))))))

	require.Equal(t, "T : c", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_DefinitionList_ManyClassifiersShareOneLine(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindDefinitionList,
			node(doctree.KindDefinitionListItem,
				node(doctree.KindTerm, txt("T")),
				node(doctree.KindClassifier, txt("c1")),
				node(doctree.KindClassifier, txt("c2")),
				node(doctree.KindDefinition, node(doctree.KindParagraph, txt("def"))))))

	lines := strings.Split(translate(t, doc), "\n")
	require.Equal(t, "T : c1 : c2", lines[0])
	require.Equal(t, "    def", lines[1])
}

func TestTranslate_FieldList(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindFieldList,
			node(doctree.KindField,
				node(doctree.KindFieldName, txt("param")),
				node(doctree.KindFieldBody, node(doctree.KindParagraph, txt("value"))))))

	require.Equal(t, "param: value", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_Problematic_RenderedVerbatimInFence(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph, node(doctree.KindProblematic, txt("*bad*"))))

	require.Contains(t, translate(t, doc), "```\n*bad*\n```")
}

func TestTranslate_Rubric_TrailingColon(t *testing.T) {
	doc := node(doctree.KindDocument, node(doctree.KindRubric, txt("API")))

	require.Equal(t, "API:", strings.Split(translate(t, doc), "\n")[0])
}

func TestTranslate_CommentSubtree_ProducesNoOutput(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindComment, txt("internal remark")),
		node(doctree.KindParagraph, txt("visible")))

	body := translate(t, doc)
	require.NotContains(t, body, "internal remark")
	require.Contains(t, body, "visible")
}

func TestTranslate_InvalidWidth_FailsRun(t *testing.T) {
	tr := New(Options{MaxLineWidth: -5, Logger: quietLogger()})
	_, err := tr.Translate(node(doctree.KindDocument, node(doctree.KindParagraph, txt("x"))))
	require.ErrorIs(t, err, textwrap.ErrInvalidWidth)
}

func TestTranslate_ParagraphWrapsAtConfiguredWidth(t *testing.T) {
	doc := node(doctree.KindDocument,
		node(doctree.KindParagraph, txt("alpha beta gamma delta epsilon")))

	tr := New(Options{MaxLineWidth: 11, Logger: quietLogger()})
	body, err := tr.Translate(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha beta", "gamma delta", "epsilon", ""}, strings.Split(body, "\n"))
}
