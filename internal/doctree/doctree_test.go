package doctree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendChild_SetsParentBackReference(t *testing.T) {
	doc := New(KindDocument)
	section := New(KindSection)
	title := New(KindTitle)
	doc.AppendChild(section)
	section.AppendChild(title)

	require.Same(t, doc, section.Parent)
	require.Same(t, section, title.Parent)
	require.Nil(t, doc.Parent)
}

func TestText_ConcatenatesSubtreeInDocumentOrder(t *testing.T) {
	para := New(KindParagraph)
	em := New(KindEmphasis)
	em.AppendChild(NewText("world"))
	para.AppendChild(NewText("hello "), em, NewText("!"))

	require.Equal(t, "hello world!", para.Text())
}

func TestCountDescendants(t *testing.T) {
	item := New(KindDefinitionListItem)
	item.AppendChild(New(KindTerm), New(KindClassifier), New(KindClassifier), New(KindDefinition))

	require.Equal(t, 2, item.CountDescendants(KindClassifier))
	require.Equal(t, 0, item.CountDescendants(KindTable))
}

// recordingVisitor records the traversal as "enter:kind"/"exit:kind" events.
type recordingVisitor struct {
	events []string
	skip   Kind
	stop   Kind
}

func (v *recordingVisitor) Enter(n *Node) (WalkStatus, error) {
	v.events = append(v.events, "enter:"+string(n.Kind))
	if n.Kind == v.skip && v.skip != "" {
		return WalkSkipChildren, nil
	}
	if n.Kind == v.stop && v.stop != "" {
		return WalkStop, nil
	}
	return WalkContinue, nil
}

func (v *recordingVisitor) Exit(n *Node) error {
	v.events = append(v.events, "exit:"+string(n.Kind))
	return nil
}

func buildWalkFixture() *Node {
	doc := New(KindDocument)
	section := New(KindSection)
	para := New(KindParagraph)
	para.AppendChild(NewText("x"))
	section.AppendChild(New(KindTitle), para)
	doc.AppendChild(section)
	return doc
}

func TestWalk_DepthFirstPrePostOrder(t *testing.T) {
	v := &recordingVisitor{}
	require.NoError(t, Walk(buildWalkFixture(), v))
	require.Equal(t, []string{
		"enter:document",
		"enter:section",
		"enter:title",
		"exit:title",
		"enter:paragraph",
		"enter:text",
		"exit:text",
		"exit:paragraph",
		"exit:section",
		"exit:document",
	}, v.events)
}

func TestWalk_SkipChildren_SkipsSubtreeAndExit(t *testing.T) {
	v := &recordingVisitor{skip: KindParagraph}
	require.NoError(t, Walk(buildWalkFixture(), v))
	require.Equal(t, []string{
		"enter:document",
		"enter:section",
		"enter:title",
		"exit:title",
		"enter:paragraph",
		"exit:section",
		"exit:document",
	}, v.events)
}

func TestWalk_Stop_AbandonsTraversal(t *testing.T) {
	v := &recordingVisitor{stop: KindTitle}
	require.NoError(t, Walk(buildWalkFixture(), v))
	require.Equal(t, []string{
		"enter:document",
		"enter:section",
		"enter:title",
	}, v.events)
}
