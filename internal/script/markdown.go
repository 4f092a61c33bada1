package script

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/metcalfc/talkbox/internal/dialogue"
)

// MarkdownFormat implements Format for Markdown scripts. Headings start a
// new conversation, paragraphs are plain fragments and each list is one
// composite fragment with an item per segment.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Load(filename string) ([]Conversation, error) {
	return readFile(filename, f)
}

func (f *MarkdownFormat) Parse(data []byte) ([]Conversation, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(data))

	var convs []Conversation
	cur := Conversation{}

	flush := func() {
		if len(cur.Lines) > 0 {
			convs = append(convs, cur)
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			cur = Conversation{Name: inlineText(node, data)}
		case *ast.Paragraph:
			if t := inlineText(node, data); t != "" {
				cur.Lines = append(cur.Lines, dialogue.Line(t))
			}
		case *ast.List:
			var parts []string
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if block := item.FirstChild(); block != nil {
					parts = append(parts, inlineText(block, data))
				}
			}
			if e, ok := entryFromParts(parts); ok {
				cur.Lines = append(cur.Lines, e)
			}
		}
	}
	flush()

	return convs, nil
}

// inlineText concatenates the text of n's inline descendants. Soft line
// breaks become spaces.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteString(" ")
				}
			case *ast.String:
				b.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
