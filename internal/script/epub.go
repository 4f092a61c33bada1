package script

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EPUBFormat implements Format for EPUB files. Each spine document becomes
// a conversation with one plain fragment per paragraph. It is named from the
// table of contents, falling back to its first heading and then its file name.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Load(filename string) ([]Conversation, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	titles := chapterTitles(filename, book)
	var convs []Conversation

	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		heading, paras := paragraphsFromHTML(string(data))
		if len(paras) == 0 {
			continue
		}
		title := lookupTitle(titles, ref.Item.HREF)
		if title == "" {
			title = heading
		}
		if title == "" {
			title = strings.TrimSuffix(path.Base(ref.Item.HREF), path.Ext(ref.Item.HREF))
		}
		convs = append(convs, Conversation{Name: title, Lines: linesOf(paras...)})
	}

	return convs, nil
}

// paragraphsFromHTML returns the first heading and the text of every <p>
// element with whitespace collapsed.
func paragraphsFromHTML(s string) (string, []string) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", nil
	}

	var title string
	var paras []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.P:
				if t := collapsedText(n); t != "" {
					paras = append(paras, t)
				}
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if title == "" {
					title = collapsedText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, paras
}

func collapsedText(n *html.Node) string {
	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(out.String()), " ")
}
