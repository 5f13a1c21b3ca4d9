package doc

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyPolicy = newBodyPolicy()

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "blockquote", "b", "strong", "i", "em", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

var spaceRE = regexp.MustCompile(`\s+`)

// Sanitize strips everything from s that the body cannot represent.
func Sanitize(s string) string {
	return bodyPolicy.Sanitize(s)
}

// SetBodyHTML replaces the body with the sanitized HTML fragment s and moves
// the caret to the end of the title.
func (d *Document) SetBodyHTML(s string) error {
	ctx := &nethtml.Node{Type: nethtml.ElementNode, Data: "article", DataAtom: atom.Article}
	nodes, err := nethtml.ParseFragment(strings.NewReader(Sanitize(s)), ctx)
	if err != nil {
		return fmt.Errorf("doc: parse body: %w", err)
	}

	article := NewElement(KindArticle)
	var loose *Node
	for _, hn := range nodes {
		if k, ok := blockKind(hn); ok {
			loose = nil
			article.appendChild(NewElement(k, inlineChildren(hn)...))
			continue
		}
		inl := convertInline(hn)
		if len(inl) == 0 || (hn.Type == nethtml.TextNode && strings.TrimSpace(hn.Data) == "") {
			continue
		}
		if loose == nil {
			loose = NewElement(KindParagraph)
			article.appendChild(loose)
		}
		for _, n := range inl {
			loose.appendChild(n)
		}
	}

	d.root.insertAfter(d.article, article)
	d.root.removeChild(d.article)
	d.article = article
	d.ensureBlocks()
	d.version++
	d.CaretToTitleEnd()
	return nil
}

func blockKind(hn *nethtml.Node) (Kind, bool) {
	if hn.Type != nethtml.ElementNode {
		return 0, false
	}
	switch hn.DataAtom {
	case atom.P:
		return KindParagraph, true
	case atom.Blockquote:
		return KindBlockquote, true
	}
	return 0, false
}

// inlineChildren converts the children of a block. Nested blocks are flattened
// into their inline content separated by line breaks.
func inlineChildren(hn *nethtml.Node) []*Node {
	var out []*Node
	nested := false
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if _, ok := blockKind(c); ok {
			if nested {
				out = append(out, NewElement(KindBreak))
			}
			nested = true
			out = append(out, inlineChildren(c)...)
			continue
		}
		out = append(out, convertInline(c)...)
	}
	return out
}

func convertInline(hn *nethtml.Node) []*Node {
	switch hn.Type {
	case nethtml.TextNode:
		return []*Node{NewText(spaceRE.ReplaceAllString(hn.Data, " "))}
	case nethtml.ElementNode:
	default:
		return nil
	}
	var kids []*Node
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		kids = append(kids, convertInline(c)...)
	}
	switch hn.DataAtom {
	case atom.B, atom.Strong:
		return []*Node{NewElement(KindBold, kids...)}
	case atom.I, atom.Em:
		return []*Node{NewElement(KindItalic, kids...)}
	case atom.A:
		for _, a := range hn.Attr {
			if a.Key == "href" {
				return []*Node{NewLink(a.Val, kids...)}
			}
		}
		return kids
	case atom.Br:
		return []*Node{NewElement(KindBreak)}
	}
	return kids
}

// BodyHTML renders the body as an HTML fragment.
func (d *Document) BodyHTML() string {
	var sb strings.Builder
	for _, b := range d.article.children {
		// strings.Builder never fails.
		_ = nethtml.Render(&sb, toHTML(b))
	}
	return sb.String()
}

func toHTML(n *Node) *nethtml.Node {
	if n.kind == KindText {
		return &nethtml.Node{Type: nethtml.TextNode, Data: string(n.text)}
	}
	a := tagAtom(n.kind)
	hn := &nethtml.Node{Type: nethtml.ElementNode, Data: a.String(), DataAtom: a}
	if n.kind == KindOther {
		hn.Data, hn.DataAtom = n.tag, atom.Lookup([]byte(n.tag))
	}
	if n.kind == KindLink {
		hn.Attr = []nethtml.Attribute{{Key: "href", Val: n.href}}
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

func tagAtom(k Kind) atom.Atom {
	switch k {
	case KindHeader:
		return atom.Header
	case KindArticle:
		return atom.Article
	case KindParagraph:
		return atom.P
	case KindBlockquote:
		return atom.Blockquote
	case KindBold:
		return atom.B
	case KindItalic:
		return atom.I
	case KindLink:
		return atom.A
	case KindBreak:
		return atom.Br
	}
	return atom.Span
}

// Markdown renders the title and body as CommonMark.
func (d *Document) Markdown() (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	src := "<h1>" + html.EscapeString(d.Title()) + "</h1>" + d.BodyHTML()
	out, err := conv.ConvertString(src)
	if err != nil {
		return "", fmt.Errorf("doc: markdown: %w", err)
	}
	return out, nil
}
