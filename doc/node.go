package doc

import "strings"

// Kind is the tag kind of a node.
type Kind uint8

const (
	KindText Kind = iota
	KindRoot
	KindHeader
	KindArticle
	KindParagraph
	KindBlockquote
	KindBold
	KindItalic
	KindLink
	KindBreak
	KindOther
)

var kindNames = [...]string{
	KindText:       "#text",
	KindRoot:       "#document",
	KindHeader:     "HEADER",
	KindArticle:    "ARTICLE",
	KindParagraph:  "P",
	KindBlockquote: "BLOCKQUOTE",
	KindBold:       "B",
	KindItalic:     "I",
	KindLink:       "A",
	KindBreak:      "BR",
	KindOther:      "#other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "#unknown"
}

// IsBlock reports whether k is a block kind that can be a direct child of the
// article.
func (k Kind) IsBlock() bool {
	return k == KindParagraph || k == KindBlockquote
}

// IsInline reports whether k is an inline formatting kind.
func (k Kind) IsInline() bool {
	return k == KindBold || k == KindItalic || k == KindLink
}

// KindSet is a membership set of kinds.
type KindSet uint32

func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

func (s KindSet) Add(k Kind) KindSet { return s | 1<<k }

func (s KindSet) Has(k Kind) bool { return s&(1<<k) != 0 }

func (s KindSet) String() string {
	var parts []string
	for k := KindText; k <= KindOther; k++ {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Node is an element or text node of the document tree.
type Node struct {
	kind     Kind
	tag      string
	href     string
	text     []rune
	parent   *Node
	children []*Node
}

// NewText returns a detached text node.
func NewText(s string) *Node {
	return &Node{kind: KindText, text: []rune(s)}
}

// NewElement returns a detached element of kind k holding children.
func NewElement(k Kind, children ...*Node) *Node {
	n := &Node{kind: k}
	for _, c := range children {
		n.appendChild(c)
	}
	return n
}

// NewLink returns a detached link element.
func NewLink(href string, children ...*Node) *Node {
	n := NewElement(KindLink, children...)
	n.href = href
	return n
}

func (n *Node) Kind() Kind      { return n.kind }
func (n *Node) Parent() *Node   { return n.parent }
func (n *Node) Href() string    { return n.href }
func (n *Node) Text() string    { return string(n.text) }
func (n *Node) Len() int        { return len(n.text) }
func (n *Node) ChildCount() int { return len(n.children) }

// Tag returns the source tag of a KindOther element.
func (n *Node) Tag() string { return n.tag }

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Depth returns the number of edges between n and the root of its tree.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// TextContent returns the concatenated text of n's subtree.
func (n *Node) TextContent() string {
	var sb strings.Builder
	walk(n, func(c *Node) {
		if c.kind == KindText {
			sb.WriteString(string(c.text))
		}
	})
	return sb.String()
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		walk(c, fn)
	}
}

func (n *Node) indexOf(c *Node) int {
	for i, cc := range n.children {
		if cc == c {
			return i
		}
	}
	return -1
}

func (n *Node) appendChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) insertChild(i int, c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	c.parent = n
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

func (n *Node) removeChild(c *Node) {
	i := n.indexOf(c)
	if i < 0 {
		return
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
}

func (n *Node) insertBefore(ref, c *Node) {
	n.insertChild(n.indexOf(ref), c)
}

func (n *Node) insertAfter(ref, c *Node) {
	n.insertChild(n.indexOf(ref)+1, c)
}

// shallowClone copies n without its children or parent.
func (n *Node) shallowClone() *Node {
	out := &Node{kind: n.kind, tag: n.tag, href: n.href}
	if n.text != nil {
		out.text = append([]rune(nil), n.text...)
	}
	return out
}

// unwrap replaces n in its parent with n's children.
func (n *Node) unwrap() {
	p := n.parent
	if p == nil {
		return
	}
	at := p.indexOf(n)
	kids := append([]*Node(nil), n.children...)
	p.removeChild(n)
	for i, c := range kids {
		p.insertChild(at+i, c)
	}
}

// wrapIn replaces n in its parent with w and moves n into w.
func (n *Node) wrapIn(w *Node) {
	p := n.parent
	if p != nil {
		p.insertBefore(n, w)
	}
	w.appendChild(n)
}

func (n *Node) firstText() *Node {
	if n.kind == KindText {
		return n
	}
	for _, c := range n.children {
		if t := c.firstText(); t != nil {
			return t
		}
	}
	return nil
}

func (n *Node) lastText() *Node {
	if n.kind == KindText {
		return n
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if t := n.children[i].lastText(); t != nil {
			return t
		}
	}
	return nil
}

// next returns the next node in pre-order, not descending into n.
func (n *Node) nextSkip() *Node {
	for c := n; c.parent != nil; c = c.parent {
		p := c.parent
		i := p.indexOf(c)
		if i+1 < len(p.children) {
			return p.children[i+1]
		}
	}
	return nil
}

// nextText returns the text node following n in document order.
func (n *Node) nextText() *Node {
	for c := n.nextSkip(); c != nil; c = c.nextSkip() {
		if t := c.firstText(); t != nil {
			return t
		}
	}
	return nil
}

// prevText returns the text node preceding n in document order.
func (n *Node) prevText() *Node {
	for c := n; c.parent != nil; c = c.parent {
		p := c.parent
		for i := p.indexOf(c) - 1; i >= 0; i-- {
			if t := p.children[i].lastText(); t != nil {
				return t
			}
		}
	}
	return nil
}

func (n *Node) ancestor(k Kind) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.kind == k {
			return p
		}
	}
	return nil
}

// block returns the header or article block containing n.
func (n *Node) block() *Node {
	for c := n; c != nil; c = c.parent {
		if c.kind == KindHeader {
			return c
		}
		if c.parent != nil && c.parent.kind == KindArticle {
			return c
		}
	}
	return nil
}

// path returns the child indices from the root to n.
func (n *Node) path() []int {
	var out []int
	for c := n; c.parent != nil; c = c.parent {
		out = append(out, c.parent.indexOf(c))
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (n *Node) root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (n *Node) hasText() bool {
	for _, c := range n.children {
		if c.kind == KindText || c.kind == KindBreak || c.hasText() {
			return true
		}
	}
	return false
}
