package doc

import "strings"

// Document is the live document tree together with its selection.
//
// Every mutation and every effective selection change bumps Version.
type Document struct {
	root    *Node
	header  *Node
	article *Node

	anchor Pos
	focus  Pos

	version uint64
}

// New returns a document with an empty title and a single empty paragraph.
// The caret is placed at the end of the title.
func New() *Document {
	d := &Document{}
	d.header = NewElement(KindHeader, NewText(""))
	d.article = NewElement(KindArticle)
	d.root = NewElement(KindRoot, d.header, d.article)
	d.ensureBlocks()
	d.CaretToTitleEnd()
	return d
}

func (d *Document) Version() uint64 { return d.version }

// Root returns the document root node.
func (d *Document) Root() *Node { return d.root }

// Header returns the title container.
func (d *Document) Header() *Node { return d.header }

// Article returns the body container.
func (d *Document) Article() *Node { return d.article }

func (d *Document) Title() string { return d.header.TextContent() }

// SetTitle replaces the title text. Line breaks are folded into spaces.
func (d *Document) SetTitle(title string) {
	title = strings.ReplaceAll(title, "\r\n", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	for len(d.header.children) > 0 {
		d.header.removeChild(d.header.children[0])
	}
	d.header.appendChild(NewText(title))
	d.CaretToTitleEnd()
	d.version++
}

// CaretToTitleEnd collapses the selection at the end of the title.
func (d *Document) CaretToTitleEnd() {
	t := d.header.lastText()
	d.setCaret(Pos{Node: t, Offset: t.Len()})
}

// Current returns a fresh snapshot of the selection.
func (d *Document) Current() Snapshot {
	return Snapshot{
		Collapsed: Range{Start: d.anchor, End: d.focus}.IsEmpty(),
		Anchor:    d.anchor,
		Focus:     d.focus,
		Class:     Classify(d.focus),
	}
}

// Selection returns the normalized selection range and whether it is non-empty.
func (d *Document) Selection() (Range, bool) {
	r := NormalizeRange(Range{Start: d.anchor, End: d.focus})
	return r, !r.IsEmpty()
}

func (d *Document) Caret() Pos { return d.focus }

// SetRange replaces the selection. The anchor becomes r.Start and the focus
// becomes r.End. Both positions must belong to this document.
func (d *Document) SetRange(r Range) error {
	if !d.contains(r.Start) || !d.contains(r.End) {
		return ErrOutsideDocument
	}
	d.setSelection(d.clampPos(r.Start), d.clampPos(r.End))
	return nil
}

// SetCaret collapses the selection at p.
func (d *Document) SetCaret(p Pos) error {
	return d.SetRange(Range{Start: p, End: p})
}

// Collapse collapses the selection to its focus.
func (d *Document) Collapse() {
	d.setCaret(d.focus)
}

// SelectAll selects the whole body.
func (d *Document) SelectAll() {
	first := d.article.firstText()
	last := d.article.lastText()
	d.setSelection(Pos{Node: first}, Pos{Node: last, Offset: last.Len()})
}

// SelectedText returns the plain text of the selection. Blocks are separated
// by a newline.
func (d *Document) SelectedText() string {
	r, ok := d.Selection()
	if !ok {
		return ""
	}
	var sb strings.Builder
	var lastBlock *Node
	for t := r.Start.Node; t != nil; t = t.nextText() {
		if b := t.block(); lastBlock != nil && b != lastBlock {
			sb.WriteByte('\n')
		}
		lastBlock = t.block()
		from, to := 0, t.Len()
		if t == r.Start.Node {
			from = r.Start.Offset
		}
		if t == r.End.Node {
			to = r.End.Offset
		}
		if from < to {
			sb.WriteString(string(t.text[from:to]))
		}
		if t == r.End.Node {
			break
		}
	}
	return sb.String()
}

// WordCount returns the number of whitespace-separated words in the body.
func (d *Document) WordCount() int {
	var sb strings.Builder
	for i, b := range d.article.children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(b.TextContent())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

func (d *Document) setCaret(p Pos) {
	d.setSelection(p, p)
}

func (d *Document) setSelection(anchor, focus Pos) {
	if anchor == d.anchor && focus == d.focus {
		return
	}
	d.anchor = anchor
	d.focus = focus
	d.version++
}

func (d *Document) contains(p Pos) bool {
	if p.Node == nil || p.Node.kind != KindText {
		return false
	}
	return p.Node.root() == d.root
}

func (d *Document) clampPos(p Pos) Pos {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset > p.Node.Len() {
		p.Offset = p.Node.Len()
	}
	return p
}

// ensureBlocks keeps the invariants the editor relies on: the header holds a
// text node, the article holds at least one block and every block holds at
// least one text node.
func (d *Document) ensureBlocks() {
	if d.header.firstText() == nil {
		d.header.appendChild(NewText(""))
	}
	if len(d.article.children) == 0 {
		d.article.appendChild(NewElement(KindParagraph))
	}
	for _, b := range d.article.children {
		if b.firstText() == nil {
			b.appendChild(NewText(""))
		}
	}
}

// repairSelection moves selection endpoints that were detached by a mutation
// back into the document.
func (d *Document) repairSelection() {
	fix := func(p Pos) Pos {
		if d.contains(p) {
			return d.clampPos(p)
		}
		t := d.article.firstText()
		return Pos{Node: t}
	}
	d.anchor = fix(d.anchor)
	d.focus = fix(d.focus)
}
