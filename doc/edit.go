package doc

import (
	"strings"
	"unicode"

	"github.com/iw2rmb/scribe/internal/grapheme"
)

// InsertText replaces the selection with s. Newlines start new paragraphs in
// the body and are folded into spaces in the title.
func (d *Document) InsertText(s string) {
	if s == "" {
		return
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	d.DeleteSelection()
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			if d.focus.Node.block().kind == KindHeader {
				part = " " + part
			} else {
				d.InsertParagraph()
			}
		}
		d.insertRunes([]rune(part))
	}
}

func (d *Document) insertRunes(rs []rune) {
	if len(rs) == 0 {
		return
	}
	p := d.focus
	t := p.Node
	next := make([]rune, 0, len(t.text)+len(rs))
	next = append(next, t.text[:p.Offset]...)
	next = append(next, rs...)
	next = append(next, t.text[p.Offset:]...)
	t.text = next
	d.version++
	d.setCaret(Pos{Node: t, Offset: p.Offset + len(rs)})
}

// InsertParagraph splits the caret's block in two. Inside the title the caret
// moves to the start of the body instead.
func (d *Document) InsertParagraph() {
	d.DeleteSelection()
	t := d.focus.Node
	blk := t.block()
	if blk.kind == KindHeader {
		d.setCaret(Pos{Node: d.article.firstText()})
		return
	}
	tail := splitText(t, d.focus.Offset)
	right := splitOff(blk, tail)
	if right.firstText() == nil {
		right.appendChild(NewText(""))
	}
	if blk.firstText() == nil {
		blk.appendChild(NewText(""))
	}
	d.version++
	d.setCaret(Pos{Node: right.firstText()})
}

// splitOff moves c and everything after it, at every level up to top, into
// shallow clones placed after each level. It returns the clone of top.
func splitOff(top, c *Node) *Node {
	var carried *Node
	for {
		p := c.parent
		clone := p.shallowClone()
		tail := append([]*Node(nil), p.children[p.indexOf(c)+1:]...)
		if carried != nil {
			clone.appendChild(carried)
		} else {
			clone.appendChild(c)
		}
		for _, n := range tail {
			clone.appendChild(n)
		}
		if p == top {
			top.parent.insertAfter(top, clone)
			return clone
		}
		carried = clone
		c = p
	}
}

// DeleteSelection removes the selected content and collapses the caret at the
// start of the removed span. It reports whether anything was selected.
func (d *Document) DeleteSelection() bool {
	segs := d.splitSelection()
	if len(segs) == 0 {
		return false
	}
	first, last := segs[0], segs[len(segs)-1]
	for _, t := range segs {
		t.text = nil
	}
	startBlock, endBlock := first.block(), last.block()
	if startBlock != endBlock {
		var doomed []*Node
		in := startBlock.kind == KindHeader
		for _, b := range d.article.children {
			if b == endBlock {
				break
			}
			if in {
				doomed = append(doomed, b)
			}
			if b == startBlock {
				in = true
			}
		}
		for _, b := range doomed {
			d.article.removeChild(b)
		}
		if startBlock.kind != KindHeader {
			for len(endBlock.children) > 0 {
				startBlock.appendChild(endBlock.children[0])
			}
			d.article.removeChild(endBlock)
		}
	}
	d.dropEmptyText(startBlock, first)
	if endBlock.parent != nil && endBlock != startBlock {
		d.dropEmptyText(endBlock, endBlock.firstText())
	}
	d.ensureBlocks()
	d.version++
	d.anchor = Pos{Node: first}
	d.focus = d.anchor
	return true
}

// dropEmptyText removes empty text nodes in b except keep, then prunes empty
// inline elements.
func (d *Document) dropEmptyText(b, keep *Node) {
	var empties []*Node
	walk(b, func(n *Node) {
		if n.kind == KindText && n.Len() == 0 && n != keep {
			empties = append(empties, n)
		}
	})
	for _, n := range empties {
		n.parent.removeChild(n)
	}
	pruneEmpty(b)
}

// DeleteBackward deletes the selection, or the rune before the caret. At the
// start of a body block the block is merged into the previous one.
func (d *Document) DeleteBackward() {
	if d.DeleteSelection() {
		return
	}
	p := d.focus
	if p.Offset > 0 {
		t := p.Node
		at := p.Offset - clusterBefore(t, p.Offset)
		t.text = append(t.text[:at:at], t.text[p.Offset:]...)
		d.version++
		d.setCaret(Pos{Node: t, Offset: at})
		return
	}
	blk := p.Node.block()
	for prev := p.Node.prevText(); prev != nil; prev = prev.prevText() {
		if prev.block() != blk {
			break
		}
		if prev.Len() > 0 {
			prev.text = prev.text[:prev.Len()-clusterBefore(prev, prev.Len())]
			d.version++
			d.dropEmptyText(blk, p.Node)
			return
		}
	}
	if blk.kind == KindHeader {
		return
	}
	i := d.article.indexOf(blk)
	if i <= 0 {
		return
	}
	prevBlk := d.article.children[i-1]
	for len(blk.children) > 0 {
		prevBlk.appendChild(blk.children[0])
	}
	d.article.removeChild(blk)
	mergeAdjacent(prevBlk)
	d.version++
}

// DeleteForward deletes the selection, or the rune after the caret.
func (d *Document) DeleteForward() {
	if d.DeleteSelection() {
		return
	}
	before := d.focus
	d.Move(Move{Unit: MoveRune, Dir: DirRight})
	if d.focus == before {
		return
	}
	if before.Node.block().kind == KindHeader && d.focus.Node.block().kind != KindHeader {
		d.setCaret(before)
		return
	}
	d.DeleteBackward()
}

// MoveUnit is the granularity of a caret move.
type MoveUnit uint8

const (
	MoveRune MoveUnit = iota
	MoveWord
	MoveBlock
	MoveDocument
)

// MoveDir is the direction of a caret move. DirHome and DirEnd move to the
// start or end of the unit.
type MoveDir uint8

const (
	DirLeft MoveDir = iota
	DirRight
	DirHome
	DirEnd
)

// Move describes a caret move. Extend keeps the anchor in place.
type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool
}

// Move moves the caret (focus) and collapses or extends the selection.
func (d *Document) Move(m Move) {
	if !m.Extend {
		if r, ok := d.Selection(); ok && m.Unit == MoveRune && (m.Dir == DirLeft || m.Dir == DirRight) {
			if m.Dir == DirLeft {
				d.setCaret(r.Start)
			} else {
				d.setCaret(r.End)
			}
			return
		}
	}
	var next Pos
	switch m.Unit {
	case MoveRune:
		next = d.stepRune(d.focus, m.Dir)
	case MoveWord:
		next = d.stepWord(d.focus, m.Dir)
	case MoveBlock:
		blk := d.focus.Node.block()
		if m.Dir == DirLeft || m.Dir == DirHome {
			next = Pos{Node: blk.firstText()}
		} else {
			t := blk.lastText()
			next = Pos{Node: t, Offset: t.Len()}
		}
	case MoveDocument:
		if m.Dir == DirLeft || m.Dir == DirHome {
			next = Pos{Node: d.header.firstText()}
		} else {
			t := d.article.lastText()
			next = Pos{Node: t, Offset: t.Len()}
		}
	default:
		return
	}
	if m.Extend {
		d.setSelection(d.anchor, next)
		return
	}
	d.setCaret(next)
}

func (d *Document) stepRune(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirLeft:
		if p.Offset > 0 {
			return Pos{Node: p.Node, Offset: p.Offset - clusterBefore(p.Node, p.Offset)}
		}
		blk := p.Node.block()
		for prev := p.Node.prevText(); prev != nil; prev = prev.prevText() {
			if prev.block() != blk {
				return Pos{Node: prev, Offset: prev.Len()}
			}
			if prev.Len() > 0 {
				return Pos{Node: prev, Offset: prev.Len() - clusterBefore(prev, prev.Len())}
			}
		}
	case DirRight:
		if p.Offset < p.Node.Len() {
			return Pos{Node: p.Node, Offset: p.Offset + clusterAfter(p.Node, p.Offset)}
		}
		blk := p.Node.block()
		for next := p.Node.nextText(); next != nil; next = next.nextText() {
			if next.block() != blk {
				return Pos{Node: next}
			}
			if next.Len() > 0 {
				return Pos{Node: next, Offset: clusterAfter(next, 0)}
			}
		}
	}
	return p
}

// runeAt returns the rune just after (right) or before (left) p within p's
// block, and false at a block boundary.
func (d *Document) runeAt(p Pos, dir MoveDir) (rune, bool) {
	q := d.stepRune(p, dir)
	if q == p || q.Node.block() != p.Node.block() {
		return 0, false
	}
	if dir == DirLeft {
		return q.Node.text[q.Offset], true
	}
	return q.Node.text[q.Offset-1], true
}

func (d *Document) stepWord(p Pos, dir MoveDir) Pos {
	if dir != DirLeft && dir != DirRight {
		return p
	}
	if _, ok := d.runeAt(p, dir); !ok {
		return d.stepRune(p, dir)
	}
	for {
		r, ok := d.runeAt(p, dir)
		if !ok || isWordRune(r) {
			break
		}
		p = d.stepRune(p, dir)
	}
	for {
		r, ok := d.runeAt(p, dir)
		if !ok || !isWordRune(r) {
			break
		}
		p = d.stepRune(p, dir)
	}
	return p
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// clusterBefore returns the rune length of the grapheme cluster that ends at
// off. off must be positive.
func clusterBefore(t *Node, off int) int {
	n := 1
	for _, c := range grapheme.Clusters(string(t.text[:off])) {
		n = c.Runes
	}
	return n
}

// clusterAfter returns the rune length of the grapheme cluster that starts at
// off, or 0 at the end of t.
func clusterAfter(t *Node, off int) int {
	cs := grapheme.Clusters(string(t.text[off:]))
	if len(cs) == 0 {
		return 0
	}
	return cs[0].Runes
}
