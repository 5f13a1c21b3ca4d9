package editor

import (
	"math"

	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/internal/grapheme"
)

const quotePrefix = "│ "

var quotePrefixWidth = grapheme.StringWidth(quotePrefix)

type lineKind uint8

const (
	lineTitle lineKind = iota
	lineParagraph
	lineQuote
	lineBlank
)

type layoutCell struct {
	text  string
	width int
	col   int
	pos   doc.Pos // position before the cluster
	kinds doc.KindSet
}

// caretStop is a caret position and the screen column it is drawn at.
type caretStop struct {
	pos doc.Pos
	col int
}

type layoutLine struct {
	kind  lineKind
	cells []layoutCell
	stops []caretStop
}

func (ln layoutLine) startCol() int {
	if ln.kind == lineQuote {
		return quotePrefixWidth
	}
	return 0
}

func (ln layoutLine) endCol() int {
	if n := len(ln.stops); n > 0 {
		return ln.stops[n-1].col
	}
	return ln.startCol()
}

// layout is the document laid out as visual lines: the title, then each body
// block preceded by a blank separator line. Long lines wrap at grapheme
// boundaries; the last column is kept free for the caret.
type layout struct {
	width int
	lines []layoutLine
}

func buildLayout(d *doc.Document, width int) *layout {
	l := &layout{width: width}
	if d == nil {
		return l
	}
	l.addBlock(d.Header(), lineTitle)
	a := d.Article()
	for i := 0; i < a.ChildCount(); i++ {
		l.lines = append(l.lines, layoutLine{kind: lineBlank})
		b := a.Child(i)
		kind := lineParagraph
		if b.Kind() == doc.KindBlockquote {
			kind = lineQuote
		}
		l.addBlock(b, kind)
	}
	return l
}

type lineBuilder struct {
	l     *layout
	cur   layoutLine
	col   int
	limit int
}

func (l *layout) addBlock(n *doc.Node, kind lineKind) {
	b := &lineBuilder{l: l, cur: layoutLine{kind: kind}}
	b.col = b.cur.startCol()
	b.limit = math.MaxInt
	if l.width > 0 {
		b.limit = maxInt(l.width-1, b.col+1)
	}
	for i := 0; i < n.ChildCount(); i++ {
		b.walk(n.Child(i), 0)
	}
	b.flush()
}

func (b *lineBuilder) walk(n *doc.Node, kinds doc.KindSet) {
	switch n.Kind() {
	case doc.KindText:
		b.text(n, kinds)
	case doc.KindBreak:
		b.newline()
	default:
		kinds = kinds.Add(n.Kind())
		for i := 0; i < n.ChildCount(); i++ {
			b.walk(n.Child(i), kinds)
		}
	}
}

func (b *lineBuilder) text(n *doc.Node, kinds doc.KindSet) {
	off := 0
	b.stop(doc.Pos{Node: n})
	for _, c := range grapheme.Clusters(n.Text()) {
		if b.col+c.Width > b.limit && b.col > b.cur.startCol() {
			b.newline()
			b.stop(doc.Pos{Node: n, Offset: off})
		}
		b.cur.cells = append(b.cur.cells, layoutCell{
			text:  c.Text,
			width: c.Width,
			col:   b.col,
			pos:   doc.Pos{Node: n, Offset: off},
			kinds: kinds,
		})
		off += c.Runes
		b.col += c.Width
		b.stop(doc.Pos{Node: n, Offset: off})
	}
}

func (b *lineBuilder) stop(p doc.Pos) {
	b.cur.stops = append(b.cur.stops, caretStop{pos: p, col: b.col})
}

func (b *lineBuilder) newline() {
	kind := b.cur.kind
	b.flush()
	b.cur = layoutLine{kind: kind}
	b.col = b.cur.startCol()
}

func (b *lineBuilder) flush() {
	b.l.lines = append(b.l.lines, b.cur)
}

// locate returns the visual row and screen column of p. When p sits on a
// wrap boundary the start of the following row wins.
func (l *layout) locate(p doc.Pos) (row, col int, ok bool) {
	if p.Node == nil {
		return 0, 0, false
	}
	best := -1
	for r, ln := range l.lines {
		for _, s := range ln.stops {
			if s.pos.Node != p.Node || s.pos.Offset > p.Offset {
				continue
			}
			if s.pos.Offset >= best {
				best, row, col, ok = s.pos.Offset, r, s.col, true
			}
		}
	}
	return row, col, ok
}

// hit maps a visual row and screen column to the closest caret position at
// or left of x. Rows without positions snap to the end of the row above.
func (l *layout) hit(row, x int) (doc.Pos, bool) {
	if len(l.lines) == 0 {
		return doc.Pos{}, false
	}
	row = clampInt(row, 0, len(l.lines)-1)
	for r := row; r >= 0; r-- {
		ln := l.lines[r]
		if len(ln.stops) == 0 {
			x = math.MaxInt
			continue
		}
		best := ln.stops[0]
		for _, s := range ln.stops[1:] {
			if s.col <= x && s.col > best.col {
				best = s
			}
		}
		return best.pos, true
	}
	for r := row + 1; r < len(l.lines); r++ {
		if len(l.lines[r].stops) > 0 {
			return l.lines[r].stops[0].pos, true
		}
	}
	return doc.Pos{}, false
}

// rangeRect returns the bounding box of r in content coordinates.
func (l *layout) rangeRect(r doc.Range) (Rect, bool) {
	r = doc.NormalizeRange(r)
	sr, sc, ok := l.locate(r.Start)
	if !ok {
		return Rect{}, false
	}
	er, ec, ok := l.locate(r.End)
	if !ok {
		return Rect{}, false
	}
	if sr == er {
		return Rect{Top: sr, Left: sc, Right: maxInt(sc, ec), Bottom: sr + 1}, true
	}
	left, right := sc, l.lines[sr].endCol()
	for row := sr + 1; row <= er; row++ {
		ln := l.lines[row]
		if ln.kind == lineBlank {
			continue
		}
		left = minInt(left, ln.startCol())
		if row < er {
			right = maxInt(right, ln.endCol())
		} else {
			right = maxInt(right, ec)
		}
	}
	return Rect{Top: sr, Left: left, Right: right, Bottom: er + 1}, true
}

// geometry adapts the current layout and scroll offset to Geometry. It is
// shared by pointer between the Model and its Engine.
type geometry struct {
	layout  *layout
	scrollY int
}

func (g *geometry) RangeRect(r doc.Range) (Rect, bool) {
	if g.layout == nil {
		return Rect{}, false
	}
	rect, ok := g.layout.rangeRect(r)
	if !ok {
		return Rect{}, false
	}
	rect.Top -= g.scrollY
	rect.Bottom -= g.scrollY
	return rect, true
}

func (g *geometry) ScrollOffset() (x, y int) { return 0, g.scrollY }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
