package doc

import "errors"

// ErrOutsideDocument is returned when a position belongs to another document
// or to a detached node.
var ErrOutsideDocument = errors.New("doc: position is not inside the document")

// Pos points at a rune offset inside a text node.
type Pos struct {
	Node   *Node
	Offset int
}

// Range is a half-open span between two positions in document order.
type Range struct {
	Start Pos
	End   Pos
}

func (p Pos) IsZero() bool { return p.Node == nil }

// IsEmpty reports whether no rune lies between the ends of r. The two sides
// of an inline boundary, like the end of one text node and the start of the
// next in the same block, are the same spot.
func (r Range) IsEmpty() bool {
	r = NormalizeRange(r)
	if r.Start == r.End {
		return true
	}
	s, e := r.Start, r.End
	if s.Node == nil || e.Node == nil || s.Node == e.Node {
		return false
	}
	if s.Offset != s.Node.Len() || e.Offset != 0 {
		return false
	}
	blk := s.Node.block()
	for t := s.Node.nextText(); t != nil && t.block() == blk; t = t.nextText() {
		if t == e.Node {
			return true
		}
		if t.Len() > 0 {
			return false
		}
	}
	return false
}

// ComparePos orders a and b in document order. Positions in different trees
// compare by pointer identity only (0 when equal, -1 otherwise).
func ComparePos(a, b Pos) int {
	if a.Node == b.Node {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	}
	if a.Node == nil || b.Node == nil {
		return -1
	}
	pa, pb := a.Node.path(), b.Node.path()
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] < pb[i] {
			return -1
		}
		if pa[i] > pb[i] {
			return 1
		}
	}
	if len(pa) < len(pb) {
		return -1
	}
	if len(pa) > len(pb) {
		return 1
	}
	return 0
}

func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

// Snapshot is the selection state observed at one instant.
//
// Class is computed from Focus when the snapshot is taken and is not updated
// by later tree mutations.
type Snapshot struct {
	Collapsed bool
	Anchor    Pos
	Focus     Pos
	Class     Classification
}

// Range returns the normalized selection range.
func (s Snapshot) Range() Range {
	return NormalizeRange(Range{Start: s.Anchor, End: s.Focus})
}
