package editor

import "github.com/iw2rmb/scribe/doc"

// ScreenToDoc maps viewport-local cell coordinates to a document position.
//
// (0,0) is the top-left of the visible content region. Coordinates past the
// end of a row snap to the row end; blank separator rows snap to the end of
// the block above.
func (m Model) ScreenToDoc(x, y int) (doc.Pos, bool) {
	if x < 0 {
		x = 0
	}
	return m.geo.layout.hit(m.viewport.YOffset+y, x)
}

// DocToScreen maps a document position to viewport-local cell coordinates.
//
// ok is false when the position is outside the visible viewport.
func (m Model) DocToScreen(p doc.Pos) (x, y int, ok bool) {
	row, col, found := m.geo.layout.locate(p)
	if !found {
		return 0, 0, false
	}
	y = row - m.viewport.YOffset
	if y < 0 || y >= m.viewport.Height || col >= m.viewport.Width {
		return col, y, false
	}
	return col, y, true
}
