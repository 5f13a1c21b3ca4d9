package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/scribe/doc"
)

func (m Model) View() string {
	view := m.viewport.View()
	if pl, ok := m.toolbarPlacement(); ok {
		view = pl.composite(view)
	}
	if m.cfg.ShowStatus {
		view += "\n" + m.statusLine()
	}
	return view
}

func (m Model) statusLine() string {
	n := m.doc.WordCount()
	unit := "words"
	if n == 1 {
		unit = "word"
	}
	return m.cfg.Style.Status.Render(fmt.Sprintf("%d %s", n, unit))
}

func (m Model) renderContent() string {
	l := m.geo.layout
	if l == nil || len(l.lines) == 0 {
		return ""
	}

	sel, hasSel := m.doc.Selection()
	caretRow, caretCol, caretOK := l.locate(m.doc.Caret())
	caretOK = caretOK && m.caretShown()

	var sb strings.Builder
	for row, ln := range l.lines {
		if row > 0 {
			sb.WriteByte('\n')
		}
		col := -1
		if caretOK && row == caretRow {
			col = caretCol
		}
		sb.WriteString(m.renderLine(ln, sel, hasSel, col))
	}
	return sb.String()
}

// renderLine renders one visual line. caretCol is -1 when the caret is on
// another line.
func (m Model) renderLine(ln layoutLine, sel doc.Range, hasSel bool, caretCol int) string {
	st := m.cfg.Style
	base := st.Text
	switch ln.kind {
	case lineBlank:
		return ""
	case lineTitle:
		base = st.Title
	case lineQuote:
		base = st.Quote
	}

	var sb strings.Builder
	if ln.kind == lineQuote {
		sb.WriteString(st.QuoteBar.Render(quotePrefix))
	}
	caretDrawn := false
	for _, c := range ln.cells {
		cs := m.cellStyle(base, c.kinds)
		if hasSel && doc.ComparePos(sel.Start, c.pos) <= 0 && doc.ComparePos(c.pos, sel.End) < 0 {
			cs = st.Selection.Inherit(cs)
		}
		if c.col == caretCol && !caretDrawn {
			cs = st.Cursor.Inherit(cs)
			caretDrawn = true
		}
		text := c.text
		if text == "\t" {
			text = " "
		}
		sb.WriteString(cs.Render(text))
	}
	if caretCol >= 0 && !caretDrawn {
		sb.WriteString(st.Cursor.Inherit(base).Render(" "))
	}
	return sb.String()
}

func (m Model) cellStyle(base lipgloss.Style, kinds doc.KindSet) lipgloss.Style {
	st := m.cfg.Style
	out := base
	if kinds.Has(doc.KindBold) {
		out = st.Bold.Inherit(out)
	}
	if kinds.Has(doc.KindItalic) {
		out = st.Italic.Inherit(out)
	}
	if kinds.Has(doc.KindLink) {
		out = st.Link.Inherit(out)
	}
	return out
}
