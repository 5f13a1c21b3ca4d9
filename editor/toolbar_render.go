package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/scribe/toolbar"
)

const toolbarSeparator = "│"

type toolbarButton struct {
	action     Action
	start, end int
}

// toolbarPlacement is the toolbar as drawn on screen. Coordinates are
// viewport-local cells.
type toolbarPlacement struct {
	view        string
	x, y, width int
	buttons     []toolbarButton
	inputStart  int
	inputEnd    int
}

func (p toolbarPlacement) contains(x, y int) bool {
	return y == p.y && x >= p.x && x < p.x+p.width
}

func (p toolbarPlacement) actionAt(x int) (Action, bool) {
	for _, b := range p.buttons {
		if x >= b.start && x < b.end {
			return b.action, true
		}
	}
	return 0, false
}

func (p toolbarPlacement) inInput(x int) bool {
	return p.inputEnd > p.inputStart && x >= p.inputStart && x < p.inputEnd
}

func (p toolbarPlacement) composite(base string) string {
	return overlay.Composite(p.view, base, overlay.Left, overlay.Top, p.x, p.y)
}

// toolbarPlacement lays out the toolbar for the current state. ok is false
// when the toolbar is hidden or its anchor row is scrolled out of view.
func (m Model) toolbarPlacement() (toolbarPlacement, bool) {
	tb := m.engine.Toolbar()
	if tb.Visibility == toolbar.Hidden {
		return toolbarPlacement{}, false
	}
	w, h := m.viewport.Width, m.viewport.Height
	if w <= 0 || h <= 0 {
		return toolbarPlacement{}, false
	}
	y := tb.Position.Top - m.viewport.YOffset
	if y < -m.cfg.ToolbarOffset || y >= h {
		return toolbarPlacement{}, false
	}
	y = clampInt(y, 0, h-1)

	pl := m.renderToolbar(tb)
	pl.y = y
	pl.x = clampInt(tb.Position.Left-pl.width/2, 0, maxInt(w-pl.width, 0))
	for i := range pl.buttons {
		pl.buttons[i].start += pl.x
		pl.buttons[i].end += pl.x
	}
	if pl.inputEnd > pl.inputStart {
		pl.inputStart += pl.x
		pl.inputEnd += pl.x
	}
	return pl, true
}

// renderToolbar renders the toolbar at x=0.
func (m Model) renderToolbar(tb toolbar.State) toolbarPlacement {
	st := m.cfg.Style
	frame, normal, active := st.Toolbar, st.ToolbarButton, st.ToolbarButtonActive
	if tb.Visibility == toolbar.FadingOut {
		frame, normal, active = st.ToolbarFading, st.ToolbarFading, st.ToolbarFading
	}

	var (
		pl  toolbarPlacement
		sb  strings.Builder
		col int
	)
	write := func(s string) {
		sb.WriteString(s)
		col += lipgloss.Width(s)
	}
	button := func(a Action, label string, on bool) {
		if col > 0 {
			write(frame.Render(toolbarSeparator))
		}
		style := normal
		if on {
			style = active
		}
		start := col
		write(style.Render(" " + label + " "))
		pl.buttons = append(pl.buttons, toolbarButton{action: a, start: start, end: col})
	}

	if tb.Mode == toolbar.URLInput {
		button(ActionLink, "Link", true)
		write(frame.Render(toolbarSeparator + " "))
		pl.inputStart = col
		write(m.input.View())
		pl.inputEnd = col
		write(frame.Render(" "))
	} else {
		button(ActionBold, "B", tb.Buttons.Bold)
		button(ActionItalic, "I", tb.Buttons.Italic)
		button(ActionQuote, "Quote", tb.Buttons.Quote)
		button(ActionLink, "Link", tb.Buttons.Link)
	}

	pl.view = sb.String()
	pl.width = col
	return pl
}
