package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/toolbar"
)

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if isWheelMouse(msg) {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.geo.scrollY = m.viewport.YOffset
		m.engine.Reposition()
		return m, cmd
	}
	if !m.focused {
		return m, nil
	}

	// Only left button interactions select or click.
	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if pl, ok := m.toolbarPlacement(); ok && pl.contains(msg.X, msg.Y) {
			return m.pressToolbar(pl, msg.X)
		}

		m.pressTarget = TargetDocument
		if m.input.Focused() {
			m.blurURLInput()
		}
		if !m.mouseInBounds(msg.X, msg.Y) {
			return m, nil
		}
		p, ok := m.ScreenToDoc(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if msg.Shift {
			anchor := m.doc.Current().Anchor
			_ = m.doc.SetRange(doc.Range{Start: anchor, End: p})
			m.mouseAnchor = anchor
		} else {
			_ = m.doc.SetCaret(p)
			m.mouseAnchor = p
		}
		m.mouseDragging = true
		return m, m.effectCmd(m.engine.Observe(InputEvent{Kind: EventMouseDown, Target: TargetDocument}))

	case tea.MouseActionMotion:
		if !m.mouseDragging {
			return m, nil
		}
		x, y := m.clampMouseToBounds(msg.X, msg.Y)
		if p, ok := m.ScreenToDoc(x, y); ok {
			_ = m.doc.SetRange(doc.Range{Start: m.mouseAnchor, End: p})
		}

	case tea.MouseActionRelease:
		m.mouseDragging = false
		target := m.pressTarget
		return m, tea.Tick(m.cfg.SettleDelay, func(time.Time) tea.Msg { return settleMsg{target: target} })
	}

	return m, nil
}

func (m Model) pressToolbar(pl toolbarPlacement, x int) (Model, tea.Cmd) {
	m.pressTarget = TargetToolbar
	m.engine.Observe(InputEvent{Kind: EventMouseDown, Target: TargetToolbar})

	if a, ok := pl.actionAt(x); ok {
		if a == ActionLink {
			return m, m.dispatchLink()
		}
		if m.input.Focused() {
			m.blurURLInput()
		}
		return m, m.effectCmd(m.engine.Dispatch(a))
	}
	if m.engine.Toolbar().Mode == toolbar.URLInput && pl.inInput(x) {
		m.pressTarget = TargetURLInput
		if !m.input.Focused() {
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func isWheelMouse(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return false
	}
	return x >= 0 && x < m.viewport.Width && y >= 0 && y < m.viewport.Height
}

func (m Model) clampMouseToBounds(x, y int) (int, int) {
	if m.viewport.Width > 0 {
		x = clampInt(x, 0, m.viewport.Width-1)
	}
	if m.viewport.Height > 0 {
		y = clampInt(y, 0, m.viewport.Height-1)
	}
	return x, y
}
