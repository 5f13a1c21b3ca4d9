package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/toolbar"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.input.Focused() {
		return m.updateURLInputKey(msg)
	}
	if !m.focused {
		return m, nil
	}

	km := m.cfg.KeyMap
	target := TargetDocument
	var cmds []tea.Cmd

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.doc.InsertText(normalizeNewlines(string(msg.Runes)))
		return m.keyUp(target, cmds...)
	}

	switch {
	case key.Matches(msg, km.Bold):
		target = TargetToolbar
		cmds = append(cmds, m.effectCmd(m.engine.Dispatch(ActionBold)))
	case key.Matches(msg, km.Italic):
		target = TargetToolbar
		cmds = append(cmds, m.effectCmd(m.engine.Dispatch(ActionItalic)))
	case key.Matches(msg, km.Quote):
		target = TargetToolbar
		cmds = append(cmds, m.effectCmd(m.engine.Dispatch(ActionQuote)))
	case key.Matches(msg, km.Link):
		target = TargetToolbar
		cmds = append(cmds, m.dispatchLink())

	case key.Matches(msg, km.Left):
		m.doc.Move(doc.Move{Unit: doc.MoveRune, Dir: doc.DirLeft})
	case key.Matches(msg, km.Right):
		m.doc.Move(doc.Move{Unit: doc.MoveRune, Dir: doc.DirRight})
	case key.Matches(msg, km.Up):
		m.moveVertical(-1, false)
	case key.Matches(msg, km.Down):
		m.moveVertical(1, false)

	case key.Matches(msg, km.ShiftLeft):
		m.doc.Move(doc.Move{Unit: doc.MoveRune, Dir: doc.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		m.doc.Move(doc.Move{Unit: doc.MoveRune, Dir: doc.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		m.moveVertical(-1, true)
	case key.Matches(msg, km.ShiftDown):
		m.moveVertical(1, true)

	case key.Matches(msg, km.WordLeft):
		m.doc.Move(doc.Move{Unit: doc.MoveWord, Dir: doc.DirLeft})
	case key.Matches(msg, km.WordRight):
		m.doc.Move(doc.Move{Unit: doc.MoveWord, Dir: doc.DirRight})
	case key.Matches(msg, km.ShiftWordLeft):
		m.doc.Move(doc.Move{Unit: doc.MoveWord, Dir: doc.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftWordRight):
		m.doc.Move(doc.Move{Unit: doc.MoveWord, Dir: doc.DirRight, Extend: true})

	case key.Matches(msg, km.Home):
		m.doc.Move(doc.Move{Unit: doc.MoveBlock, Dir: doc.DirHome})
	case key.Matches(msg, km.End):
		m.doc.Move(doc.Move{Unit: doc.MoveBlock, Dir: doc.DirEnd})
	case key.Matches(msg, km.ShiftHome):
		m.doc.Move(doc.Move{Unit: doc.MoveBlock, Dir: doc.DirHome, Extend: true})
	case key.Matches(msg, km.ShiftEnd):
		m.doc.Move(doc.Move{Unit: doc.MoveBlock, Dir: doc.DirEnd, Extend: true})
	case key.Matches(msg, km.SelectAll):
		m.doc.SelectAll()

	case key.Matches(msg, km.Backspace):
		m.doc.DeleteBackward()
	case key.Matches(msg, km.Delete):
		m.doc.DeleteForward()
	case key.Matches(msg, km.Enter):
		m.doc.InsertParagraph()

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		m.cutSelection()
	case key.Matches(msg, km.Paste):
		m.pasteClipboard()

	default:
		if msg.Type == tea.KeySpace {
			m.doc.InsertText(" ")
		} else if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			m.doc.InsertText(string(msg.Runes))
		}
	}

	return m.keyUp(target, cmds...)
}

// keyUp runs the observer for the key release and saves the document.
func (m Model) keyUp(target Target, cmds ...tea.Cmd) (Model, tea.Cmd) {
	cmds = append(cmds, m.effectCmd(m.engine.Observe(InputEvent{Kind: EventKeyUp, Target: target})))
	m.persist.save(m.Content())
	return m, tea.Batch(cmds...)
}

func (m Model) updateURLInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.cfg.KeyMap
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, km.Submit):
		m.engine.CommitURL(m.input.Value())
		m.blurURLInput()
	case key.Matches(msg, km.Cancel):
		m.blurURLInput()
	case key.Matches(msg, km.Link):
		// Same as clicking the link button again: leave without committing.
		cmd = m.dispatchLink()
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m.keyUp(TargetURLInput, cmd)
}

// dispatchLink clicks the link button and moves key focus to or away from
// the URL input.
func (m *Model) dispatchLink() tea.Cmd {
	eff := m.engine.Dispatch(ActionLink)
	if m.engine.Toolbar().Mode != toolbar.URLInput {
		m.input.Blur()
		m.input.Reset()
		return m.effectCmd(eff)
	}
	m.input.Reset()
	return tea.Batch(m.input.Focus(), m.effectCmd(eff))
}

// blurURLInput takes focus away from the URL input. Losing focus commits the
// entered URL; the engine ignores the commit when Enter already did it.
func (m *Model) blurURLInput() {
	if m.engine.CommitURL(m.input.Value()) {
		m.cfg.Logger.Debug("url input committed on blur")
	}
	m.input.Blur()
	m.input.Reset()
}

// moveVertical moves the caret to the visual row delta rows away, keeping the
// screen column. Blank separator rows are skipped.
func (m *Model) moveVertical(delta int, extend bool) {
	l := m.geo.layout
	snap := m.doc.Current()
	row, col, ok := l.locate(snap.Focus)
	if !ok {
		return
	}
	target := row + delta
	for target >= 0 && target < len(l.lines) && l.lines[target].kind == lineBlank {
		target += delta
	}
	if target < 0 || target >= len(l.lines) {
		dir := doc.DirHome
		if delta > 0 {
			dir = doc.DirEnd
		}
		m.doc.Move(doc.Move{Unit: doc.MoveBlock, Dir: dir, Extend: extend})
		return
	}
	p, ok := l.hit(target, col)
	if !ok {
		return
	}
	if extend {
		_ = m.doc.SetRange(doc.Range{Start: snap.Anchor, End: p})
		return
	}
	_ = m.doc.SetCaret(p)
}

func (m Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	s := m.doc.SelectedText()
	if s == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(s); err != nil {
		m.cfg.Logger.Warn("clipboard write failed", zap.Error(err))
	}
}

func (m Model) cutSelection() {
	if _, ok := m.doc.Selection(); !ok {
		return
	}
	m.copySelection()
	m.doc.DeleteSelection()
}

func (m Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.cfg.Logger.Warn("clipboard read failed", zap.Error(err))
		return
	}
	if s == "" {
		return
	}
	m.doc.InsertText(normalizeNewlines(s))
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
