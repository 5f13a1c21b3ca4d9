package editor

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/store"
	"github.com/iw2rmb/scribe/toolbar"
)

// CompositionStartMsg tells the editor an IME composition began. Hosts that
// receive composition events from their input layer forward them as these
// messages.
type CompositionStartMsg struct{}

// CompositionEndMsg tells the editor the IME composition finished.
type CompositionEndMsg struct{}

type settleMsg struct{ target Target }

type fadeMsg struct{ gen toolbar.Generation }

type prefillMsg struct{ gen LinkGeneration }

// Model is a Bubble Tea component that renders and edits a document with a
// floating formatting toolbar.
type Model struct {
	cfg    Config
	doc    *doc.Document
	engine *Engine
	geo    *geometry

	focused bool

	viewport viewport.Model
	input    textinput.Model
	persist  persistence

	mouseAnchor   doc.Pos
	mouseDragging bool
	pressTarget   Target

	lastVersion    uint64
	lastToolbar    toolbar.State
	lastCaretShown bool
}

func New(cfg Config) Model {
	cfg = normalizeConfig(cfg)
	d := doc.New()
	m := Model{
		cfg:      cfg,
		doc:      d,
		geo:      &geometry{},
		focused:  true,
		viewport: viewport.New(0, 0),
		input:    newURLInput(cfg.Style),
		persist:  newPersistence(cfg.Store, cfg.Logger),
	}
	m.loadContent()
	m.engine = NewEngine(d, d, m.geo, EngineOptions{
		ToolbarOffset:   cfg.ToolbarOffset,
		PlaceholderHref: cfg.PlaceholderHref,
		Logger:          cfg.Logger,
	})
	m.lastVersion = d.Version()
	m.lastToolbar = m.engine.Toolbar()
	m.lastCaretShown = m.caretShown()
	m.rebuildContent()
	return m
}

func newURLInput(st Style) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Paste or type a link"
	in.CharLimit = 2048
	in.Width = 24
	in.TextStyle = st.ToolbarInput
	in.PlaceholderStyle = st.ToolbarInput.Faint(true)
	return in
}

// loadContent fills the document from the store, falling back to the seed
// content for each field the store has no value for.
func (m *Model) loadContent() {
	title, body := m.cfg.Title, m.cfg.BodyHTML
	if c, ok := m.persist.load(); ok {
		if c.Title != "" {
			title = c.Title
		}
		if c.Body != "" {
			body = c.Body
		}
	}
	m.doc.SetTitle(title)
	if err := m.doc.SetBodyHTML(body); err != nil {
		m.cfg.Logger.Warn("body rejected, starting empty", zap.Error(err))
		_ = m.doc.SetBodyHTML("")
	}
	m.doc.CaretToTitleEnd()
}

// Document returns the live document. Hosts that mutate it directly should
// send any message afterwards so the view is rebuilt.
func (m Model) Document() *doc.Document { return m.doc }

func (m Model) Toolbar() toolbar.State { return m.engine.Toolbar() }

func (m Model) Composing() bool { return m.engine.Composing() }

// URLInput returns the current text of the toolbar URL input.
func (m Model) URLInput() string { return m.input.Value() }

// URLInputFocused reports whether keys go to the URL input.
func (m Model) URLInputFocused() bool { return m.input.Focused() }

// Content returns the title and body as they are persisted.
func (m Model) Content() store.Content {
	return store.Content{Title: m.doc.Title(), Body: m.doc.BodyHTML()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if m.cfg.ShowStatus && height > 0 {
		height--
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCaret()
	m.engine.Reposition()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.lastCaretShown = m.caretShown()
		m.rebuildContent()
		m.followCaret()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.lastCaretShown = m.caretShown()
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		m, cmd = m.updateKey(msg)
	case tea.MouseMsg:
		m, cmd = m.updateMouse(msg)
	case settleMsg:
		cmd = m.effectCmd(m.engine.Observe(InputEvent{Kind: EventMouseUp, Target: msg.target}))
	case fadeMsg:
		m.engine.ConfirmBlur(msg.gen)
	case prefillMsg:
		if href, ok := m.engine.Prefill(msg.gen); ok && m.input.Value() == "" {
			m.input.SetValue(href)
			m.input.CursorEnd()
		}
	case CompositionStartMsg:
		m.engine.CompositionStart()
	case CompositionEndMsg:
		m.engine.CompositionEnd()
	default:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
		}
	}
	m.syncFromDocument()
	return m, cmd
}

func (m Model) effectCmd(eff Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.Fade != 0 {
		g := eff.Fade
		cmds = append(cmds, tea.Tick(m.cfg.FadeDelay, func(time.Time) tea.Msg { return fadeMsg{gen: g} }))
	}
	if eff.Prefill != 0 {
		g := eff.Prefill
		cmds = append(cmds, tea.Tick(m.cfg.PrefillDelay, func(time.Time) tea.Msg { return prefillMsg{gen: g} }))
	}
	return tea.Batch(cmds...)
}

// syncFromDocument rebuilds the view after the document, the selection or
// the toolbar changed and notifies OnChange.
func (m *Model) syncFromDocument() {
	ver := m.doc.Version()
	docChanged := ver != m.lastVersion
	if docChanged || m.caretShown() != m.lastCaretShown {
		m.lastCaretShown = m.caretShown()
		m.rebuildContent()
	}
	if docChanged {
		m.followCaret()
		m.engine.Reposition()
	}
	tb := m.engine.Toolbar()
	if !docChanged && tb == m.lastToolbar {
		return
	}
	m.lastVersion = ver
	m.lastToolbar = tb
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(buildChangeEvent(m.doc, m.engine))
	}
}

// caretShown reports whether the document caret is drawn.
func (m Model) caretShown() bool { return m.focused && !m.input.Focused() }

func (m *Model) rebuildContent() {
	m.geo.layout = buildLayout(m.doc, m.viewport.Width)
	m.viewport.SetContent(m.renderContent())
	m.geo.scrollY = m.viewport.YOffset
}

func (m *Model) followCaret() {
	defer func() { m.geo.scrollY = m.viewport.YOffset }()
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	row, _, ok := m.geo.layout.locate(m.doc.Caret())
	if !ok {
		return
	}
	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
