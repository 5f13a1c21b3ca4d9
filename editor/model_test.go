package editor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/store"
	"github.com/iw2rmb/scribe/toolbar"
)

type memClipboard struct{ s string }

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

type countingStore struct {
	store.Store
	available bool
	saves     int
}

func (s *countingStore) Available(context.Context) bool { return s.available }

func (s *countingStore) Save(ctx context.Context, c store.Content) error {
	s.saves++
	return s.Store.Save(ctx, c)
}

func newModel(t *testing.T, cfg Config) Model {
	t.Helper()
	if cfg.Title == "" {
		cfg.Title = "Title"
	}
	if cfg.BodyHTML == "" {
		cfg.BodyHTML = "<p>hello world</p>"
	}
	m := New(cfg)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_SeedsContentWithCaretAtTitleEnd(t *testing.T) {
	m := newModel(t, Config{})
	d := m.Document()
	if got := d.Title(); got != "Title" {
		t.Fatalf("title: got %q, want %q", got, "Title")
	}
	if got, want := d.BodyHTML(), "<p>hello world</p>"; got != want {
		t.Fatalf("body: got %q, want %q", got, want)
	}
	caret := d.Caret()
	if caret.Node.Text() != "Title" || caret.Offset != 5 {
		t.Fatalf("caret: got %q@%d, want end of title", caret.Node.Text(), caret.Offset)
	}
	if got := m.Toolbar().Visibility; got != toolbar.Hidden {
		t.Fatalf("toolbar: got %v, want %v", got, toolbar.Hidden)
	}
}

func TestNew_LoadsStoreWithPerFieldFallback(t *testing.T) {
	s := store.NewMemory("t")
	if err := s.Save(context.Background(), store.Content{Title: "Stored"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m := newModel(t, Config{Store: s})
	if got := m.Document().Title(); got != "Stored" {
		t.Fatalf("title: got %q, want %q", got, "Stored")
	}
	if got, want := m.Document().BodyHTML(), "<p>hello world</p>"; got != want {
		t.Fatalf("body: got %q, want seeded %q", got, want)
	}
}

func TestUpdate_SavesAfterKeyUp(t *testing.T) {
	s := &countingStore{Store: store.NewMemory("t"), available: true}
	m := newModel(t, Config{Store: s})

	m, _ = m.Update(runes("!"))
	c, ok, err := s.Load(context.Background())
	if err != nil || !ok {
		t.Fatalf("Load: %v %v", ok, err)
	}
	if c.Title != "Title!" || c.Body != "<p>hello world</p>" {
		t.Fatalf("saved: got %+v", c)
	}

	// Moving the caret does not change the content and is not saved again.
	saves := s.saves
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if s.saves != saves {
		t.Fatalf("saves after caret move: got %d, want %d", s.saves, saves)
	}
}

func TestUpdate_UnavailableStoreIsNeverCalled(t *testing.T) {
	s := &countingStore{Store: store.NewMemory("t"), available: false}
	m := newModel(t, Config{Store: s})
	m, _ = m.Update(runes("x"))
	if s.saves != 0 {
		t.Fatalf("saves: got %d, want 0", s.saves)
	}
	if got := m.Document().Title(); got != "Titlex" {
		t.Fatalf("title: got %q, want %q", got, "Titlex")
	}
}

func TestUpdate_KeySelectionActivatesAndCollapseFades(t *testing.T) {
	m := newModel(t, Config{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true})
	tb := m.Toolbar()
	if tb.Visibility != toolbar.Active {
		t.Fatalf("after select all: got %v, want %v", tb.Visibility, toolbar.Active)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Toolbar().Visibility; got != toolbar.FadingOut {
		t.Fatalf("after collapse: got %v, want %v", got, toolbar.FadingOut)
	}
	if cmd == nil {
		t.Fatalf("collapse did not schedule the fade confirmation")
	}

	m, _ = m.Update(fadeMsg{gen: m.Toolbar().Generation()})
	tb = m.Toolbar()
	if tb.Visibility != toolbar.Hidden || tb.Position != toolbar.Offscreen {
		t.Fatalf("after fade: got %v at %+v", tb.Visibility, tb.Position)
	}
}

func TestUpdate_FadeSupersededByNewSelection(t *testing.T) {
	m := newModel(t, Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	stale := fadeMsg{gen: m.Toolbar().Generation()}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	m, _ = m.Update(stale)
	if got := m.Toolbar().Visibility; got != toolbar.Active {
		t.Fatalf("visibility: got %v, want %v", got, toolbar.Active)
	}
}

func TestUpdate_ShrinkingSelectionToInlineBoundaryFades(t *testing.T) {
	m := newModel(t, Config{BodyHTML: "<p>ab<b>cd</b></p>"})
	p := findPos(t, m.Document(), "ab")
	if err := m.Document().SetCaret(doc.Pos{Node: p.Node, Offset: 2}); err != nil {
		t.Fatalf("SetCaret: %v", err)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	if got := m.Toolbar().Visibility; got != toolbar.Active {
		t.Fatalf("after shift+right: got %v, want %v", got, toolbar.Active)
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	if got := m.Toolbar().Visibility; got != toolbar.FadingOut {
		t.Fatalf("after shift+left: got %v, want %v", got, toolbar.FadingOut)
	}
	if cmd == nil {
		t.Fatalf("collapse did not schedule the fade confirmation")
	}
	if _, ok := m.Document().Selection(); ok {
		t.Fatalf("zero-length selection reported as active")
	}
	m, _ = m.Update(fadeMsg{gen: m.Toolbar().Generation()})
	if got := m.Toolbar().Visibility; got != toolbar.Hidden {
		t.Fatalf("after fade: got %v, want %v", got, toolbar.Hidden)
	}
}

func TestUpdate_TitleSelectionDoesNotActivate(t *testing.T) {
	m := newModel(t, Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	if _, ok := m.Document().Selection(); !ok {
		t.Fatalf("no selection in title")
	}
	if got := m.Toolbar().Visibility; got != toolbar.Hidden {
		t.Fatalf("visibility: got %v, want %v", got, toolbar.Hidden)
	}
}

func TestUpdate_CompositionSuppressesActivation(t *testing.T) {
	m := newModel(t, Config{})
	m, _ = m.Update(CompositionStartMsg{})
	if !m.Composing() {
		t.Fatalf("composition not started")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true})
	if got := m.Toolbar().Visibility; got != toolbar.Hidden {
		t.Fatalf("visibility during composition: got %v, want %v", got, toolbar.Hidden)
	}
	m, _ = m.Update(CompositionEndMsg{})
	m, _ = m.Update(settleMsg{target: TargetDocument})
	if got := m.Toolbar().Visibility; got != toolbar.Active {
		t.Fatalf("visibility after composition: got %v, want %v", got, toolbar.Active)
	}
}

func TestUpdate_MouseDragSelectsAfterSettle(t *testing.T) {
	m := newModel(t, Config{})

	// Row 2 holds the first paragraph; "world" spans columns 6..11.
	m, _ = m.Update(tea.MouseMsg{X: 6, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 11, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, cmd := m.Update(tea.MouseMsg{X: 11, Y: 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatalf("release did not schedule the settle check")
	}
	if got := m.Document().SelectedText(); got != "world" {
		t.Fatalf("selection: got %q, want %q", got, "world")
	}
	if got := m.Toolbar().Visibility; got != toolbar.Hidden {
		t.Fatalf("toolbar shown before the selection settled")
	}

	m, _ = m.Update(settleMsg{target: TargetDocument})
	tb := m.Toolbar()
	if tb.Visibility != toolbar.Active {
		t.Fatalf("visibility: got %v, want %v", tb.Visibility, toolbar.Active)
	}
	if got, want := tb.Position, (toolbar.Position{Top: 1, Left: 8}); got != want {
		t.Fatalf("position: got %+v, want %+v", got, want)
	}
}

func activateOn(t *testing.T, m Model, text string) Model {
	t.Helper()
	selectText(t, m.Document(), text)
	m, _ = m.Update(settleMsg{target: TargetDocument})
	if m.Toolbar().Visibility != toolbar.Active {
		t.Fatalf("toolbar not active on %q", text)
	}
	return m
}

func TestView_RendersToolbarOverDocument(t *testing.T) {
	m := newModel(t, Config{})
	m = m.Blur()
	assertLines(t, viewLines(m), []string{"Title", "", "hello world"})

	m = activateOn(t, m, "world")
	lines := viewLines(m)
	if got, want := lines[1], "B │ I │ Quote │ Link"; strings.TrimSpace(got) != want {
		t.Fatalf("toolbar row: got %q, want %q", got, want)
	}
	if lines[2] != "hello world" {
		t.Fatalf("document row: got %q", lines[2])
	}
}

func TestView_QuoteAndStatusLine(t *testing.T) {
	m := New(Config{Title: "T", BodyHTML: "<blockquote>said</blockquote><p>one two</p>", ShowStatus: true})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 7})
	m = m.Blur()
	lines := viewLines(m)
	assertLines(t, lines, []string{"T", "", "│ said", "", "one two"})
	if got := lines[len(lines)-1]; got != "3 words" {
		t.Fatalf("status: got %q, want %q", got, "3 words")
	}
}

func TestUpdate_ToolbarButtonClick(t *testing.T) {
	m := newModel(t, Config{})
	m = activateOn(t, m, "world")

	pl, ok := m.toolbarPlacement()
	if !ok {
		t.Fatalf("toolbar not placed")
	}
	var bold toolbarButton
	for _, b := range pl.buttons {
		if b.action == ActionBold {
			bold = b
		}
	}
	m, _ = m.Update(tea.MouseMsg{X: bold.start + 1, Y: pl.y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, want := m.Document().BodyHTML(), "<p>hello <b>world</b></p>"; got != want {
		t.Fatalf("body: got %q, want %q", got, want)
	}
	tb := m.Toolbar()
	if tb.Visibility != toolbar.Active || !tb.Buttons.Bold {
		t.Fatalf("toolbar after click: %+v", tb)
	}

	m, cmd := m.Update(tea.MouseMsg{X: bold.start + 1, Y: pl.y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatalf("release did not schedule the settle check")
	}
	m, _ = m.Update(settleMsg{target: TargetToolbar})
	if got := m.Toolbar().Visibility; got != toolbar.Active {
		t.Fatalf("toolbar settle changed visibility: %v", got)
	}
}

func TestUpdate_LinkEntryWithKeyboard(t *testing.T) {
	m := newModel(t, Config{})
	m = activateOn(t, m, "world")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	if m.Toolbar().Mode != toolbar.URLInput || !m.URLInputFocused() {
		t.Fatalf("url input not open: mode=%v focused=%v", m.Toolbar().Mode, m.URLInputFocused())
	}
	m, _ = m.Update(prefillMsg{gen: m.engine.link.gen})
	if got, want := m.Document().BodyHTML(), `<p>hello <a href="/">world</a></p>`; got != want {
		t.Fatalf("placeholder: got %q, want %q", got, want)
	}

	for _, r := range "example.com" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := m.URLInput(); got != "example.com" {
		t.Fatalf("input: got %q, want %q", got, "example.com")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got, want := m.Document().BodyHTML(), `<p>hello <a href="http://example.com">world</a></p>`; got != want {
		t.Fatalf("body: got %q, want %q", got, want)
	}
	if m.URLInputFocused() || m.URLInput() != "" {
		t.Fatalf("input not cleared: focused=%v value=%q", m.URLInputFocused(), m.URLInput())
	}
	tb := m.Toolbar()
	if tb.Mode != toolbar.Normal || !tb.Buttons.Link {
		t.Fatalf("toolbar after commit: %+v", tb)
	}
}

func TestUpdate_LinkInputPrefilledInsideLink(t *testing.T) {
	m := newModel(t, Config{BodyHTML: `<p>see <a href="https://go.dev">site</a></p>`})
	m = activateOn(t, m, "site")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	m, _ = m.Update(prefillMsg{gen: m.engine.link.gen})
	if got := m.URLInput(); got != "https://go.dev" {
		t.Fatalf("input: got %q, want %q", got, "https://go.dev")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got, want := m.Document().BodyHTML(), `<p>see <a href="https://go.dev">site</a></p>`; got != want {
		t.Fatalf("body: got %q, want %q", got, want)
	}
}

func TestUpdate_LinkShortcutAgainCancels(t *testing.T) {
	m := newModel(t, Config{})
	m = activateOn(t, m, "world")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	m, _ = m.Update(prefillMsg{gen: m.engine.link.gen})
	m, _ = m.Update(runes("x.io"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	if got, want := m.Document().BodyHTML(), "<p>hello world</p>"; got != want {
		t.Fatalf("body: got %q, want %q", got, want)
	}
	if m.URLInputFocused() || m.Toolbar().Mode != toolbar.Normal {
		t.Fatalf("url input still open")
	}
}

func TestUpdate_ClickInDocumentCommitsLink(t *testing.T) {
	m := newModel(t, Config{})
	m = activateOn(t, m, "hello")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	for _, r := range "a.io" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, want := m.Document().BodyHTML(), `<p><a href="http://a.io">hello</a> world</p>`; got != want {
		t.Fatalf("body: got %q, want %q", got, want)
	}
	if m.Toolbar().Mode != toolbar.Normal {
		t.Fatalf("mode: got %v, want %v", m.Toolbar().Mode, toolbar.Normal)
	}
}

func TestUpdate_ResizeRepositionsActiveToolbar(t *testing.T) {
	m := New(Config{Title: "T", BodyHTML: "<p>aaaa bbbb</p>"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 8})
	m = activateOn(t, m, "bbbb")
	if got, want := m.Toolbar().Position, (toolbar.Position{Top: 1, Left: 7}); got != want {
		t.Fatalf("position: got %+v, want %+v", got, want)
	}
	buttons := m.Toolbar().Buttons

	m, _ = m.Update(tea.WindowSizeMsg{Width: 6, Height: 8})
	tb := m.Toolbar()
	if got, want := tb.Position, (toolbar.Position{Top: 2, Left: 2}); got != want {
		t.Fatalf("position after resize: got %+v, want %+v", got, want)
	}
	if tb.Buttons != buttons || tb.Visibility != toolbar.Active {
		t.Fatalf("resize changed toolbar state: %+v", tb)
	}
}

func TestUpdate_WheelScrollKeepsToolbarOnSelection(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&body, "<p>para%d</p>", i)
	}
	m := New(Config{Title: "T", BodyHTML: body.String()})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 4})
	m = activateOn(t, m, "para3")

	// para3 is on document row 8; the toolbar sits one row above it.
	want := toolbar.Position{Top: 7, Left: 2}
	if got := m.Toolbar().Position; got != want {
		t.Fatalf("position: got %+v, want %+v", got, want)
	}
	assertPlaced := func(step string) {
		t.Helper()
		pl, ok := m.toolbarPlacement()
		if !ok {
			t.Fatalf("%s: toolbar not drawn at offset %d", step, m.viewport.YOffset)
		}
		if y := maxInt(want.Top-m.viewport.YOffset, 0); pl.y != y {
			t.Fatalf("%s: y: got %d, want %d", step, pl.y, y)
		}
	}
	assertPlaced("after activation")

	wheel := func(b tea.MouseButton) {
		t.Helper()
		before := m.viewport.YOffset
		m, _ = m.Update(tea.MouseMsg{Button: b, Action: tea.MouseActionPress})
		if m.viewport.YOffset == before {
			t.Fatalf("wheel did not scroll from offset %d", before)
		}
		if got := m.Toolbar().Position; got != want {
			t.Fatalf("position after scroll to %d: got %+v, want %+v", m.viewport.YOffset, got, want)
		}
		if got := m.Toolbar().Visibility; got != toolbar.Active {
			t.Fatalf("visibility after scroll: got %v, want %v", got, toolbar.Active)
		}
	}

	// The selection row is still at the top of the view; the toolbar clamps
	// to the first row.
	wheel(tea.MouseButtonWheelDown)
	assertPlaced("after wheel down")

	for m.viewport.YOffset <= want.Top+m.cfg.ToolbarOffset {
		wheel(tea.MouseButtonWheelDown)
	}
	if _, ok := m.toolbarPlacement(); ok {
		t.Fatalf("toolbar drawn with its row scrolled away (offset %d)", m.viewport.YOffset)
	}

	for m.viewport.YOffset > want.Top {
		wheel(tea.MouseButtonWheelUp)
	}
	assertPlaced("after scrolling back")
}

func TestUpdate_VerticalMovementKeepsColumn(t *testing.T) {
	m := newModel(t, Config{BodyHTML: "<p>hello world</p><p>second</p>"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	c := m.Document().Caret()
	if c.Node.Text() != "hello world" || c.Offset != 5 {
		t.Fatalf("caret after down: got %q@%d", c.Node.Text(), c.Offset)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	c = m.Document().Caret()
	if c.Node.Text() != "second" || c.Offset != 5 {
		t.Fatalf("caret after second down: got %q@%d", c.Node.Text(), c.Offset)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftUp})
	if got, want := m.Document().SelectedText(), " world\nsecon"; got != want {
		t.Fatalf("selection: got %q, want %q", got, want)
	}
}

func TestUpdate_ClipboardCopyCutPaste(t *testing.T) {
	clip := &memClipboard{}
	m := newModel(t, Config{Clipboard: clip})
	selectText(t, m.Document(), "world")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	if clip.s != "world" {
		t.Fatalf("clipboard: got %q, want %q", clip.s, "world")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if got, want := m.Document().BodyHTML(), "<p>hello </p>"; got != want {
		t.Fatalf("body after cut: got %q, want %q", got, want)
	}
	clip.s = "there"
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got, want := m.Document().BodyHTML(), "<p>hello there</p>"; got != want {
		t.Fatalf("body after paste: got %q, want %q", got, want)
	}
}

func TestUpdate_OnChangeReportsWordCount(t *testing.T) {
	var last ChangeEvent
	calls := 0
	m := newModel(t, Config{OnChange: func(ev ChangeEvent) {
		last = ev
		calls++
	}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m, _ = m.Update(runes(" again"))
	if calls == 0 {
		t.Fatalf("OnChange not called")
	}
	if last.WordCount != 3 {
		t.Fatalf("word count: got %d, want %d", last.WordCount, 3)
	}
	if last.Version != m.Document().Version() {
		t.Fatalf("version: got %d, want %d", last.Version, m.Document().Version())
	}
}

func TestScreenToDoc_BlankRowSnapsToBlockAbove(t *testing.T) {
	m := newModel(t, Config{})
	p, ok := m.ScreenToDoc(3, 1)
	if !ok {
		t.Fatalf("ScreenToDoc: not ok")
	}
	if p.Node.Text() != "Title" || p.Offset != 5 {
		t.Fatalf("got %q@%d, want end of title", p.Node.Text(), p.Offset)
	}

	x, y, ok := m.DocToScreen(findPos(t, m.Document(), "world"))
	if !ok || x != 6 || y != 2 {
		t.Fatalf("DocToScreen: got (%d,%d,%v), want (6,2,true)", x, y, ok)
	}
}

func TestLayout_WrapsAtCellWidth(t *testing.T) {
	d := newDoc(t, "T", "<p>ab界cd</p>")
	l := buildLayout(d, 5)
	// Width 5 leaves 4 content cells: "ab界" fills them, "cd" wraps.
	if len(l.lines) != 4 {
		t.Fatalf("lines: got %d, want %d", len(l.lines), 4)
	}
	p := findPos(t, d, "ab")
	row, col, ok := l.locate(doc.Pos{Node: p.Node, Offset: 3})
	if !ok || row != 3 || col != 0 {
		t.Fatalf("locate wrap boundary: got (%d,%d,%v), want (3,0,true)", row, col, ok)
	}
	row, col, _ = l.locate(doc.Pos{Node: p.Node, Offset: 2})
	if row != 2 || col != 2 {
		t.Fatalf("locate wide rune: got (%d,%d), want (2,2)", row, col)
	}
	if q, _ := l.hit(2, 3); q.Offset != 2 {
		t.Fatalf("hit inside wide rune: got offset %d, want 2", q.Offset)
	}
}
