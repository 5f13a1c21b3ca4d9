package editor

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/toolbar"
)

// SelectionProvider reads and restores the live selection.
type SelectionProvider interface {
	Current() doc.Snapshot
	SetRange(r doc.Range) error
}

// Mutator applies formatting commands to the live selection.
type Mutator interface {
	Apply(cmd doc.Command) error
}

// Rect is a cell rectangle relative to the top-left of the visible viewport.
// Right and Bottom are exclusive.
type Rect struct {
	Top, Left, Right, Bottom int
}

// Geometry answers layout queries for toolbar placement.
type Geometry interface {
	// RangeRect returns the bounding rectangle of r. ok is false when r
	// cannot be located.
	RangeRect(r doc.Range) (rect Rect, ok bool)
	ScrollOffset() (x, y int)
}

// EventKind is the kind of input signal fed to the observer.
type EventKind uint8

const (
	EventKeyUp EventKind = iota
	EventMouseDown
	// EventMouseUp must be delivered once the selection has settled, after
	// the settle delay.
	EventMouseUp
)

func (k EventKind) String() string {
	switch k {
	case EventKeyUp:
		return "keyup"
	case EventMouseDown:
		return "mousedown"
	case EventMouseUp:
		return "mouseup"
	}
	return "unknown"
}

// Target is what an input event was aimed at.
type Target uint8

const (
	TargetDocument Target = iota
	// TargetToolbar is any toolbar control other than the URL input.
	TargetToolbar
	TargetURLInput
)

type InputEvent struct {
	Kind   EventKind
	Target Target
}

// Action is a toolbar button.
type Action uint8

const (
	ActionBold Action = iota
	ActionItalic
	ActionQuote
	ActionLink
)

func (a Action) String() string {
	switch a {
	case ActionBold:
		return "bold"
	case ActionItalic:
		return "italic"
	case ActionQuote:
		return "quote"
	case ActionLink:
		return "link"
	}
	return "unknown"
}

// LinkGeneration identifies one URL input session.
type LinkGeneration uint64

// Effect lists the deferred work an Engine call scheduled. Zero fields mean
// nothing was scheduled.
type Effect struct {
	// Fade must be passed to ConfirmBlur after the fade delay.
	Fade toolbar.Generation
	// Prefill must be passed to Prefill after the prefill delay.
	Prefill LinkGeneration
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	ToolbarOffset   int
	PlaceholderHref string
	Logger          *zap.Logger
}

// Engine keeps the toolbar in sync with the selection. It owns the toolbar
// state, the observer's memory of the last collapsed state, the composition
// flag and the pending link selection.
//
// Engine is not safe for concurrent use; all calls must come from the event
// loop.
type Engine struct {
	sel  SelectionProvider
	mut  Mutator
	geo  Geometry
	opts EngineOptions
	log  *zap.Logger

	tb            toolbar.State
	lastCollapsed bool
	composing     bool

	link linkSession
}

type linkSession struct {
	open        bool
	gen         LinkGeneration
	pending     doc.Range
	placeholder bool
}

func NewEngine(sel SelectionProvider, mut Mutator, geo Geometry, opts EngineOptions) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.PlaceholderHref == "" {
		opts.PlaceholderHref = DefaultPlaceholderHref
	}
	return &Engine{
		sel:  sel,
		mut:  mut,
		geo:  geo,
		opts: opts,
		log:  log,
		tb:   toolbar.New(),
		// Nothing was selected before the first event.
		lastCollapsed: true,
	}
}

// Toolbar returns a copy of the toolbar state.
func (e *Engine) Toolbar() toolbar.State { return e.tb }

// Composing reports whether an IME composition is in progress.
func (e *Engine) Composing() bool { return e.composing }

func (e *Engine) CompositionStart() { e.composing = true }

func (e *Engine) CompositionEnd() { e.composing = false }

// Pending returns the saved link selection while the URL input is open.
func (e *Engine) Pending() (doc.Range, bool) {
	return e.link.pending, e.link.open
}

// Observe handles one qualifying input signal.
func (e *Engine) Observe(ev InputEvent) Effect {
	snap := e.sel.Current()
	if ev.Target != TargetDocument {
		e.tb.Refresh(snap.Class.Kinds)
		return Effect{}
	}

	var eff Effect
	if snap.Collapsed && !e.lastCollapsed {
		eff.Fade = e.tb.RequestBlur()
		e.log.Debug("toolbar fading", zap.Stringer("event", ev.Kind), zap.Uint64("gen", uint64(eff.Fade)))
	}
	if !snap.Collapsed && !e.composing && snap.Class.Kinds.Has(doc.KindArticle) {
		pos, ok := e.position(snap.Range())
		if !ok {
			pos = e.tb.Position
		}
		e.tb.Activate(pos, snap.Class.Kinds)
		e.log.Debug("toolbar active",
			zap.Stringer("event", ev.Kind),
			zap.Int("top", pos.Top),
			zap.Int("left", pos.Left),
			zap.Stringer("kinds", snap.Class.Kinds))
	}
	e.lastCollapsed = snap.Collapsed
	return eff
}

// ConfirmBlur finalizes the fade identified by g. It reports whether the
// toolbar was hidden.
func (e *Engine) ConfirmBlur(g toolbar.Generation) bool {
	hidden := e.tb.ConfirmBlur(g)
	if hidden {
		e.log.Debug("toolbar hidden", zap.Uint64("gen", uint64(g)))
	} else {
		e.log.Debug("fade superseded", zap.Uint64("gen", uint64(g)))
	}
	return hidden
}

// Reposition recomputes the position of an active toolbar after a resize or
// scroll. Button state is left alone.
func (e *Engine) Reposition() bool {
	if e.tb.Visibility != toolbar.Active {
		return false
	}
	pos, ok := e.position(e.sel.Current().Range())
	if !ok {
		return false
	}
	return e.tb.Reposition(pos)
}

func (e *Engine) position(r doc.Range) (toolbar.Position, bool) {
	if r.Start.IsZero() || e.geo == nil {
		return toolbar.Position{}, false
	}
	rect, ok := e.geo.RangeRect(r)
	if !ok {
		return toolbar.Position{}, false
	}
	_, sy := e.geo.ScrollOffset()
	return toolbar.Position{
		Top:  rect.Top - e.opts.ToolbarOffset + sy,
		Left: (rect.Left + rect.Right) / 2,
	}, true
}

// Dispatch runs a toolbar action against the live selection.
func (e *Engine) Dispatch(a Action) Effect {
	switch a {
	case ActionBold:
		e.apply(doc.ToggleInline{Kind: doc.KindBold})
	case ActionItalic:
		e.apply(doc.ToggleInline{Kind: doc.KindItalic})
	case ActionQuote:
		if e.sel.Current().Class.Kinds.Has(doc.KindBlockquote) {
			e.apply(doc.SetBlockFormat{Kind: doc.KindParagraph})
		} else {
			e.apply(doc.SetBlockFormat{Kind: doc.KindBlockquote})
		}
	case ActionLink:
		return e.toggleLink()
	default:
		return Effect{}
	}
	e.tb.Refresh(e.sel.Current().Class.Kinds)
	e.Reposition()
	return Effect{}
}

func (e *Engine) apply(cmd doc.Command) bool {
	if err := e.mut.Apply(cmd); err != nil {
		e.log.Warn("command failed", zap.Stringer("command", cmd), zap.Error(err))
		return false
	}
	e.log.Debug("command applied", zap.Stringer("command", cmd))
	return true
}

func (e *Engine) toggleLink() Effect {
	if e.tb.Mode == toolbar.URLInput {
		e.cancelLink()
		return Effect{}
	}
	if !e.tb.EnterURLMode() {
		return Effect{}
	}
	e.link = linkSession{
		open:    true,
		gen:     e.link.gen + 1,
		pending: e.sel.Current().Range(),
	}
	e.log.Debug("url input opened", zap.Uint64("gen", uint64(e.link.gen)))
	return Effect{Prefill: e.link.gen}
}

// Prefill runs the deferred half of opening the URL input. When the focus is
// inside a link it returns that link's href; otherwise it wraps the selection
// in a placeholder link so the range survives while the input has focus.
// ok is false when the session identified by g is no longer open.
func (e *Engine) Prefill(g LinkGeneration) (href string, ok bool) {
	if !e.link.open || g != e.link.gen {
		return "", false
	}
	snap := e.sel.Current()
	if snap.Class.HasLink {
		href = snap.Class.Href
	} else if !snap.Collapsed {
		e.link.placeholder = e.apply(doc.CreateLink{Href: e.opts.PlaceholderHref})
	}
	e.link.pending = e.sel.Current().Range()
	e.lastCollapsed = false
	return href, true
}

// CommitURL applies text as the link target of the pending selection. An
// empty text removes the link. Only the first commit of a session has an
// effect; it reports whether this call committed.
func (e *Engine) CommitURL(text string) bool {
	if !e.link.open {
		return false
	}
	pending := e.link.pending
	e.closeLink()

	if err := e.sel.SetRange(pending); err != nil {
		e.log.Warn("pending link selection lost", zap.Error(err))
	} else {
		e.apply(doc.Unlink{})
		if href := NormalizeHref(text); href != "" {
			e.apply(doc.CreateLink{Href: href})
		}
		e.log.Debug("link committed", zap.String("href", NormalizeHref(text)))
	}
	e.tb.Refresh(e.sel.Current().Class.Kinds)
	return true
}

// cancelLink leaves the URL input without committing. A placeholder link
// inserted for the session is removed again.
func (e *Engine) cancelLink() {
	pending, placeholder := e.link.pending, e.link.placeholder
	e.closeLink()
	if placeholder {
		if err := e.sel.SetRange(pending); err == nil {
			e.apply(doc.Unlink{})
		}
	}
	e.tb.Refresh(e.sel.Current().Class.Kinds)
	e.log.Debug("url input cancelled")
}

func (e *Engine) closeLink() {
	e.link = linkSession{gen: e.link.gen + 1}
	e.tb.ExitURLMode()
}

var schemeRE = regexp.MustCompile(`^(http|https)://`)

// NormalizeHref trims s and prefixes http:// unless it already starts with
// http:// or https://. An empty or blank s yields "".
func NormalizeHref(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !schemeRE.MatchString(s) {
		s = "http://" + s
	}
	return s
}
