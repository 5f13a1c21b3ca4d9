// Package toolbar holds the floating formatting toolbar state and its
// transitions.
//
// The toolbar cycles Hidden -> Active -> FadingOut -> Hidden. A fade started by
// RequestBlur is only finalized by ConfirmBlur when no activation happened in
// between; supersession is tracked with a generation counter instead of timer
// cancellation.
package toolbar

import "github.com/iw2rmb/scribe/doc"

// Visibility is the display state of the toolbar.
type Visibility uint8

const (
	Hidden Visibility = iota
	FadingOut
	Active
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case FadingOut:
		return "fading"
	case Active:
		return "active"
	}
	return "unknown"
}

// Mode selects what the toolbar shows: formatting buttons or the URL input.
type Mode uint8

const (
	Normal Mode = iota
	URLInput
)

func (m Mode) String() string {
	if m == URLInput {
		return "url"
	}
	return "normal"
}

// Position is the toolbar anchor in document coordinates: Top is the row the
// toolbar sits on and Left is the column it is centered on.
type Position struct {
	Top  int
	Left int
}

// Offscreen is the position of a hidden toolbar.
var Offscreen = Position{Top: -999, Left: -999}

// Buttons holds the active flag of each tracked button.
type Buttons struct {
	Bold   bool
	Italic bool
	Quote  bool
	Link   bool
}

// ButtonsFor maps an ancestor-kind set to button flags.
func ButtonsFor(kinds doc.KindSet) Buttons {
	return Buttons{
		Bold:   kinds.Has(doc.KindBold),
		Italic: kinds.Has(doc.KindItalic),
		Quote:  kinds.Has(doc.KindBlockquote),
		Link:   kinds.Has(doc.KindLink),
	}
}

// Generation identifies a pending blur confirmation.
type Generation uint64

// State is the toolbar's visual state. The zero value is a hidden toolbar at
// position zero; use New for an off-screen hidden toolbar.
type State struct {
	Visibility Visibility
	Position   Position
	Buttons    Buttons
	Mode       Mode

	gen Generation
}

func New() State {
	return State{Visibility: Hidden, Position: Offscreen}
}

// Activate shows the toolbar at pos with buttons derived from kinds. Any
// pending blur confirmation is superseded.
func (s *State) Activate(pos Position, kinds doc.KindSet) {
	s.Visibility = Active
	s.Position = pos
	s.Buttons = ButtonsFor(kinds)
	s.gen++
}

// Refresh updates button flags without touching visibility or position.
func (s *State) Refresh(kinds doc.KindSet) {
	s.Buttons = ButtonsFor(kinds)
}

// Reposition moves an active toolbar. It reports false and does nothing when
// the toolbar is not active.
func (s *State) Reposition(pos Position) bool {
	if s.Visibility != Active {
		return false
	}
	s.Position = pos
	return true
}

// RequestBlur starts fading the toolbar out and returns the generation the
// caller must pass to ConfirmBlur once the fade delay has elapsed.
func (s *State) RequestBlur() Generation {
	s.Visibility = FadingOut
	s.gen++
	return s.gen
}

// ConfirmBlur hides the toolbar if the fade identified by g is still the
// latest transition. It reports whether the toolbar was hidden.
func (s *State) ConfirmBlur(g Generation) bool {
	if g != s.gen || s.Visibility != FadingOut {
		return false
	}
	s.Visibility = Hidden
	s.Position = Offscreen
	return true
}

// EnterURLMode switches an active toolbar to the URL input. It reports false
// when the toolbar is not active or already in URL mode.
func (s *State) EnterURLMode() bool {
	if s.Visibility != Active || s.Mode == URLInput {
		return false
	}
	s.Mode = URLInput
	return true
}

// ExitURLMode returns to the formatting buttons.
func (s *State) ExitURLMode() {
	s.Mode = Normal
}

// Generation returns the current transition generation.
func (s State) Generation() Generation { return s.gen }
