package doc

import "fmt"

// Command is a document mutation applied to the current selection.
//
// The set of commands is closed: ToggleInline, SetBlockFormat, Unlink and
// CreateLink.
type Command interface {
	command()
	fmt.Stringer
}

// ToggleInline toggles bold or italic formatting over the selection.
type ToggleInline struct {
	Kind Kind
}

// SetBlockFormat re-tags every block touched by the selection.
type SetBlockFormat struct {
	Kind Kind
}

// Unlink removes links over the selection.
type Unlink struct{}

// CreateLink links the selection to Href, replacing existing links.
type CreateLink struct {
	Href string
}

func (ToggleInline) command()   {}
func (SetBlockFormat) command() {}
func (Unlink) command()         {}
func (CreateLink) command()     {}

func (c ToggleInline) String() string   { return "toggleInline(" + c.Kind.String() + ")" }
func (c SetBlockFormat) String() string { return "setBlockFormat(" + c.Kind.String() + ")" }
func (Unlink) String() string           { return "unlink" }
func (c CreateLink) String() string     { return "createLink(" + c.Href + ")" }

// Apply runs cmd against the current selection.
//
// Inline and link commands on a collapsed selection are no-ops.
func (d *Document) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case ToggleInline:
		if c.Kind != KindBold && c.Kind != KindItalic {
			return fmt.Errorf("doc: %s: not an inline kind", c)
		}
		d.toggleInline(c.Kind)
	case SetBlockFormat:
		if !c.Kind.IsBlock() {
			return fmt.Errorf("doc: %s: not a block kind", c)
		}
		d.setBlockFormat(c.Kind)
	case Unlink:
		d.unlink()
	case CreateLink:
		if c.Href == "" {
			return fmt.Errorf("doc: %s: empty href", c)
		}
		d.createLink(c.Href)
	default:
		return fmt.Errorf("doc: unknown command %T", cmd)
	}
	return nil
}
