package editor

import (
	"github.com/iw2rmb/scribe/doc"
	"github.com/iw2rmb/scribe/toolbar"
)

// ChangeEvent describes the editor after an update that changed the
// document, the selection or the toolbar.
type ChangeEvent struct {
	Version   uint64
	Selection struct {
		Range  doc.Range
		Active bool
	}
	Toolbar   toolbar.State
	Composing bool
	WordCount int
}

func buildChangeEvent(d *doc.Document, e *Engine) ChangeEvent {
	ev := ChangeEvent{
		Version:   d.Version(),
		Toolbar:   e.Toolbar(),
		Composing: e.Composing(),
		WordCount: d.WordCount(),
	}
	if r, ok := d.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	return ev
}
