package doc

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func mustDoc(t *testing.T, title, body string) *Document {
	t.Helper()
	d := New()
	d.SetTitle(title)
	if err := d.SetBodyHTML(body); err != nil {
		t.Fatalf("SetBodyHTML: %v", err)
	}
	return d
}

// findText returns the position of the first occurrence of s inside a single
// text node.
func findText(t *testing.T, d *Document, s string) Pos {
	t.Helper()
	var out Pos
	walk(d.Root(), func(n *Node) {
		if out.Node != nil || n.Kind() != KindText {
			return
		}
		if i := strings.Index(n.Text(), s); i >= 0 {
			out = Pos{Node: n, Offset: utf8.RuneCountInString(n.Text()[:i])}
		}
	})
	if out.Node == nil {
		t.Fatalf("text %q not found", s)
	}
	return out
}

func selectText(t *testing.T, d *Document, s string) {
	t.Helper()
	p := findText(t, d, s)
	end := Pos{Node: p.Node, Offset: p.Offset + utf8.RuneCountInString(s)}
	if err := d.SetRange(Range{Start: p, End: end}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
}
