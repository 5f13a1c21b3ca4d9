package editor

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/iw2rmb/scribe/doc"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

// viewLines returns the rendered lines without styling or trailing padding.
func viewLines(m Model) []string {
	lines := strings.Split(stripANSI(m.View()), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) < len(want) {
		t.Fatalf("line count: got %d, want at least %d\n%q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func eachNode(n *doc.Node, fn func(*doc.Node)) {
	fn(n)
	for i := 0; i < n.ChildCount(); i++ {
		eachNode(n.Child(i), fn)
	}
}

// findPos returns the position of the first occurrence of s inside a single
// text node.
func findPos(t *testing.T, d *doc.Document, s string) doc.Pos {
	t.Helper()
	var out doc.Pos
	eachNode(d.Root(), func(n *doc.Node) {
		if out.Node != nil || n.Kind() != doc.KindText {
			return
		}
		if i := strings.Index(n.Text(), s); i >= 0 {
			out = doc.Pos{Node: n, Offset: utf8.RuneCountInString(n.Text()[:i])}
		}
	})
	if out.Node == nil {
		t.Fatalf("text %q not found", s)
	}
	return out
}

func selectText(t *testing.T, d *doc.Document, s string) {
	t.Helper()
	p := findPos(t, d, s)
	end := doc.Pos{Node: p.Node, Offset: p.Offset + utf8.RuneCountInString(s)}
	if err := d.SetRange(doc.Range{Start: p, End: end}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
}

func newDoc(t *testing.T, title, body string) *doc.Document {
	t.Helper()
	d := doc.New()
	d.SetTitle(title)
	if err := d.SetBodyHTML(body); err != nil {
		t.Fatalf("SetBodyHTML: %v", err)
	}
	return d
}
