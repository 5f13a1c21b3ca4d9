// Package grapheme splits text into user-perceived characters and measures
// their terminal cell width.
package grapheme

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cluster is one grapheme cluster.
type Cluster struct {
	Text  string
	Runes int
	Width int
}

// Clusters returns the grapheme clusters of text in visual order.
func Clusters(text string) []Cluster {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]Cluster, 0, utf8.RuneCountInString(text))
	for g.Next() {
		s := g.Str()
		out = append(out, Cluster{
			Text:  s,
			Runes: len(g.Runes()),
			Width: Width(s),
		})
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n++
	}
	return n
}

// Width returns the cell width of a single cluster. Zero-width clusters
// (controls, lone combining marks) occupy one cell so they stay addressable.
func Width(cluster string) int {
	if cluster == "\t" {
		return 1
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w <= 0 {
		w = 1
	}
	return w
}

// StringWidth returns the total cell width of text.
func StringWidth(text string) int {
	w := 0
	for _, c := range Clusters(text) {
		w += c.Width
	}
	return w
}
