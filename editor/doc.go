// Package editor provides a Bubble Tea rich-text editor component backed by
// the doc package.
//
// The package keeps a floating formatting toolbar in sync with the document
// selection: it observes key, mouse and composition input, decides when the
// toolbar is shown, faded or hidden, dispatches formatting commands and runs
// the two-phase link entry flow. Rendering is grapheme-aware and the toolbar
// is composited over the document view.
package editor
