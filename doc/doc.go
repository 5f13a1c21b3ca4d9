// Package doc implements the live rich-text document used by the editor.
//
// A Document is a tree of Nodes: a root holding a header (the title, plain
// text) and an article (the body, made of paragraph and blockquote blocks that
// contain text, bold, italic, link and break nodes).
//
// Positions always point into text nodes. Offsets are 0-based and counted in
// runes. Ranges are normalized to document order: Start <= End.
package doc
