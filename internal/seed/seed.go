// Package seed holds the content a new document starts with.
package seed

const Title = "Untitled story"

// BodyHTML is a short tour of the editor. It only uses markup the body
// sanitizer keeps.
const BodyHTML = `<p>Select some text to bring up the <b>formatting toolbar</b>.</p>` +
	`<p>Use it to make words <b>bold</b> or <i>italic</i>, to ` +
	`<a href="https://github.com/charmbracelet/bubbletea">link</a> them, or to quote a whole paragraph.</p>` +
	`<blockquote>Quoted paragraphs are drawn with a bar on the left.</blockquote>` +
	`<p>Everything you type is saved as you go.</p>`
