// Package normalize implements the Normalizer interface.
// It strips the inline HTML that pandoc leaves behind when converting
// e-books (span, div and anchor wrappers) while keeping the text they enclose
// and every other byte of the document untouched.
package normalize

import "regexp"

// markupPattern matches a single leftover tag. Only the tag delimiters are
// matched; enclosed text is never part of a match.
var markupPattern = regexp.MustCompile(`(?i)` +
	`</?span\b[^>]*>` +
	`|</?div\b[^>]*>` +
	`|<a\s+href="[^"]*"[^>]*>` +
	`|</a\s*>`)

// MarkupStripper removes span, div and link markup from Markdown text.
type MarkupStripper struct{}

// New creates a MarkupStripper.
func New() *MarkupStripper {
	return &MarkupStripper{}
}

// Normalize removes the markup and returns the remaining text.
// Removal repeats until nothing matches, so tags that only appear once an
// inner tag is gone (e.g. "<<span>span>") are removed too and a second call
// never changes the result.
func (n *MarkupStripper) Normalize(text string) string {
	for {
		out := markupPattern.ReplaceAllString(text, "")
		if out == text {
			return out
		}
		text = out
	}
}

// Passthrough returns text unchanged. It is used when cleaning is disabled.
type Passthrough struct{}

// Normalize returns text as-is.
func (Passthrough) Normalize(text string) string {
	return text
}
