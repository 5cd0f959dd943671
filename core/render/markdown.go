// Package render provides the artifact renderers for booksplit.
// This file implements the Markdown renderer, which writes chunk lines
// verbatim and produces the primary chunk artifact.
package render

import (
	"github.com/gaurav-prasanna/booksplit/core"
)

// MarkdownRenderer writes chunk lines as-is. No re-encoding happens and
// line terminators are preserved.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the chunk text as bytes (passthrough).
func (r *MarkdownRenderer) Render(chunk core.Chunk, meta core.BookMetadata) ([]byte, error) {
	return []byte(chunk.Text()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
