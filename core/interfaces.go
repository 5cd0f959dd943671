// Package core defines the pipeline types and stage interfaces for booksplit.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"strings"
)

// DefaultSectionTitle names the front matter that precedes the first heading.
const DefaultSectionTitle = "00_Intro"

// FallbackTitle replaces a heading whose slug comes out empty.
const FallbackTitle = "Chapter"

// FullTextName is the intermediate artifact the converter produces.
const FullTextName = "full_content.md"

// BookMetadata holds descriptive fields read from the source e-book.
// All fields are optional; converters that cannot read them leave them empty.
type BookMetadata struct {
	Title     string   `json:"title,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	Language  string   `json:"language,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
}

// Section is a heading-delimited run of document lines.
// Lines keep their terminators; the first line is the heading that opened
// the section, except for the front-matter section.
type Section struct {
	Title     string
	Lines     []string
	StartLine int // 1-based position of Lines[0] in the document
}

// Chunk is a size-bounded slice of exactly one Section.
type Chunk struct {
	Number    int    // global, 1-based, monotonic across the run
	Title     string // section title, plus "_part_<n>" when the section was split
	Section   string // title of the owning section
	Part      int    // 0 when the section was emitted whole
	StartLine int    // 1-based position of Lines[0] in the document
	Lines     []string
}

// EndLine returns the 1-based document position of the chunk's last line.
func (c Chunk) EndLine() int {
	return c.StartLine + len(c.Lines) - 1
}

// Text joins the chunk lines verbatim.
func (c Chunk) Text() string {
	return strings.Join(c.Lines, "")
}

// Converter turns a source e-book into line-oriented Markdown.
// Convert writes name inside dir and extracts media relative to dir.
type Converter interface {
	// Check reports whether the converter can run at all. It must not
	// touch the filesystem.
	Check() error
	Convert(ctx context.Context, src, dir, name string) error
}

// Normalizer strips markup from the converted text.
type Normalizer interface {
	Normalize(text string) string
}

// Renderer turns a chunk into a companion artifact.
type Renderer interface {
	Render(chunk Chunk, meta BookMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
