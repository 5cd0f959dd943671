// Package render: JSON manifest.
// Builds a manifest.json describing every chunk of a run: its file name,
// title, owning section, part number, source line range, and the headings
// it contains. Headings are found by line prefix, the same way the
// segmenter finds them.
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gaurav-prasanna/booksplit/core"
	"github.com/gaurav-prasanna/booksplit/core/segment"
)

// ManifestName is the file name of the run manifest.
const ManifestName = "manifest.json"

// Heading is a heading line found inside a chunk.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

// ManifestEntry describes one written chunk.
type ManifestEntry struct {
	Number    int       `json:"number"`
	File      string    `json:"file"`
	Title     string    `json:"title"`
	Section   string    `json:"section"`
	Part      int       `json:"part,omitempty"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Lines     int       `json:"lines"`
	Headings  []Heading `json:"headings,omitempty"`
}

// Manifest is the complete JSON output for a run.
type Manifest struct {
	RunID     string            `json:"run_id"`
	Source    string            `json:"source"`
	OutputDir string            `json:"output_dir"`
	FullText  string            `json:"full_text"`
	CreatedAt string            `json:"created_at"` // RFC3339
	MinLines  int               `json:"min_lines"`
	MaxLines  int               `json:"max_lines"`
	Cleaned   bool              `json:"cleaned"`
	Book      core.BookMetadata `json:"book"`
	Sections  int               `json:"sections"`
	Chunks    []ManifestEntry   `json:"chunks"`
}

// NewManifest creates a manifest with the run-level fields set.
func NewManifest(runID, source, outputDir string, meta core.BookMetadata) *Manifest {
	return &Manifest{
		RunID:     runID,
		Source:    source,
		OutputDir: outputDir,
		FullText:  core.FullTextName,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Book:      meta,
		Chunks:    []ManifestEntry{},
	}
}

// Add records a written chunk.
func (m *Manifest) Add(c core.Chunk, file string) {
	m.Chunks = append(m.Chunks, ManifestEntry{
		Number:    c.Number,
		File:      file,
		Title:     c.Title,
		Section:   c.Section,
		Part:      c.Part,
		StartLine: c.StartLine,
		EndLine:   c.EndLine(),
		Lines:     len(c.Lines),
		Headings:  extractHeadings(c),
	})
}

// Render marshals the manifest as indented JSON.
func (m *Manifest) Render() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append(data, '\n'), nil
}

func extractHeadings(c core.Chunk) []Heading {
	var headings []Heading
	for i, line := range c.Lines {
		level := segment.HeadingLevel(line)
		if level == 0 {
			continue
		}
		text := strings.TrimSpace(strings.TrimLeft(strings.TrimRight(line, "\r\n"), "#"))
		headings = append(headings, Heading{
			Level: level,
			Text:  text,
			Line:  c.StartLine + i,
		})
	}
	return headings
}
