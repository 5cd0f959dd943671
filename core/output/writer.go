// Package output handles file naming and writing for booksplit artifacts.
// Chunk files are named "<NNN>_<title>.<ext>" where NNN is the zero-padded
// global chunk number and title is truncated to MaxTitleLen characters.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/booksplit/core"
)

// MaxTitleLen is the maximum number of title characters kept in a file name.
const MaxTitleLen = 50

// Writer writes rendered artifacts to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// FileName returns the artifact name for a chunk, e.g. "007_Chapter_Two_part_1.md".
func FileName(c core.Chunk, ext string) string {
	return fmt.Sprintf("%03d_%s%s", c.Number, truncate(sanitize(c.Title), MaxTitleLen), ext)
}

// WriteChunk renders a chunk and writes it under its artifact name.
// Existing files with the same name are overwritten; other files in the
// directory are left alone.
func (w *Writer) WriteChunk(c core.Chunk, r core.Renderer, meta core.BookMetadata) (string, error) {
	data, err := r.Render(c, meta)
	if err != nil {
		return "", fmt.Errorf("rendering chunk %d: %w", c.Number, err)
	}
	return w.WriteFile(FileName(c, r.Extension()), data)
}

// WriteFile writes data to name inside the output directory.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	path := filepath.Join(w.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// sanitize replaces characters that are unsafe in file names with underscores.
// Letters and digits of any script are kept.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if unicode.IsLetter(ch) || unicode.IsNumber(ch) || unicode.IsMark(ch) || ch == '_' || ch == '-' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
