// Package chunk splits chapter sections into size-bounded chunks.
// A section longer than MinLines is cut at the first blank line or
// sub-heading once the running chunk holds MinLines lines, and cut
// unconditionally when it reaches MaxLines.
package chunk

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/booksplit/core"
	"github.com/gaurav-prasanna/booksplit/core/segment"
)

// Default line limits.
const (
	DefaultMinLines = 200
	DefaultMaxLines = 300
)

// breakKind is the outcome of inspecting the line just appended to a chunk.
type breakKind int

const (
	noBreak breakKind = iota
	// ordinaryBreak ends the chunk after the current line.
	ordinaryBreak
	// promoteHeading ends the chunk before the current line, which is a
	// sub-heading, and starts the next chunk with it.
	promoteHeading
)

// Splitter splits sections into chunks. It owns the run-wide chunk counter,
// so a single Splitter must be used for all sections of one document.
type Splitter struct {
	MinLines int
	MaxLines int

	next int // number of the next chunk, starting at 1
}

// New creates a Splitter. Both limits must be positive and min <= max.
func New(minLines, maxLines int) (*Splitter, error) {
	if minLines < 1 || maxLines < minLines {
		return nil, fmt.Errorf("%w: min_lines=%d max_lines=%d (need 1 <= min <= max)",
			core.ErrInvalidLimits, minLines, maxLines)
	}
	return &Splitter{MinLines: minLines, MaxLines: maxLines, next: 1}, nil
}

// SplitAll splits every section in order. Chunk numbers continue from any
// earlier call on the same Splitter.
func (s *Splitter) SplitAll(sections []core.Section) []core.Chunk {
	var chunks []core.Chunk
	for _, sec := range sections {
		chunks = append(chunks, s.Split(sec)...)
	}
	return chunks
}

// Split splits one section. A section of at most MinLines lines becomes a
// single chunk titled after the section. Otherwise chunks are titled
// "<section>_part_<n>" with n restarting at 1; a trailing remainder made
// only of whitespace lines is dropped.
func (s *Splitter) Split(sec core.Section) []core.Chunk {
	if len(sec.Lines) <= s.MinLines {
		return []core.Chunk{s.emit(sec, 0, sec.StartLine, sec.Lines)}
	}

	var (
		chunks []core.Chunk
		buf    []string
		start  = sec.StartLine
		part   = 1
	)

	for i, line := range sec.Lines {
		buf = append(buf, line)

		switch s.decide(buf, line) {
		case noBreak:
			continue
		case promoteHeading:
			heading := buf[len(buf)-1]
			chunks = append(chunks, s.emit(sec, part, start, buf[:len(buf)-1]))
			buf = []string{heading}
			start = sec.StartLine + i
		case ordinaryBreak:
			chunks = append(chunks, s.emit(sec, part, start, buf))
			buf = nil
			start = sec.StartLine + i + 1
		}
		part++
	}

	if hasContent(buf) {
		chunks = append(chunks, s.emit(sec, part, start, buf))
	}
	return chunks
}

// decide inspects line, the last entry of buf. Nothing breaks below
// MinLines; reaching MaxLines always breaks after the line. In between, a
// blank line breaks after itself and a sub-heading is pushed to the next
// chunk, unless it is the only line buffered.
func (s *Splitter) decide(buf []string, line string) breakKind {
	n := len(buf)
	if n < s.MinLines {
		return noBreak
	}
	if n >= s.MaxLines {
		return ordinaryBreak
	}
	if isBlank(line) {
		return ordinaryBreak
	}
	if segment.IsSubHeading(line) {
		if n == 1 {
			return noBreak
		}
		return promoteHeading
	}
	return noBreak
}

func (s *Splitter) emit(sec core.Section, part, start int, lines []string) core.Chunk {
	title := sec.Title
	if part > 0 {
		title = fmt.Sprintf("%s_part_%d", sec.Title, part)
	}
	c := core.Chunk{
		Number:    s.next,
		Title:     title,
		Section:   sec.Title,
		Part:      part,
		StartLine: start,
		Lines:     append([]string(nil), lines...),
	}
	s.next++
	return c
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if !isBlank(l) {
			return true
		}
	}
	return false
}
