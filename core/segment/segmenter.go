// Package segment partitions a Markdown document into chapter sections.
// Headings are recognised by their line prefix only: "#" or "##" start a new
// section, "###" to "#####" are sub-headings that the chunk splitter may
// break on.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/booksplit/core"
)

var (
	chapterPattern    = regexp.MustCompile(`^(#{1,2})\s+(.+)$`)
	subHeadingPattern = regexp.MustCompile(`^(#{3,5})\s+(.+)$`)
)

// SplitLines splits text into lines, each keeping its "\n" terminator.
// A final line without a terminator is kept as-is. Empty text yields nil.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ChapterHeading reports whether line is a level 1 or 2 heading with
// non-empty text, and returns that text.
func ChapterHeading(line string) (string, bool) {
	m := chapterPattern.FindStringSubmatch(trimEOL(line))
	if m == nil {
		return "", false
	}
	return m[2], true
}

// IsSubHeading reports whether line is a level 3 to 5 heading.
func IsSubHeading(line string) bool {
	return subHeadingPattern.MatchString(trimEOL(line))
}

// HeadingLevel returns the level (1-5) of a recognised heading line, or 0.
func HeadingLevel(line string) int {
	l := trimEOL(line)
	if m := chapterPattern.FindStringSubmatch(l); m != nil {
		return len(m[1])
	}
	if m := subHeadingPattern.FindStringSubmatch(l); m != nil {
		return len(m[1])
	}
	return 0
}

// Slugify turns heading text into a filesystem-safe title. Case is kept;
// anything but letters, digits, underscores, whitespace and hyphens is
// dropped, and each run of whitespace or hyphens becomes one underscore.
// The result may be empty.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range text {
		if isWordRune(r) || unicode.IsSpace(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	return strings.Join(parts, "_")
}

// Title derives a section title from heading text, falling back to
// core.FallbackTitle when the slug is empty.
func Title(text string) string {
	if slug := Slugify(strings.TrimSpace(text)); slug != "" {
		return slug
	}
	return core.FallbackTitle
}

// Segment partitions lines into sections at chapter headings. Content before
// the first heading goes to a section titled core.DefaultSectionTitle; a
// document without headings yields exactly one section. Each heading line
// opens the section it introduces.
func Segment(lines []string) []core.Section {
	var (
		sections []core.Section
		current  []string
		title    = core.DefaultSectionTitle
		start    = 1
	)

	for i, line := range lines {
		text, ok := ChapterHeading(line)
		if !ok {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			sections = append(sections, core.Section{Title: title, Lines: current, StartLine: start})
		}
		title = Title(text)
		current = []string{line}
		start = i + 1
	}

	if len(current) > 0 {
		sections = append(sections, core.Section{Title: title, Lines: current, StartLine: start})
	}
	return sections
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}
