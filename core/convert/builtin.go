package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/simp-lee/epub"
	"github.com/sirupsen/logrus"
)

// noiseSelectors are elements removed from chapter bodies before conversion.
// They contribute no readable text.
var noiseSelectors = []string{
	"script", "style", "noscript", "nav",
}

// Builtin converts EPUB files without external tools. Chapters are read in
// spine order (Project Gutenberg licence pages are skipped), cleaned with
// goquery and converted to Markdown with html-to-markdown.
type Builtin struct {
	log logrus.FieldLogger
}

// NewBuiltin creates a Builtin converter.
func NewBuiltin(log logrus.FieldLogger) *Builtin {
	return &Builtin{log: log}
}

// Check always succeeds; Builtin has no external requirements.
func (b *Builtin) Check() error {
	return nil
}

// Convert writes the book's Markdown to name inside dir and copies every
// referenced image to the same relative path under dir.
func (b *Builtin) Convert(ctx context.Context, src, dir, name string) error {
	book, err := epub.Open(src)
	if err != nil {
		return fmt.Errorf("opening epub: %w", err)
	}
	defer book.Close()

	for _, w := range book.Warnings() {
		b.log.WithField("warning", w).Warn("epub structure warning")
	}

	var parts []string
	for _, ch := range book.ContentChapters() {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := ch.BodyHTML()
		if err != nil {
			return fmt.Errorf("reading chapter %s: %w", ch.Href, err)
		}

		cleaned, images, err := prepareHTML(body)
		if err != nil {
			return fmt.Errorf("cleaning chapter %s: %w", ch.Href, err)
		}
		for _, img := range images {
			if err := extractMedia(book, dir, img); err != nil {
				b.log.WithError(err).WithField("image", img).Warn("skipping image")
			}
		}

		md, err := htmltomarkdown.ConvertString(cleaned)
		if err != nil {
			return fmt.Errorf("converting chapter %s to markdown: %w", ch.Href, err)
		}
		if md = strings.TrimSpace(md); md != "" {
			parts = append(parts, md)
		}
		b.log.WithFields(logrus.Fields{"chapter": ch.Href, "title": ch.Title}).Debug("converted chapter")
	}

	text := strings.Join(parts, "\n\n")
	if text != "" {
		text += "\n"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// prepareHTML removes noise elements from a chapter body and returns the
// cleaned fragment together with the archive paths of its images.
func prepareHTML(body string) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var images []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && isArchivePath(src) {
			images = append(images, src)
		}
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("serializing content: %w", err)
	}
	return html, images, nil
}

// extractMedia copies an archive file to the same relative path under dir.
func extractMedia(book *epub.Book, dir, name string) error {
	data, err := book.ReadFile(name)
	if err != nil {
		return err
	}
	dst := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	return os.WriteFile(dst, data, 0644)
}

// isArchivePath reports whether src is a local path that stays inside the
// output directory once joined to it.
func isArchivePath(src string) bool {
	if src == "" || strings.Contains(src, ":") {
		return false
	}
	return filepath.IsLocal(filepath.FromSlash(src))
}
