package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simp-lee/epub"

	"github.com/gaurav-prasanna/booksplit/core"
)

// ReadMetadata returns the descriptive metadata of an EPUB file.
// Other formats yield empty metadata and no error.
func ReadMetadata(path string) (core.BookMetadata, error) {
	if !strings.EqualFold(filepath.Ext(path), ".epub") {
		return core.BookMetadata{}, nil
	}

	book, err := epub.Open(path)
	if err != nil {
		return core.BookMetadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	defer book.Close()

	md := book.Metadata()
	meta := core.BookMetadata{Publisher: md.Publisher}
	if len(md.Titles) > 0 {
		meta.Title = md.Titles[0]
	}
	if len(md.Language) > 0 {
		meta.Language = md.Language[0]
	}
	for _, a := range md.Authors {
		if a.Name != "" {
			meta.Authors = append(meta.Authors, a.Name)
		}
	}
	return meta, nil
}
