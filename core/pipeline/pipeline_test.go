package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/booksplit/core"
	"github.com/gaurav-prasanna/booksplit/core/render"
)

// fakeConverter writes a fixed text instead of running a real tool.
type fakeConverter struct {
	text     string
	checkErr error
	convErr  error
	calls    int
}

func (f *fakeConverter) Check() error { return f.checkErr }

func (f *fakeConverter) Convert(_ context.Context, _, dir, name string) error {
	f.calls++
	if f.convErr != nil {
		return f.convErr
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(f.text), 0644)
}

func defaultOptions() Options {
	return Options{MinLines: 200, MaxLines: 300, Clean: true}
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(path, []byte("not really an epub"), 0644))
	return path
}

func newPipeline(t *testing.T, conv core.Converter, opts Options) (*Pipeline, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	p, err := New(conv, opts, log)
	require.NoError(t, err)
	return p, hook
}

func body(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "text %d\n", i)
	}
	return b.String()
}

func readNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("books", "My Book"), OutputDir(filepath.Join("books", "My Book.epub"), ""))
	assert.Equal(t, "custom", OutputDir("books/x.epub", "custom"))
	assert.Equal(t, filepath.Join("books", "noext"), OutputDir(filepath.Join("books", "noext"), ""))
}

func TestNew_RejectsBadLimits(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := New(&fakeConverter{}, Options{MinLines: 50, MaxLines: 10}, log)
	assert.ErrorIs(t, err, core.ErrInvalidLimits)
}

func TestRun_SplitsIntoChunks(t *testing.T) {
	text := "Preface line\n" +
		"# Chapter One\n" + body(3) +
		"# Chapter: Two!\n" + body(2)
	conv := &fakeConverter{text: text}
	p, _ := newPipeline(t, conv, defaultOptions())
	input := writeInput(t)

	res, err := p.Run(context.Background(), input)
	require.NoError(t, err)

	wantDir := filepath.Join(filepath.Dir(input), "book")
	assert.Equal(t, wantDir, res.OutputDir)
	assert.Equal(t, 3, res.Sections)
	require.Len(t, res.Files, 3)
	assert.Equal(t, []string{
		filepath.Join(wantDir, "001_00_Intro.md"),
		filepath.Join(wantDir, "002_Chapter_One.md"),
		filepath.Join(wantDir, "003_Chapter_Two.md"),
	}, res.Files)
	assert.Empty(t, res.Companions)
	assert.NotEmpty(t, res.RunID)

	got, err := os.ReadFile(res.Files[1])
	require.NoError(t, err)
	assert.Equal(t, "# Chapter One\n"+body(3), string(got))

	assert.FileExists(t, filepath.Join(wantDir, core.FullTextName))
}

func TestRun_ConcatenationReproducesCleanedText(t *testing.T) {
	text := "# A\n" + body(450) + "## B\n" + body(10)
	p, _ := newPipeline(t, &fakeConverter{text: text}, defaultOptions())

	res, err := p.Run(context.Background(), writeInput(t))
	require.NoError(t, err)

	var joined strings.Builder
	for _, f := range res.Files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		joined.Write(data)
	}
	assert.Equal(t, text, joined.String())
	assert.Equal(t, "A_part_1", res.Chunks[0].Title)
	assert.Equal(t, "A_part_2", res.Chunks[1].Title)
	assert.Equal(t, "B", res.Chunks[2].Title)
}

func TestRun_MissingInputCreatesNothing(t *testing.T) {
	conv := &fakeConverter{text: "x\n"}
	p, _ := newPipeline(t, conv, defaultOptions())
	dir := t.TempDir()

	_, err := p.Run(context.Background(), filepath.Join(dir, "missing.epub"))
	assert.ErrorIs(t, err, core.ErrInputNotFound)
	assert.Empty(t, readNames(t, dir))
	assert.Zero(t, conv.calls)
}

func TestRun_DirectoryInputRejected(t *testing.T) {
	p, _ := newPipeline(t, &fakeConverter{}, defaultOptions())
	_, err := p.Run(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, core.ErrInputNotFound)
}

func TestRun_ConverterUnavailableCreatesNothing(t *testing.T) {
	conv := &fakeConverter{checkErr: fmt.Errorf("%w: pandoc", core.ErrConverterNotFound)}
	p, _ := newPipeline(t, conv, defaultOptions())
	input := writeInput(t)

	_, err := p.Run(context.Background(), input)
	assert.ErrorIs(t, err, core.ErrConverterNotFound)
	assert.NoDirExists(t, OutputDir(input, ""))
	assert.Zero(t, conv.calls)
}

func TestRun_ConverterFailureIsReported(t *testing.T) {
	boom := errors.New("pandoc exploded")
	p, _ := newPipeline(t, &fakeConverter{convErr: boom}, defaultOptions())

	_, err := p.Run(context.Background(), writeInput(t))
	assert.ErrorIs(t, err, boom)
}

func TestRun_CleanToggle(t *testing.T) {
	text := "# Title\n<span class=\"x\">kept words</span>\n"

	t.Run("clean", func(t *testing.T) {
		p, _ := newPipeline(t, &fakeConverter{text: text}, defaultOptions())
		res, err := p.Run(context.Background(), writeInput(t))
		require.NoError(t, err)
		data, err := os.ReadFile(res.Files[0])
		require.NoError(t, err)
		assert.Equal(t, "# Title\nkept words\n", string(data))
	})

	t.Run("raw", func(t *testing.T) {
		opts := defaultOptions()
		opts.Clean = false
		p, _ := newPipeline(t, &fakeConverter{text: text}, opts)
		res, err := p.Run(context.Background(), writeInput(t))
		require.NoError(t, err)
		data, err := os.ReadFile(res.Files[0])
		require.NoError(t, err)
		assert.Equal(t, text, string(data))
	})
}

func TestRun_ExistingOutputDirWarns(t *testing.T) {
	input := writeInput(t)
	dir := OutputDir(input, "")
	require.NoError(t, os.MkdirAll(dir, 0755))
	stale := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(stale, []byte("keep me"), 0644))

	p, hook := newPipeline(t, &fakeConverter{text: "# A\nx\n"}, defaultOptions())
	_, err := p.Run(context.Background(), input)
	require.NoError(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "already exists") {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.FileExists(t, stale)
}

func TestRun_OutputDirOverride(t *testing.T) {
	opts := defaultOptions()
	opts.OutputDir = filepath.Join(t.TempDir(), "out")
	p, _ := newPipeline(t, &fakeConverter{text: "# A\nx\n"}, opts)

	res, err := p.Run(context.Background(), writeInput(t))
	require.NoError(t, err)
	assert.Equal(t, opts.OutputDir, res.OutputDir)
	assert.FileExists(t, filepath.Join(opts.OutputDir, "001_A.md"))
}

func TestRun_Companions(t *testing.T) {
	opts := defaultOptions()
	opts.PDF = true
	opts.Manifest = true
	p, _ := newPipeline(t, &fakeConverter{text: "# A\nx\n## B\ny\n"}, opts)

	res, err := p.Run(context.Background(), writeInput(t))
	require.NoError(t, err)
	require.Len(t, res.Companions, 3)
	assert.FileExists(t, filepath.Join(res.OutputDir, "001_A.pdf"))
	assert.FileExists(t, filepath.Join(res.OutputDir, "002_B.pdf"))

	data, err := os.ReadFile(filepath.Join(res.OutputDir, render.ManifestName))
	require.NoError(t, err)
	var m render.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, res.RunID, m.RunID)
	assert.Equal(t, 200, m.MinLines)
	assert.True(t, m.Cleaned)
	require.Len(t, m.Chunks, 2)
	assert.Equal(t, "001_A.md", m.Chunks[0].File)
	assert.Equal(t, 3, m.Chunks[1].StartLine)
}

func TestRun_EmptyConversion(t *testing.T) {
	p, _ := newPipeline(t, &fakeConverter{text: ""}, defaultOptions())
	res, err := p.Run(context.Background(), writeInput(t))
	require.NoError(t, err)
	assert.Empty(t, res.Files)
}
