// Package pipeline runs one e-book through every stage:
// convert -> normalize -> segment -> split -> write.
//
// Preconditions (input present, converter available) are checked before
// anything is created on disk. The run is a single synchronous pass.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gaurav-prasanna/booksplit/core"
	"github.com/gaurav-prasanna/booksplit/core/chunk"
	"github.com/gaurav-prasanna/booksplit/core/convert"
	"github.com/gaurav-prasanna/booksplit/core/normalize"
	"github.com/gaurav-prasanna/booksplit/core/output"
	"github.com/gaurav-prasanna/booksplit/core/render"
	"github.com/gaurav-prasanna/booksplit/core/segment"
)

// Options controls a run.
type Options struct {
	MinLines  int
	MaxLines  int
	Clean     bool   // strip leftover markup before segmenting
	OutputDir string // empty derives <input dir>/<input stem>
	Manifest  bool   // also write manifest.json
	PDF       bool   // also write a PDF per chunk
}

// Result describes what a run produced.
type Result struct {
	RunID      string
	OutputDir  string
	FullText   string
	Sections   int
	Chunks     []core.Chunk
	Files      []string // chunk Markdown files, in chunk order
	Companions []string // PDF files and the manifest, if requested
}

// Pipeline wires a converter to the splitting stages.
type Pipeline struct {
	conv core.Converter
	opts Options
	log  logrus.FieldLogger
}

// New validates the options and creates a Pipeline.
func New(conv core.Converter, opts Options, log logrus.FieldLogger) (*Pipeline, error) {
	if _, err := chunk.New(opts.MinLines, opts.MaxLines); err != nil {
		return nil, err
	}
	return &Pipeline{conv: conv, opts: opts, log: log}, nil
}

// OutputDir returns the directory a run for input writes into.
func OutputDir(input, override string) string {
	if override != "" {
		return override
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), stem)
}

// Run converts input and writes its chunks.
func (p *Pipeline) Run(ctx context.Context, input string) (*Result, error) {
	runID := uuid.NewString()
	log := p.log.WithFields(logrus.Fields{"run_id": runID, "input": input})

	// --- Preconditions ---
	info, err := os.Stat(input)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", core.ErrInputNotFound, input)
	}
	if err := p.conv.Check(); err != nil {
		return nil, err
	}

	// --- Output directory ---
	dir := OutputDir(input, p.opts.OutputDir)
	if _, err := os.Stat(dir); err == nil {
		log.WithField("dir", dir).Warn("output directory already exists; files may be overwritten")
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking output directory: %w", err)
	}
	writer, err := output.New(dir)
	if err != nil {
		return nil, err
	}

	// --- Convert ---
	log.WithField("dir", dir).Info("converting")
	if err := p.conv.Convert(ctx, input, dir, core.FullTextName); err != nil {
		return nil, fmt.Errorf("converting %s: %w", input, err)
	}
	fullText := filepath.Join(dir, core.FullTextName)
	data, err := os.ReadFile(fullText)
	if err != nil {
		return nil, fmt.Errorf("reading converted text: %w", err)
	}

	// --- Normalize, segment, split ---
	var norm core.Normalizer = normalize.Passthrough{}
	if p.opts.Clean {
		norm = normalize.New()
	}
	lines := segment.SplitLines(norm.Normalize(string(data)))
	sections := segment.Segment(lines)

	splitter, err := chunk.New(p.opts.MinLines, p.opts.MaxLines)
	if err != nil {
		return nil, err
	}
	chunks := splitter.SplitAll(sections)
	log.WithFields(logrus.Fields{
		"lines":    len(lines),
		"sections": len(sections),
		"chunks":   len(chunks),
	}).Info("split document")

	// --- Write ---
	meta, err := convert.ReadMetadata(input)
	if err != nil {
		log.WithError(err).Debug("no book metadata")
	}

	res := &Result{
		RunID:     runID,
		OutputDir: dir,
		FullText:  fullText,
		Sections:  len(sections),
		Chunks:    chunks,
	}
	manifest := render.NewManifest(runID, input, dir, meta)
	manifest.MinLines, manifest.MaxLines = p.opts.MinLines, p.opts.MaxLines
	manifest.Cleaned = p.opts.Clean
	manifest.Sections = len(sections)

	md := render.NewMarkdownRenderer()
	pdf := render.NewPDFRenderer()
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, err := writer.WriteChunk(c, md, meta)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
		manifest.Add(c, filepath.Base(path))

		if p.opts.PDF {
			path, err := writer.WriteChunk(c, pdf, meta)
			if err != nil {
				return nil, err
			}
			res.Companions = append(res.Companions, path)
		}
	}

	if p.opts.Manifest {
		data, err := manifest.Render()
		if err != nil {
			return nil, err
		}
		path, err := writer.WriteFile(render.ManifestName, data)
		if err != nil {
			return nil, err
		}
		res.Companions = append(res.Companions, path)
	}

	log.WithField("files", len(res.Files)).Info("split complete")
	return res, nil
}
