// Package convert implements the Converter interface.
// Pandoc is the default: it runs the pandoc binary as a subprocess inside
// the output directory so extracted media lands next to the Markdown.
// Builtin is a pure-Go fallback for EPUB input.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gaurav-prasanna/booksplit/core"
)

// DefaultPandocPath is looked up on PATH when no explicit binary is set.
const DefaultPandocPath = "pandoc"

// ExitError reports a converter process that ran but failed.
// Output holds the tool's combined stdout and stderr.
type ExitError struct {
	Tool     string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed (exit status %d)", e.Tool, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Pandoc converts documents by shelling out to pandoc.
type Pandoc struct {
	Path string
	log  logrus.FieldLogger
}

// NewPandoc creates a Pandoc converter. An empty path means DefaultPandocPath.
func NewPandoc(path string, log logrus.FieldLogger) *Pandoc {
	if path == "" {
		path = DefaultPandocPath
	}
	return &Pandoc{Path: path, log: log}
}

// Args returns the pandoc arguments for converting src into name:
// GitHub-flavoured Markdown, no hard wrapping, media extracted into the
// working directory.
func Args(src, name string) []string {
	return []string{
		src,
		"-o", name,
		"--extract-media=.",
		"-t", "gfm",
		"--wrap=none",
	}
}

// Check verifies the pandoc binary can be found.
func (p *Pandoc) Check() error {
	if _, err := p.binary(); err != nil {
		return err
	}
	return nil
}

// Convert runs pandoc with dir as its working directory. A non-zero exit
// returns an *ExitError carrying pandoc's own diagnostics.
func (p *Pandoc) Convert(ctx context.Context, src, dir, name string) error {
	bin, err := p.binary()
	if err != nil {
		return err
	}
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}

	args := Args(absSrc, name)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	p.log.WithFields(logrus.Fields{"bin": bin, "args": args, "dir": dir}).Debug("running pandoc")

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExitError{
			Tool:     filepath.Base(bin),
			ExitCode: code,
			Output:   strings.TrimSpace(out.String()),
			Err:      err,
		}
	}

	// pandoc reports lossy conversions on stderr but still succeeds.
	if msg := strings.TrimSpace(out.String()); msg != "" {
		p.log.WithField("output", msg).Warn("pandoc reported warnings")
	}
	return nil
}

// binary resolves the pandoc executable to an absolute path, so that
// running it from another working directory still works.
func (p *Pandoc) binary() (string, error) {
	bin, err := exec.LookPath(p.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s (install pandoc or use --converter builtin): %v",
			core.ErrConverterNotFound, p.Path, err)
	}
	abs, err := filepath.Abs(bin)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", bin, err)
	}
	return abs, nil
}
