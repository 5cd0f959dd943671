package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/booksplit/config"
	"github.com/gaurav-prasanna/booksplit/core"
	"github.com/gaurav-prasanna/booksplit/core/chunk"
	"github.com/gaurav-prasanna/booksplit/core/convert"
	"github.com/gaurav-prasanna/booksplit/core/pipeline"
)

var splitCmd = &cobra.Command{
	Use:   "split <ebook>",
	Short: "Convert an e-book and split it into Markdown chunks",
	Long: `Split converts an e-book to Markdown in <dir>/<name>/full_content.md,
removes leftover span, div and anchor markup, and writes one file per chunk:
NNN_<chapter title>.md. Chapters start at level-1 and level-2 headings; a
chapter longer than --min-lines is split at the first blank line or
sub-heading after --min-lines, and always by --max-lines.

Examples:
  booksplit split book.epub
  booksplit split book.epub --min-lines 100 --max-lines 150
  booksplit split book.epub -o ./out --manifest --pdf
  booksplit split book.epub --converter builtin --clean=false`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	f := splitCmd.Flags()
	f.Int("min-lines", chunk.DefaultMinLines, "Lines a chunk must reach before it may break")
	f.Int("max-lines", chunk.DefaultMaxLines, "Lines at which a chunk is always broken")
	f.Bool("clean", true, "Strip span, div and anchor markup before splitting")
	f.StringP("output-dir", "o", "", "Output directory (default: <input dir>/<input name>)")
	f.String("converter", config.ConverterPandoc, "Converter: pandoc or builtin (EPUB only)")
	f.String("pandoc-path", convert.DefaultPandocPath, "pandoc executable")
	f.Bool("manifest", false, "Also write manifest.json describing every chunk")
	f.Bool("pdf", false, "Also write a PDF for each chunk")

	bindFlags(f.Lookup, map[string]string{
		"min_lines":   "min-lines",
		"max_lines":   "max-lines",
		"clean":       "clean",
		"output_dir":  "output-dir",
		"converter":   "converter",
		"pandoc_path": "pandoc-path",
		"manifest":    "manifest",
		"pdf":         "pdf",
	})
}

func runSplit(cmd *cobra.Command, args []string) error {
	input := args[0]

	p, err := pipeline.New(selectConverter(), pipeline.Options{
		MinLines:  cfg.MinLines,
		MaxLines:  cfg.MaxLines,
		Clean:     cfg.Clean,
		OutputDir: cfg.OutputDir,
		Manifest:  cfg.Manifest,
		PDF:       cfg.PDF,
	}, logger)
	if err != nil {
		return err
	}

	res, err := p.Run(cmd.Context(), input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range res.Files {
		fmt.Fprintf(out, "✓ Written: %s\n", path)
	}
	for _, path := range res.Companions {
		fmt.Fprintf(out, "✓ Written: %s\n", path)
	}
	fmt.Fprintf(out, "Splitting complete. Created %d sections in %s/\n",
		len(res.Files), filepath.Base(res.OutputDir))
	return nil
}

// selectConverter creates the converter named by the configuration.
func selectConverter() core.Converter {
	if cfg.Converter == config.ConverterBuiltin {
		return convert.NewBuiltin(logger)
	}
	return convert.NewPandoc(cfg.PandocPath, logger)
}
