package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/booksplit/core"
	"github.com/gaurav-prasanna/booksplit/core/normalize"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <markdown>",
	Short: "Strip leftover span, div and anchor markup from a Markdown file in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return fmt.Errorf("%w: %s", core.ErrInputNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	logger.WithField("file", path).Info("cleaning markup")
	cleaned := normalize.New().Normalize(string(data))
	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully cleaned: %s\n", path)
	return nil
}
