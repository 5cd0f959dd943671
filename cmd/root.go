// Package cmd implements the booksplit CLI using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/booksplit/config"
	"github.com/gaurav-prasanna/booksplit/logging"
)

var (
	flagConfig string

	// v collects flags, environment and the config file; cfg and logger
	// are built from it before any subcommand runs.
	v      = viper.New()
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "booksplit",
	Short: "booksplit: convert e-books into chapter-aligned Markdown chunks",
	Long: `booksplit converts an e-book to Markdown with pandoc, strips leftover
markup, and splits the text into numbered files that follow chapter
boundaries and stay within a line limit.

Usage:
  booksplit split <ebook> [flags]
  booksplit clean <markdown>`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (yaml, toml or json)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("log-file", "", "Write logs to this file (rotated) instead of stderr")

	bindFlags(pf.Lookup, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.file":   "log-file",
	})
}

// setup loads .env, resolves configuration and creates the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	c, err := config.Load(v, flagConfig)
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if used := v.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("using config file")
	}
	return nil
}

// bindFlags binds viper keys to flag names.
func bindFlags(lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// Execute runs the root command. Ctrl-C cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
