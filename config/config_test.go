package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/booksplit/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.MinLines)
	assert.Equal(t, 300, cfg.MaxLines)
	assert.True(t, cfg.Clean)
	assert.Empty(t, cfg.OutputDir)
	assert.Equal(t, ConverterPandoc, cfg.Converter)
	assert.Equal(t, "pandoc", cfg.PandocPath)
	assert.False(t, cfg.Manifest)
	assert.False(t, cfg.PDF)
	assert.Equal(t, LogConfig{Level: "info", Format: "text"}, cfg.Log)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booksplit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
min_lines: 50
max_lines: 80
clean: false
converter: builtin
log:
  level: debug
`), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MinLines)
	assert.Equal(t, 80, cfg.MaxLines)
	assert.False(t, cfg.Clean)
	assert.Equal(t, ConverterBuiltin, cfg.Converter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booksplit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_lines: 400\n"), 0644))
	t.Setenv("BOOKSPLIT_MAX_LINES", "500")
	t.Setenv("BOOKSPLIT_LOG_FORMAT", "json")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxLines)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("BOOKSPLIT_MIN_LINES", "20")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("min-lines", 200, "")
	require.NoError(t, fs.Parse([]string{"--min-lines=10"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("min_lines", fs.Lookup("min-lines")))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MinLines)
}

func TestValidate(t *testing.T) {
	base := Config{MinLines: 200, MaxLines: 300, Converter: ConverterPandoc}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantLimit bool
		wantErr   bool
	}{
		{"valid", func(*Config) {}, false, false},
		{"equal limits", func(c *Config) { c.MaxLines = 200 }, false, false},
		{"zero min", func(c *Config) { c.MinLines = 0 }, true, true},
		{"max below min", func(c *Config) { c.MaxLines = 100 }, true, true},
		{"unknown converter", func(c *Config) { c.Converter = "calibre" }, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantLimit {
				assert.ErrorIs(t, err, core.ErrInvalidLimits)
			} else {
				assert.NotErrorIs(t, err, core.ErrInvalidLimits)
			}
		})
	}
}
