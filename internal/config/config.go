// Package config loads the attredit configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/attredit/config.toml
// (~/.config/attredit/config.toml when XDG_CONFIG_HOME is unset). A missing
// file is not an error: defaults apply. Environment variables override the
// file, and command-line flags override both.
//
//	attributes    = "~/games/attributes.yaml"
//	equipment     = "~/games/equipment.json"
//	debounce      = "300ms"
//	export_file   = "exported_attributes.json"
//	export_target = "clipboard"   # or "file", "stdout" (default)
//	listen        = "127.0.0.1:8420"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
	pkgio "github.com/matzehuels/attredit/pkg/io"
)

const (
	appName  = "attredit"
	fileName = "config.toml"

	// DefaultDebounce is the delay between the last keystroke in the input
	// pane and the reparse it triggers.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultListen is the address of the local HTTP API.
	DefaultListen = "127.0.0.1:8420"
)

// Export targets.
const (
	TargetClipboard = "clipboard"
	TargetFile      = "file"
	TargetStdout    = "stdout"
)

// Config holds user preferences.
type Config struct {
	// Catalog files (.json, .toml, .yaml or .yml). Empty means no names.
	Attributes string `toml:"attributes"`
	Equipment  string `toml:"equipment"`

	// Reparse delay of the terminal editor, as a Go duration string.
	Debounce string `toml:"debounce"`

	ExportFile   string `toml:"export_file"`
	ExportTarget string `toml:"export_target"` // clipboard, file, stdout

	Listen string `toml:"listen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debounce:     DefaultDebounce.String(),
		ExportFile:   pkgio.DefaultExportFile,
		ExportTarget: TargetStdout,
		Listen:       DefaultListen,
	}
}

// Dir returns the configuration directory using the XDG standard.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the file at path on top of the defaults. An empty path means
// [Path]. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			// No home directory: run on defaults.
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}
	cfg.applyEnv()
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ATTREDIT_ATTRIBUTES"); v != "" {
		c.Attributes = v
	}
	if v := os.Getenv("ATTREDIT_EQUIPMENT"); v != "" {
		c.Equipment = v
	}
	if v := os.Getenv("ATTREDIT_LISTEN"); v != "" {
		c.Listen = v
	}
}

func (c *Config) expandPaths() {
	c.Attributes = expandHome(c.Attributes)
	c.Equipment = expandHome(c.Equipment)
	c.ExportFile = expandHome(c.ExportFile)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// DebounceDuration parses Debounce, falling back to [DefaultDebounce].
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// Validate checks enumerated and path values.
func (c *Config) Validate() error {
	switch c.ExportTarget {
	case TargetClipboard, TargetFile, TargetStdout:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"export_target %q: want %s, %s or %s", c.ExportTarget, TargetClipboard, TargetFile, TargetStdout)
	}
	if c.Debounce != "" {
		if d, err := time.ParseDuration(c.Debounce); err != nil || d <= 0 {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "debounce %q is not a positive duration", c.Debounce)
		}
	}
	if c.ExportFile != "" {
		if err := apperrors.ValidatePath(c.ExportFile); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "export_file")
		}
	}
	return nil
}
