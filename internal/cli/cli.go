// Package cli implements the attredit command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/attredit/internal/config"
	"github.com/matzehuels/attredit/pkg/catalog"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
	pkgio "github.com/matzehuels/attredit/pkg/io"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "attredit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath     string
	attributesPath string
	equipmentPath  string
	cfg            *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded configuration, or the defaults before the root
// command's pre-run has loaded it.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// loadConfig reads the configuration file named by --config (or the default
// location).
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("Loaded config", "path", c.configPath, "attributes", cfg.Attributes, "equipment", cfg.Equipment)
	return nil
}

// catalog loads the option tables. Flags take precedence over the config file.
func (c *CLI) catalog() (*catalog.Catalog, error) {
	attrs, equip := c.config().Attributes, c.config().Equipment
	if c.attributesPath != "" {
		attrs = c.attributesPath
	}
	if c.equipmentPath != "" {
		equip = c.equipmentPath
	}

	prog := newProgress(c.Logger)
	cat, err := catalog.Load(attrs, equip)
	if err != nil {
		return nil, err
	}
	if attrs != "" || equip != "" {
		c.Logger.Debugf("Loaded %d attribute and %d equipment options (%s)",
			len(cat.Attributes()), len(cat.Equipment()), prog.elapsed())
	}
	return cat, nil
}

// =============================================================================
// Input
// =============================================================================

// readRecords decodes the records in path, or in stdin when path is "-".
func readRecords(cmd *cobra.Command, path string) ([]pkgio.Record, error) {
	if path == "-" {
		return pkgio.ReadRecords(cmd.InOrStdin())
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return pkgio.ImportFile(path)
}

// readText returns the raw contents of path, or of stdin when path is "-".
func readText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.New(apperrors.ErrCodeFileNotFound, "file not found: %s", path)
		}
		return "", err
	}
	return string(data), nil
}
