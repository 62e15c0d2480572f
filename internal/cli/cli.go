// Package cli implements the pylinks command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pylinks/pkg/buildinfo"
	"github.com/matzehuels/pylinks/pkg/httputil"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pylinks"
)

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

	// status receives transient progress output such as spinners.
	status io.Writer
	retry  httputil.Policy

	configPath string
	index      indexFlags
}

// New creates a new CLI instance whose logger and progress output write to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		status: w,
		retry:  httputil.DefaultPolicy,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pylinks lists the releases published on Python package indexes",
		Long: `Pylinks reads PEP 503 "simple" repository pages and plain HTML link listings,
and reports the versions, distribution files and yank status they publish.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pylinks/config.toml)")
	c.index.register(root)

	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.linksCommand())
	root.AddCommand(c.yankedCommand())
	root.AddCommand(c.packagesCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
