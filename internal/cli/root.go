// Package cli provides the Cobra command structure for gomdhelp.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdhelp command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gomdhelp",
		Short: "Render module README files as sanitized HTML help pages",
		Long: `gomdhelp turns the README files shipped with site modules into sanitized
HTML help pages.

It understands a practical subset of Markdown, embeds highlighted source
excerpts referenced by @PHPFILE markers, and can render a single module,
build pages for every module at once, or serve them over HTTP.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&globals.root, "root", "", "site root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&globals.host, "host", "", "host prefixed to generated image and link URLs")
	rootCmd.PersistentFlags().StringVar(&globals.language, "language", "", "language for generated messages: en, fr, de")
	rootCmd.PersistentFlags().StringSliceVar(&globals.modulePaths, "module-path", nil,
		"directories searched for modules, relative to the root")

	// Add subcommands.
	rootCmd.AddCommand(newRenderCommand(globals))
	rootCmd.AddCommand(newBuildCommand(globals))
	rootCmd.AddCommand(newTopicsCommand(globals))
	rootCmd.AddCommand(newServeCommand(globals))
	rootCmd.AddCommand(newConfigCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
