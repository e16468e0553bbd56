package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/configloader"
	"github.com/yaklabco/gomdhelp/internal/ui/pretty"
	"github.com/yaklabco/gomdhelp/pkg/config"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
)

func newConfigCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gomdhelp configuration",
		Long: `Inspect the effective configuration, the files it is loaded from and the
supported environment variables.`,
	}

	cmd.AddCommand(newConfigShowCommand(globals))
	cmd.AddCommand(newConfigPathsCommand())
	cmd.AddCommand(newConfigEnvCommand())
	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

func newConfigShowCommand(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(commandContext(cmd), globals, nil)
			if err != nil {
				return err
			}
			data, err := cfg.ToYAML()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where configuration files are looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			paths, err := configloader.DiscoverPaths(commandContext(cmd), workDir)
			if err != nil {
				return fmt.Errorf("discover config paths: %w", err)
			}
			styles := pretty.NewStyles(false)
			out := cmd.OutOrStdout()
			for _, row := range []struct{ name, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
			} {
				path := row.path
				if path == "" {
					path = styles.Dim.Render("(none)")
				}
				if _, err := fmt.Fprintf(out, "%-8s %s\n", row.name, path); err != nil {
					return fmt.Errorf("write paths: %w", err)
				}
			}
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported GOMDHELP_* environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeEnvVars(cmd.OutOrStdout(), configloader.ListEnvVars())
		},
	}
}

func writeEnvVars(w io.Writer, vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, name, vars[name]); err != nil {
			return fmt.Errorf("write env vars: %w", err)
		}
	}
	return nil
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file on its own, on top of the defaults.
Relative roots are resolved against the file's directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, args[0])
		},
	}
}

func runConfigValidate(cmd *cobra.Command, path string) error {
	ctx := commandContext(cmd)

	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	cfg, err := config.FromYAML(data)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	cfg = withDefaults(cfg)
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	result := configloader.ValidateWithFile(cfg, path)
	out := cmd.OutOrStdout()
	for _, msg := range result.AllMessages() {
		if _, err := fmt.Fprintln(out, msg); err != nil {
			return fmt.Errorf("write validation result: %w", err)
		}
	}
	if !result.Valid() {
		return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("%s: %d validation error(s)", path, len(result.Errors))}
	}
	if _, err := fmt.Fprintf(out, "%s: ok\n", path); err != nil {
		return fmt.Errorf("write validation result: %w", err)
	}
	return nil
}

// withDefaults layers cfg over the defaults.
func withDefaults(cfg *config.Config) *config.Config {
	return configloader.MergeAll(config.NewConfig(), cfg)
}
