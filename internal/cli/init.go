package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// defaultConfigFile is the project configuration file written by init.
const defaultConfigFile = ".gomdhelp.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	root   string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gomdhelp configuration file",
		Long: `Create a new .gomdhelp.yml configuration file in the current directory.
The minimal template sets the site root, host and language; the full template
lists every option with its default value.

When the file already exists and the terminal is interactive, you are asked
before it is overwritten. Otherwise --force is required.

Examples:
  gomdhelp init                      Create minimal .gomdhelp.yml
  gomdhelp init --full               Create full config with all options
  gomdhelp init --root web           Point the site root at ./web
  gomdhelp init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.InOrStdin(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all options")
	cmd.Flags().StringVar(&flags.root, "root", "", "Site root written to the template")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: "+defaultConfigFile+")")

	return cmd
}

func runInit(in io.Reader, flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigFile
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !confirmOverwrite(in, outputPath) {
			return &ExitError{
				Code: ExitInvalidUsage,
				Err:  fmt.Errorf("file %q already exists; use --force to overwrite", outputPath),
			}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full: flags.full,
		Root: flags.root,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'gomdhelp topics' to see the modules offering help")

	return nil
}

// confirmOverwrite asks on an interactive terminal whether path may be
// overwritten. Non-interactive input never confirms.
func confirmOverwrite(in io.Reader, path string) bool {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // Fd fits in int on supported platforms.
		return false
	}

	fmt.Fprintf(os.Stderr, "%s already exists. Overwrite? [y/N] ", path)
	answer, err := bufio.NewReader(f).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
