package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/internal/ui/pretty"
	"github.com/yaklabco/gomdhelp/pkg/config"
	"github.com/yaklabco/gomdhelp/pkg/readme"
	"github.com/yaklabco/gomdhelp/pkg/runner"
)

// defaultOutputDir is where build writes pages when --out is not given.
const defaultOutputDir = "help"

type buildFlags struct {
	modules     []string
	skipMissing bool
	strict      bool
	quiet       bool
	compact     bool
}

func newBuildCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [modules...]",
		Short: "Render every module README into an output directory",
		Long: `Render the README of every module offering help and write each page to
{out}/{module}.html. Pages whose content did not change are left untouched.

Without arguments, all modules with a README are rendered (restricted to the
configured "modules" list when it is set).

Examples:
  gomdhelp build                      Render all modules into ./help
  gomdhelp build --out public/help    Choose the output directory
  gomdhelp build views node           Render only two modules
  gomdhelp build --strict             Fail when a module has no README`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.modules = args
			return runBuild(cmd, globals, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", defaultOutputDir, "output directory")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.skipMissing, "skip-missing", false, "do not write pages for modules without README content")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when a module has no README content")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only print the summary")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print a one-line summary")

	return cmd
}

func runBuild(cmd *cobra.Command, globals *globalFlags, cfg *config.Config, flags *buildFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	sess, err := loadSession(ctx, globals, cfg)
	if err != nil {
		return err
	}

	outDir := sess.cfg.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	names := flags.modules
	if len(names) == 0 {
		names = sess.cfg.Modules
	}

	logger.Debug("starting build",
		logging.FieldOutput, outDir,
		logging.FieldJobs, sess.cfg.Jobs,
	)

	buildRunner := runner.New(sess.converter, sess.index)
	result, err := buildRunner.Run(ctx, runner.Options{
		Modules: names,
		Jobs:    sess.cfg.Jobs,
		Request: readme.Request{
			Host:     sess.cfg.Host,
			Language: sess.cfg.Language,
		},
		Writer: runner.DirWriter{Dir: outDir, SkipNotFound: flags.skipMissing},
	})
	if err != nil {
		return fmt.Errorf("build run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	reportBuild(cmd.OutOrStdout(), pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout())), result, flags)

	for _, failure := range result.Errors() {
		logger.Error("module failed", logging.FieldError, failure)
	}

	logger.Debug("build finished",
		logging.FieldModulesDiscovered, result.Stats.Discovered,
		logging.FieldModulesRendered, result.Stats.Rendered,
		logging.FieldModulesNotFound, result.Stats.NotFound,
		logging.FieldModulesErrored, result.Stats.Errored,
		logging.FieldFilesWritten, result.Stats.Written,
	)

	if code := ExitCodeFromResult(result, flags.strict); code != ExitSuccess {
		return &ExitError{Code: code, Err: ErrBuildIncomplete}
	}

	return nil
}

func reportBuild(w io.Writer, styles *pretty.Styles, result *runner.Result, flags *buildFlags) {
	if !flags.quiet {
		for _, outcome := range result.Modules {
			_, _ = io.WriteString(w, styles.FormatOutcome(outcome))
		}
	}

	if flags.compact {
		_, _ = io.WriteString(w, styles.FormatSummaryOneLine(result.Stats))
		return
	}
	_, _ = io.WriteString(w, styles.FormatSummary(result.Stats))
}
