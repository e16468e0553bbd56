package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
	"github.com/yaklabco/gomdhelp/pkg/readme"
)

type renderFlags struct {
	file   string
	output string
	stdin  bool
}

func newRenderCommand(globals *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [module]",
		Short: "Render one module README as HTML",
		Long: `Render the README of a module as a sanitized HTML fragment.

The module is looked up in the configured module paths. --file points at a
specific README file or directory instead. With --stdin, Markdown is read
from standard input and converted without snippet embedding.

Examples:
  gomdhelp render views                      Render modules/views/README.md
  gomdhelp render views --file docs/USAGE.md Render another file for views
  gomdhelp render views -o views.html        Write the page to a file
  cat NOTES.md | gomdhelp render --stdin     Convert arbitrary Markdown`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.stdin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "README file or directory to render instead of the module default")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the page to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "convert Markdown read from standard input")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, globals *globalFlags, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	sess, err := loadSession(ctx, globals, nil)
	if err != nil {
		return err
	}

	var markup string
	if flags.stdin {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		markup = sess.converter.ConvertText(ctx, string(source), readme.RenderOptions{
			Language: sess.cfg.Language,
			Host:     sess.cfg.Host,
		})
	} else {
		page, err := sess.converter.ConvertFile(ctx, readme.Request{
			Module:   args[0],
			File:     flags.file,
			Host:     sess.cfg.Host,
			Language: sess.cfg.Language,
		})
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if page.NotFound {
			logger.Warn("no README content found", logging.FieldModule, page.Module, logging.FieldDir, page.Dir)
		}
		markup = page.Markup
	}

	return writeOutput(ctx, cmd.OutOrStdout(), flags.output, markup+"\n")
}

// writeOutput writes content to path, or to w when path is empty.
func writeOutput(ctx context.Context, w io.Writer, path, content string) error {
	if path == "" {
		if _, err := io.WriteString(w, content); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := fsutil.WriteAtomic(ctx, path, []byte(content), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logging.FromContext(ctx).Info("page written", logging.FieldOutput, path)
	return nil
}

