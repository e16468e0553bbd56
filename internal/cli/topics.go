package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhelp/internal/ui/pretty"
	"github.com/yaklabco/gomdhelp/pkg/modules"
)

type topicsFlags struct {
	format string
	all    bool
}

func newTopicsCommand(globals *globalFlags) *cobra.Command {
	flags := &topicsFlags{}

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List modules offering help",
		Long: `List the modules that ship a README, sorted by title.

With --all, every discovered module is listed, including those without a
README and those outside the configured "modules" selection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTopics(cmd, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&flags.all, "all", false, "list all discovered modules")

	return cmd
}

func runTopics(cmd *cobra.Command, globals *globalFlags, flags *topicsFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return &ExitError{
			Code: ExitInvalidUsage,
			Err:  fmt.Errorf("invalid format %q: must be text or json", flags.format),
		}
	}

	ctx := commandContext(cmd)
	sess, err := loadSession(ctx, globals, nil)
	if err != nil {
		return err
	}

	list := sess.index.Topics()
	if flags.all {
		list = sess.index.Modules()
	}

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		return writeTopicsJSON(out, list)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
	return writeTopicsText(out, styles, list)
}

func writeTopicsJSON(w io.Writer, list []modules.Module) error {
	if list == nil {
		list = []modules.Module{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(list); err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}
	return nil
}

func writeTopicsText(w io.Writer, styles *pretty.Styles, list []modules.Module) error {
	if len(list) == 0 {
		if _, err := io.WriteString(w, styles.Dim.Render("No help topics found")+"\n"); err != nil {
			return fmt.Errorf("write topics: %w", err)
		}
		return nil
	}
	for _, mod := range list {
		if _, err := io.WriteString(w, styles.FormatTopic(mod)); err != nil {
			return fmt.Errorf("write topics: %w", err)
		}
	}
	return nil
}
