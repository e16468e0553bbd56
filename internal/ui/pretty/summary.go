package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdhelp/pkg/modules"
	"github.com/yaklabco/gomdhelp/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordModule          = "module"
	wordModules         = "modules"
)

func plural(n int) string {
	if n == 1 {
		return wordModule
	}
	return wordModules
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 modules rendered, 2 without README, 1 failed, 3 written".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Discovered == 0 {
		return s.Dim.Render("No modules to render") + "\n"
	}

	parts := []string{
		s.Success.Render(fmt.Sprintf("%d %s rendered", stats.Rendered, plural(stats.Rendered))),
	}
	if stats.NotFound > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d without README", stats.NotFound)))
	}
	if stats.Errored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.Errored)))
	}
	if stats.Written > 0 {
		parts = append(parts, fmt.Sprintf("%d written", stats.Written))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Modules:           " +
		s.SummaryValue.Render(strconv.Itoa(stats.Discovered)) + "\n")
	builder.WriteString("  Rendered:          " +
		s.SummaryValue.Render(strconv.Itoa(stats.Rendered)) + "\n")

	if stats.NotFound > 0 {
		builder.WriteString("  Without README:    " +
			s.Warning.Render(strconv.Itoa(stats.NotFound)) + "\n")
	}
	if stats.Errored > 0 {
		builder.WriteString("  Failed:            " +
			s.Failure.Render(strconv.Itoa(stats.Errored)) + "\n")
	}
	if stats.Written > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.Written)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.Errored > 0:
		builder.WriteString(s.Failure.Render("Build failed"))
	case stats.NotFound > 0:
		builder.WriteString(s.Warning.Render("Build completed with missing READMEs"))
	default:
		builder.WriteString(s.Success.Render("Build succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatOutcome formats one module result as a single line.
func (s *Styles) FormatOutcome(outcome runner.ModuleOutcome) string {
	name := s.Module.Render(outcome.Module)
	switch {
	case outcome.Error != nil:
		return s.Error.Render("error") + " " + name + " " + s.Dim.Render(outcome.Error.Error()) + "\n"
	case outcome.Page != nil && outcome.Page.NotFound:
		return s.Warning.Render("missing") + " " + name + "\n"
	case outcome.Written:
		return s.Success.Render("wrote") + " " + name + "\n"
	default:
		return s.Info.Render("ok") + " " + name + "\n"
	}
}

// FormatTopic formats a module in a topic listing.
func (s *Styles) FormatTopic(mod modules.Module) string {
	line := s.Module.Render(mod.Name)
	if mod.Title != mod.Name {
		line += " " + s.Title.Render(mod.Title)
	}
	path := mod.Path
	if mod.Readme != "" {
		path += "/" + mod.Readme
	}
	line += " " + s.Path.Render(path)
	if mod.Description != "" {
		line += "\n    " + s.Description.Render(mod.Description)
	}
	return line + "\n"
}
