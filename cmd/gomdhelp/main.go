// Command gomdhelp renders module README files as HTML help pages.
package main

import (
	"os"

	"github.com/yaklabco/gomdhelp/internal/cli"
	"github.com/yaklabco/gomdhelp/internal/logging"
)

// Set through -ldflags by the release build.
//
//nolint:gochecknoglobals // ldflags targets.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})

	err := root.Execute()
	if err == nil {
		return cli.ExitSuccess
	}
	if !cli.IsSilent(err) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}
