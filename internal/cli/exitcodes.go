package cli

import (
	"errors"

	"github.com/yaklabco/gomdhelp/internal/configloader"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
	"github.com/yaklabco/gomdhelp/pkg/modules"
	"github.com/yaklabco/gomdhelp/pkg/readme"
	"github.com/yaklabco/gomdhelp/pkg/runner"
)

// Exit codes for gomdhelp.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitBuildErrors indicates a build finished but some modules failed.
	ExitBuildErrors = 1

	// ExitMissingReadmes indicates modules without README content (strict mode).
	ExitMissingReadmes = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrBuildIncomplete is returned when a build did not render every module.
var ErrBuildIncomplete = errors.New("build incomplete")

// ExitError carries a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.Errored > 0 {
		return ExitBuildErrors
	}

	if strict && result.Stats.NotFound > 0 {
		return ExitMissingReadmes
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var validationErr *configloader.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, readme.ErrUnknownModule):
		return ExitInvalidUsage
	case errors.Is(err, modules.ErrRootNotFound),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only signals an exit code and was already
// reported to the user.
func IsSilent(err error) bool {
	return errors.Is(err, ErrBuildIncomplete)
}
