package runner

import "github.com/yaklabco/gomdhelp/pkg/readme"

// ModuleOutcome is the result of rendering one module.
type ModuleOutcome struct {
	// Module is the module name that was rendered.
	Module string

	// Page is nil if the module could not be rendered.
	Page *readme.Page

	// Written reports whether the writer changed its output.
	Written bool

	// Error is set if rendering or writing failed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// Discovered is the number of modules selected for rendering.
	Discovered int

	// Rendered is the number of modules rendered from a README.
	Rendered int

	// NotFound is the number of modules without README content.
	NotFound int

	// Errored is the number of modules that failed.
	Errored int

	// Written is the number of output files created or changed.
	Written int
}

// Result is the overall runner result.
type Result struct {
	// Modules holds one outcome per module, in input order.
	Modules []ModuleOutcome

	Stats Stats
}

// HasFailures reports whether any module failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Errored > 0
}

// Errors returns the errors of failed modules, in order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Modules {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errs
}

func (r *Result) accumulate(outcome ModuleOutcome) {
	r.Modules = append(r.Modules, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.Errored++
		return
	case outcome.Page == nil:
		return
	case outcome.Page.NotFound:
		r.Stats.NotFound++
	default:
		r.Stats.Rendered++
	}

	if outcome.Written {
		r.Stats.Written++
	}
}
