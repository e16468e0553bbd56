// Package runner renders many module READMEs concurrently.
package runner

import "github.com/yaklabco/gomdhelp/pkg/readme"

// Options controls a batch render.
type Options struct {
	// Modules are the module names to render, in output order.
	// If empty, the runner's topic list is used.
	Modules []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Request is the template for every render; Module is set per module.
	Request readme.Request

	// Writer, when set, receives every rendered page.
	Writer PageWriter
}
