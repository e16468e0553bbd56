// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFile       = "file"
	FieldDir        = "dir"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldLines      = "lines"

	// Configuration fields.
	FieldConfig   = "config"
	FieldRoot     = "root"
	FieldHost     = "host"
	FieldLanguage = "language"
	FieldJobs     = "jobs"

	// Rendering fields.
	FieldModule  = "module"
	FieldChanged = "changed"
	FieldBytes   = "bytes"

	// Statistics fields.
	FieldModulesDiscovered = "modules_discovered"
	FieldModulesRendered   = "modules_rendered"
	FieldModulesNotFound   = "modules_not_found"
	FieldModulesErrored    = "modules_errored"
	FieldFilesWritten      = "files_written"

	// HTTP fields.
	FieldAddr      = "addr"
	FieldMethod    = "method"
	FieldStatus    = "status"
	FieldDuration  = "duration"
	FieldRequestID = "request_id"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Listing fields.
	FieldName        = "name"
	FieldDescription = "description"
)
