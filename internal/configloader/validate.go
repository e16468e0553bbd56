package configloader

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/text/language"

	"github.com/yaklabco/gomdhelp/pkg/config"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
	"github.com/yaklabco/gomdhelp/pkg/highlight"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "snippet.padding").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// supportedLanguages have translated messages.
//
//nolint:gochecknoglobals // Read-only lookup table.
var supportedLanguages = map[string]bool{
	"en": true,
	"fr": true,
	"de": true,
}

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var tagNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Root != "" && !fsutil.IsDir(cfg.Root) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "root",
			Value:   cfg.Root,
			Message: fmt.Sprintf("root %q is not a directory", cfg.Root),
		})
	}

	validateHost(cfg, result)
	validateLanguage(cfg, result)

	if len(cfg.ReadmeFiles) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "readme_files",
			Message: "at least one README file name is required",
		})
	}
	for i, name := range cfg.ReadmeFiles {
		if name == "" || strings.ContainsAny(name, `/\`) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("readme_files[%d]", i),
				Value:   name,
				Message: "README file names must be plain file names",
			})
		}
	}

	validateAllowedTags(cfg, result)

	if len(cfg.ModulePaths) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "module_paths",
			Message: "no module paths configured; only explicit files can be rendered",
		})
	}

	validateSnippet(cfg, result)

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Server.ShutdownTimeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.shutdown_timeout",
			Value:   cfg.Server.ShutdownTimeout,
			Message: "shutdown timeout must not be negative",
		})
	}

	return result
}

func validateHost(cfg *config.Config, result *ValidationResult) {
	if cfg.Host == "" {
		return
	}
	u, err := url.Parse(cfg.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "host",
			Value:   cfg.Host,
			Message: fmt.Sprintf("invalid host %q; must be an absolute http or https URL", cfg.Host),
		})
	}
}

func validateLanguage(cfg *config.Config, result *ValidationResult) {
	if cfg.Language == "" {
		return
	}
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "language",
			Value:   cfg.Language,
			Message: fmt.Sprintf("invalid language tag %q", cfg.Language),
		})
		return
	}
	base, _ := tag.Base()
	if !supportedLanguages[base.String()] {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "language",
			Value:   cfg.Language,
			Message: fmt.Sprintf("no translations for %q; messages will be in English", cfg.Language),
		})
	}
}

func validateAllowedTags(cfg *config.Config, result *ValidationResult) {
	if len(cfg.AllowedTags) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "allowed_tags",
			Message: "allowed tag list must not be empty",
		})
		return
	}
	for i, tag := range cfg.AllowedTags {
		if !tagNamePattern.MatchString(strings.ToLower(strings.TrimSpace(tag))) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("allowed_tags[%d]", i),
				Value:   tag,
				Message: fmt.Sprintf("invalid tag name %q", tag),
			})
		}
	}
}

func validateSnippet(cfg *config.Config, result *ValidationResult) {
	if cfg.Snippet.Padding <= 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "snippet.padding",
			Value:   cfg.Snippet.Padding,
			Message: "padding must be > 0",
		})
	}

	if cfg.Snippet.Root != "" && !fsutil.IsDir(cfg.Snippet.Root) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "snippet.root",
			Value:   cfg.Snippet.Root,
			Message: fmt.Sprintf("snippet root %q is not a directory", cfg.Snippet.Root),
		})
	}

	lang := cfg.Snippet.Language
	if lang != "" && lang != highlight.Auto && lexers.Get(lang) == nil {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "snippet.language",
			Value:   lang,
			Message: fmt.Sprintf("unknown language %q; it will be detected per file", lang),
		})
	}

	if style := cfg.Snippet.Style; style != "" {
		if _, ok := styles.Registry[strings.ToLower(style)]; !ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "snippet.style",
				Value:   style,
				Message: fmt.Sprintf("unknown style %q; the default style will be used", style),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
