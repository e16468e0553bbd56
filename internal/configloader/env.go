package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/gomdhelp/pkg/config"
)

const envVarPrefix = "GOMDHELP_"

// envMapping binds GOMDHELP_<suffix> to one config field.
type envMapping struct {
	suffix      string
	field       string
	description string
	apply       func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = []envMapping{
	{"ROOT", "root", "Site root directory",
		stringField(func(c *config.Config) *string { return &c.Root })},
	{"HOST", "host", "Prefix for generated image and link URLs",
		stringField(func(c *config.Config) *string { return &c.Host })},
	{"LANGUAGE", "language", "Language for generated messages",
		stringField(func(c *config.Config) *string { return &c.Language })},
	{"README_FILES", "readme_files", "Comma-separated README file names",
		listField(func(c *config.Config) *[]string { return &c.ReadmeFiles })},
	{"ALLOWED_TAGS", "allowed_tags", "Comma-separated allowed HTML tags",
		listField(func(c *config.Config) *[]string { return &c.AllowedTags })},
	{"MODULE_PATHS", "module_paths", "Comma-separated module search directories",
		listField(func(c *config.Config) *[]string { return &c.ModulePaths })},
	{"MODULES", "modules", "Comma-separated modules to list",
		listField(func(c *config.Config) *[]string { return &c.Modules })},
	{"SNIPPET_ROOT", "snippet.root", "Directory for relative snippet paths",
		stringField(func(c *config.Config) *string { return &c.Snippet.Root })},
	{"SNIPPET_PADDING", "snippet.padding", "Lines shown around a snippet line",
		intField(func(c *config.Config) *int { return &c.Snippet.Padding })},
	{"SNIPPET_LANGUAGE", "snippet.language", "Snippet language, or auto",
		stringField(func(c *config.Config) *string { return &c.Snippet.Language })},
	{"SNIPPET_STYLE", "snippet.style", "Snippet highlight style",
		stringField(func(c *config.Config) *string { return &c.Snippet.Style })},
	{"SERVER_ADDR", "server.addr", "Help server listen address",
		stringField(func(c *config.Config) *string { return &c.Server.Addr })},
	{"SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout", "Help server shutdown timeout",
		durationField(func(c *config.Config) *time.Duration { return &c.Server.ShutdownTimeout })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intField(func(c *config.Config) *int { return &c.Jobs })},
}

func stringField(field func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = value
		return nil
	}
}

func intField(field func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		*field(cfg) = n
		return nil
	}
}

func durationField(field func(*config.Config) *time.Duration) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		*field(cfg) = d
		return nil
	}
}

// listField splits on commas, dropping blank items.
func listField(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*field(cfg) = items
		return nil
	}
}

// LoadFromEnv applies the non-empty GOMDHELP_* variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, m := range envMappings {
		name := envVarPrefix + m.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := m.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the variable that sets a config field, such as
// "snippet.padding", or "" if none does.
func GetEnvVarName(field string) string {
	for _, m := range envMappings {
		if m.field == field {
			return envVarPrefix + m.suffix
		}
	}
	return ""
}

// ListEnvVars maps every supported variable to its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for _, m := range envMappings {
		vars[envVarPrefix+m.suffix] = m.description
	}
	return vars
}
