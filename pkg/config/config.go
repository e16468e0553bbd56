// Package config defines core configuration types for gomdhelp.
// These types are pure data structures; loading and merging live in internal/configloader.
package config

import (
	"slices"
	"time"

	"github.com/yaklabco/gomdhelp/pkg/sanitize"
)

// Defaults used by NewConfig.
const (
	DefaultHost            = "http://localhost"
	DefaultLanguage        = "en"
	DefaultSnippetLanguage = "php"
	DefaultSnippetStyle    = "github"
	DefaultSnippetPadding  = 10
	DefaultServerAddr      = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
)

// DefaultReadmeFiles lists README names in lookup order.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultReadmeFiles = []string{"README.md", "README.txt", "README"}

// DefaultModulePaths lists the directories, relative to Root, searched for modules.
//
//nolint:gochecknoglobals // Read-only default.
var DefaultModulePaths = []string{"modules", "core/modules", "profiles"}

// SnippetConfig controls @PHPFILE snippet embedding.
type SnippetConfig struct {
	// Root resolves relative snippet paths. Empty means Config.Root.
	Root string `mapstructure:"root" yaml:"root,omitempty"`

	// Padding is the default number of lines shown around the target line.
	Padding int `mapstructure:"padding" yaml:"padding"`

	// Language is the highlighter language, or "auto" to detect per file.
	Language string `mapstructure:"language" yaml:"language"`

	// Style is the chroma style name.
	Style string `mapstructure:"style" yaml:"style"`
}

// ServerConfig controls the help server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config is the root configuration structure for gomdhelp.
type Config struct {
	// Root is the site root that module paths and snippet paths are relative to.
	Root string `mapstructure:"root" yaml:"root"`

	// Host prefixes generated image and link URLs.
	Host string `mapstructure:"host" yaml:"host"`

	// Language is the interface language for generated messages.
	Language string `mapstructure:"language" yaml:"language"`

	// ReadmeFiles lists README file names in lookup order.
	ReadmeFiles []string `mapstructure:"readme_files" yaml:"readme_files"`

	// AllowedTags is the sanitizer allow-list.
	AllowedTags []string `mapstructure:"allowed_tags" yaml:"allowed_tags"`

	// ModulePaths lists directories searched for modules, relative to Root.
	ModulePaths []string `mapstructure:"module_paths" yaml:"module_paths"`

	// Modules restricts rendering to the named modules. Empty means all.
	Modules []string `mapstructure:"modules" yaml:"modules,omitempty"`

	Snippet SnippetConfig `mapstructure:"snippet" yaml:"snippet"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// OutputDir is where the build command writes pages.
	OutputDir string `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Root:        ".",
		Host:        DefaultHost,
		Language:    DefaultLanguage,
		ReadmeFiles: slices.Clone(DefaultReadmeFiles),
		AllowedTags: slices.Clone(sanitize.DefaultAllowedTags),
		ModulePaths: slices.Clone(DefaultModulePaths),
		Snippet: SnippetConfig{
			Padding:  DefaultSnippetPadding,
			Language: DefaultSnippetLanguage,
			Style:    DefaultSnippetStyle,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Jobs: 0, // 0 means use GOMAXPROCS
	}
}

// SnippetRoot returns the directory relative snippet paths resolve against.
func (c *Config) SnippetRoot() string {
	if c.Snippet.Root != "" {
		return c.Snippet.Root
	}
	return c.Root
}
