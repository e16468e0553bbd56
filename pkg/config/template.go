package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Root overrides the root written into the template.
	Root string
}

const templateHeader = `# gomdhelp configuration
# See: https://github.com/yaklabco/gomdhelp`

// GenerateTemplate produces a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts), nil
}

func generateMinimalTemplate(opts TemplateOptions) []byte {
	root := opts.Root
	if root == "" {
		root = "."
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "# Site root; module and snippet paths are relative to it\nroot: %q\n\n", root)
	fmt.Fprintf(&buf, "# Prefix for generated image and link URLs\nhost: %q\n\n", DefaultHost)
	fmt.Fprintf(&buf, "# Language for generated messages (en, fr, de)\nlanguage: %s\n\n", DefaultLanguage)
	fmt.Fprintf(&buf, "# README file names, in lookup order\n# readme_files: [%s]\n\n",
		strings.Join(DefaultReadmeFiles, ", "))
	fmt.Fprintf(&buf, "# Directories searched for modules\n# module_paths: [%s]\n\n",
		strings.Join(DefaultModulePaths, ", "))
	buf.WriteString(`# Snippet embedding for @PHPFILE markers
# snippet:
#   root: ""
`)
	fmt.Fprintf(&buf, "#   padding: %d\n#   language: %s\n#   style: %s\n\n",
		DefaultSnippetPadding, DefaultSnippetLanguage, DefaultSnippetStyle)
	fmt.Fprintf(&buf, "# Help server\n# server:\n#   addr: %q\n#   shutdown_timeout: %s\n",
		DefaultServerAddr, DefaultShutdownTimeout)

	return buf.Bytes()
}

func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	if opts.Root != "" {
		cfg.Root = opts.Root
	}
	return cfg.ToYAMLWithHeader(templateHeader)
}
