// Package langdetect picks a highlighter language for embedded source files.
// It combines file name hints with go-enry's shebang, extension and
// classifier strategies, plus a few content patterns that are cheap and
// highly indicative.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by this package. They match chroma lexer aliases.
const (
	LangText = "text"

	langPHP        = "php"
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langBash       = "bash"
	langTwig       = "twig"
)

// phpExtensions are PHP source files whose extensions go-enry does not
// attribute to PHP with certainty.
//
//nolint:gochecknoglobals // Read-only lookup table.
var phpExtensions = map[string]bool{
	".module":  true,
	".install": true,
	".inc":     true,
	".theme":   true,
	".profile": true,
	".engine":  true,
	".test":    true,
}

// classifierCandidates limits the classifier to languages README snippets
// realistically contain.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"PHP", "JavaScript", "TypeScript", "Go", "Python", "Shell", "YAML",
	"JSON", "HTML", "CSS", "SQL", "Twig", "Ruby", "Java", "C", "C++",
}

// DetectFile returns the language of a source file given its name and
// content. It returns LangText when nothing matches with confidence.
func DetectFile(name string, content []byte) string {
	base := filepath.Base(name)

	if phpExtensions[strings.ToLower(filepath.Ext(base))] {
		return langPHP
	}
	if strings.HasSuffix(strings.ToLower(base), ".html.twig") {
		return langTwig
	}
	if lang, safe := enry.GetLanguageByFilename(base); safe && lang != "" {
		return normalize(lang)
	}
	if lang, safe := enry.GetLanguageByExtension(base); safe && lang != "" {
		return normalize(lang)
	}

	return Detect(content)
}

// Detect returns the language of content without a file name.
// It returns LangText if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe && lang != "" {
		return normalize(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// patternDetector recognises one language from content.
type patternDetector struct {
	lang  string
	match func(content, trimmed []byte) bool
}

// patternDetectors run in order of specificity.
//
//nolint:gochecknoglobals // Read-only detector table.
var patternDetectors = []patternDetector{
	{langPHP, isPHP},
	{langGo, isGo},
	{langHTML, isHTML},
	{langPython, isPython},
	{langJSON, isJSON},
	{langYAML, isYAML},
	{langJavaScript, isJavaScript},
}

func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	for _, d := range patternDetectors {
		if d.match(content, trimmed) {
			return d.lang
		}
	}
	return ""
}

func isPHP(_, trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("<?php")) || bytes.Contains(trimmed, []byte("\n<?php"))
}

func isGo(_, trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("package ")) && bytes.Contains(trimmed, []byte("func "))
}

func isHTML(_, trimmed []byte) bool {
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<body>"))
}

func isPython(content, _ []byte) bool {
	s := string(content)
	if strings.Contains(s, "__name__") {
		return true
	}
	return strings.Contains(s, "def ") && strings.Contains(s, "):")
}

func isJSON(_, trimmed []byte) bool {
	return (bytes.HasPrefix(trimmed, []byte("{")) && bytes.HasSuffix(trimmed, []byte("}")) ||
		bytes.HasPrefix(trimmed, []byte("[")) && bytes.HasSuffix(trimmed, []byte("]"))) &&
		bytes.Contains(trimmed, []byte(`":`))
}

// isYAML counts key: value lines; two or more that do not look like code
// are taken as YAML.
func isYAML(content, _ []byte) bool {
	keys := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "(){};") {
			keys++
		}
	}
	return keys >= 2
}

func isJavaScript(content, _ []byte) bool {
	s := string(content)
	return strings.Contains(s, "=>") ||
		strings.Contains(s, "console.log") ||
		strings.Contains(s, "function(") ||
		strings.Contains(s, "Drupal.behaviors")
}

// normalize converts go-enry language names to chroma aliases.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "Hack":
		return langPHP
	default:
		return strings.ToLower(lang)
	}
}
