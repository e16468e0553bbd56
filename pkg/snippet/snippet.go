// Package snippet replaces @PHPFILE markers in rendered HTML with a
// line-numbered, highlighted excerpt of the referenced source file.
//
// A marker looks like
//
//	@PHPFILE: path/to/file.php LINE:123 PADD:10 :PHPFILE@
//
// LINE and PADD are optional and may appear in either order. Without LINE the
// whole file is shown. A relative path is resolved against the site root and,
// failing that, by its base name inside the README's directory.
package snippet

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
)

// DefaultPadding is the number of lines shown on each side of the target line.
const DefaultPadding = 10

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	markerPattern = regexp.MustCompile(`(?s)@PHPFILE:(.*?):PHPFILE@`)
	fieldPattern  = regexp.MustCompile(`(?:^|[\s:])(LINE|PADD)\s*:\s*([^\s:]*)`)
)

// Highlighter renders source as one HTML fragment per line.
type Highlighter interface {
	Highlight(name string, source []byte) ([]string, error)
}

// Ref is a parsed marker.
type Ref struct {
	Path string

	// Line is the 1-based target line, or 0 for the whole file.
	Line int

	Padding int
}

// Window is a 1-based inclusive range of lines.
type Window struct {
	Start int
	End   int
}

// ParseMarker parses the text between the marker delimiters. Missing,
// non-numeric or non-positive LINE and PADD values fall back to the defaults.
func ParseMarker(inner string, defaultPadding int) Ref {
	if defaultPadding <= 0 {
		defaultPadding = DefaultPadding
	}

	inner = html.UnescapeString(inner)
	ref := Ref{Padding: defaultPadding}

	pathEnd := len(inner)
	for _, loc := range fieldPattern.FindAllStringSubmatchIndex(inner, -1) {
		pathEnd = min(pathEnd, loc[0])

		value, err := strconv.Atoi(inner[loc[4]:loc[5]])
		if err != nil || value <= 0 {
			continue
		}
		switch inner[loc[2]:loc[3]] {
		case "LINE":
			ref.Line = value
		case "PADD":
			ref.Padding = value
		}
	}

	ref.Path = strings.TrimSpace(inner[:pathEnd])

	return ref
}

// Window returns the lines to show for a file of count lines.
func (r Ref) Window(count int) Window {
	if r.Line <= 0 {
		return Window{Start: 1, End: count}
	}
	padding := r.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	return Window{
		Start: max(1, r.Line-padding),
		End:   min(count, r.Line+padding),
	}
}

// Resolve maps a marker path to a file. Absolute paths are used as-is.
// Relative paths are tried under root, then by base name under
// root/contentPath.
func Resolve(root, contentPath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	candidate := filepath.Join(root, filepath.FromSlash(path))
	if fsutil.IsRegularFile(candidate) {
		return candidate
	}
	return filepath.Join(root, filepath.FromSlash(contentPath), filepath.Base(filepath.FromSlash(path)))
}

// SplitLines splits source into lines. One trailing newline does not start an
// extra line.
func SplitLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Embedder substitutes snippet markers. It is safe for concurrent use.
type Embedder struct {
	root        string
	padding     int
	highlighter Highlighter
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithHighlighter sets the highlighter. Without one, lines are shown as
// escaped plain text.
func WithHighlighter(h Highlighter) Option {
	return func(e *Embedder) {
		e.highlighter = h
	}
}

// WithPadding sets the default padding.
func WithPadding(padding int) Option {
	return func(e *Embedder) {
		if padding > 0 {
			e.padding = padding
		}
	}
}

// New returns an embedder resolving relative snippet paths against root.
func New(root string, opts ...Option) *Embedder {
	e := &Embedder{root: root, padding: DefaultPadding}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Substitute replaces every marker in text. contentPath is the README
// directory relative to the root.
func (e *Embedder) Substitute(ctx context.Context, text, contentPath string) string {
	if !strings.Contains(text, "@PHPFILE:") {
		return text
	}
	return markerPattern.ReplaceAllStringFunc(text, func(marker string) string {
		inner := marker[len("@PHPFILE:") : len(marker)-len(":PHPFILE@")]
		return e.Render(ctx, ParseMarker(inner, e.padding), contentPath)
	})
}

// Render produces the snippet table for ref, or an inline error marker when
// the file cannot be read or has no line ref.Line.
func (e *Embedder) Render(ctx context.Context, ref Ref, contentPath string) string {
	logger := logging.FromContext(ctx)

	if ref.Path == "" {
		logger.Warn("snippet marker without path")
		return errorMarker(ref)
	}

	path := Resolve(e.root, contentPath, ref.Path)
	source, _, err := fsutil.ReadFile(ctx, path)
	if err != nil || len(source) == 0 {
		logger.Warn("snippet source unreadable",
			logging.FieldPath, path,
			logging.FieldError, err,
		)
		return errorMarker(ref)
	}

	lines := SplitLines(source)
	if ref.Line > len(lines) {
		logger.Warn("snippet line past end of file",
			logging.FieldPath, path,
			logging.FieldLines, len(lines),
		)
		return errorMarker(ref)
	}
	return renderTable(e.highlight(ctx, path, source, lines), ref.Window(len(lines)), ref.Line)
}

// highlight returns highlighted lines, or escaped plain lines when the
// highlighter fails or disagrees about the line count.
func (e *Embedder) highlight(ctx context.Context, path string, source []byte, plain []string) []string {
	if e.highlighter != nil {
		highlighted, err := e.highlighter.Highlight(path, source)
		if err == nil && len(highlighted) >= len(plain) {
			return highlighted
		}
		logging.FromContext(ctx).Warn("highlighting failed, showing plain source",
			logging.FieldPath, path,
			logging.FieldError, err,
			logging.FieldLines, len(plain),
		)
	}

	escaped := make([]string, len(plain))
	for i, line := range plain {
		escaped[i] = html.EscapeString(line)
	}
	return escaped
}

func renderTable(lines []string, window Window, target int) string {
	var numbers, code []string
	for n := window.Start; n <= window.End && n <= len(lines); n++ {
		line := lines[n-1]
		if line == "" {
			line = "<span></span>"
		}
		if n == target {
			line = `<strong style="background-color:yellow">` + line + `</strong>`
		}
		numbers = append(numbers, `<span class="line-number">`+strconv.Itoa(n)+`</span>`)
		code = append(code, line)
	}

	return `<table class="highlighted-snippet"><tr><td>` + strings.Join(numbers, "<br>") +
		`</td><td>` + strings.Join(code, "<br>") + `</td></tr></table>`
}

func errorMarker(ref Ref) string {
	return `<span class="readme-error">CAN'T BE READ:</span> ` + html.EscapeString(ref.Path) +
		" LINE: " + strconv.Itoa(ref.Line) + " PADD: " + strconv.Itoa(ref.Padding)
}
