// Package readme converts module README files into sanitized help pages.
//
// A Converter runs the Markdown rules, the text filters, HTML normalization
// and allow-list filtering, then substitutes @PHPFILE snippets. It holds no
// mutable state and is safe for concurrent use.
package readme

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shurcooL/sanitized_anchor_name"
	"golang.org/x/net/html"
	"golang.org/x/text/message/catalog"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/config"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
	"github.com/yaklabco/gomdhelp/pkg/highlight"
	"github.com/yaklabco/gomdhelp/pkg/markdown"
	"github.com/yaklabco/gomdhelp/pkg/sanitize"
	"github.com/yaklabco/gomdhelp/pkg/snippet"
	"github.com/yaklabco/gomdhelp/pkg/textfilter"
)

// ErrUnknownModule is returned when a module name cannot be resolved.
var ErrUnknownModule = errors.New("unknown module")

const fallbackClass = "document"

// ModuleResolver maps a module name to its absolute directory and its
// directory relative to the root.
type ModuleResolver interface {
	Locate(name string) (dir, contentPath string, ok bool)
}

// RenderOptions are the per-call settings of ConvertText.
type RenderOptions struct {
	Language string

	// Host prefixes generated URLs. Empty means the configured host.
	Host string

	// ContentPath is the README directory relative to the root.
	ContentPath string
}

// Request names the README to render.
type Request struct {
	Module string

	// File optionally overrides the lookup: a file renders only that file,
	// a directory is searched with the default names. Relative paths are
	// taken relative to the root.
	File string

	Host     string
	Language string
}

// Page is a rendered README.
type Page struct {
	Module      string
	FileName    string
	Dir         string
	ContentPath string
	Markup      string

	// NotFound is set when no README variant had content; Markup then
	// holds the localized message.
	NotFound bool

	ModTime time.Time
}

// Converter turns README text into sanitized HTML.
type Converter struct {
	root        string
	host        string
	language    string
	readmeFiles []string
	helpHref    string

	markdown    *markdown.Filter
	textFilter  textfilter.TextFilter
	sanitizer   *sanitize.Sanitizer
	highlighter snippet.Highlighter
	embedder    *snippet.Embedder
	resolver    ModuleResolver
	catalog     catalog.Catalog
	logger      *log.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithTextFilter replaces the default paragraph and auto-link filters.
func WithTextFilter(tf textfilter.TextFilter) Option {
	return func(c *Converter) {
		c.textFilter = tf
	}
}

// WithHighlighter replaces the chroma highlighter. A nil highlighter shows
// snippets as escaped plain text.
func WithHighlighter(h snippet.Highlighter) Option {
	return func(c *Converter) {
		c.highlighter = h
	}
}

// WithResolver sets the module resolver used by ConvertFile.
func WithResolver(r ModuleResolver) Option {
	return func(c *Converter) {
		c.resolver = r
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *log.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithCatalog replaces the message catalog for localized output.
func WithCatalog(cat catalog.Catalog) Option {
	return func(c *Converter) {
		c.catalog = cat
	}
}

// WithHelpHref sets the link target of the not-found message.
func WithHelpHref(href string) Option {
	return func(c *Converter) {
		c.helpHref = href
	}
}

// NewConverter builds the pipeline from cfg. A nil cfg uses defaults.
func NewConverter(cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	c := &Converter{
		root:        cfg.Root,
		host:        cfg.Host,
		language:    cfg.Language,
		readmeFiles: slices.Clone(cfg.ReadmeFiles),
		helpHref:    DefaultHelpHref,
		markdown:    markdown.NewFilter(),
		textFilter:  textfilter.Default(),
		sanitizer:   sanitize.New(cfg.AllowedTags),
		highlighter: highlight.New(cfg.Snippet.Language, cfg.Snippet.Style),
		catalog:     newCatalog(),
	}
	if len(c.readmeFiles) == 0 {
		c.readmeFiles = slices.Clone(config.DefaultReadmeFiles)
	}
	if abs, err := filepath.Abs(c.root); err == nil {
		c.root = abs
	}

	for _, opt := range opts {
		opt(c)
	}

	c.embedder = snippet.New(cfg.SnippetRoot(),
		snippet.WithPadding(cfg.Snippet.Padding),
		snippet.WithHighlighter(c.highlighter),
	)

	return c
}

// ReadmeFiles returns the README names in lookup order.
func (c *Converter) ReadmeFiles() []string {
	return slices.Clone(c.readmeFiles)
}

func (c *Converter) context(ctx context.Context) context.Context {
	return logging.EnsureLogger(ctx, c.logger)
}

// ConvertText converts Markdown text into a sanitized HTML fragment.
// Snippet markers are left in place.
func (c *Converter) ConvertText(ctx context.Context, text string, opts RenderOptions) string {
	ctx = c.context(ctx)
	logger := logging.FromContext(ctx)

	host := opts.Host
	if host == "" {
		host = c.host
	}

	rc := markdown.NewRenderContext(host, opts.ContentPath)
	out := c.markdown.Process(text, rc)
	logger.Debug("markdown rules applied", logging.FieldBytes, len(out))

	if c.textFilter != nil {
		out = c.textFilter.Filter(out)
	}

	normalized, err := sanitize.Normalize(out)
	if err != nil {
		logger.Warn("html normalization failed", logging.FieldError, err)
	} else {
		out = normalized
	}

	if strings.TrimSpace(out) == "" {
		return ""
	}
	return c.sanitizer.Filter(out)
}

// ConvertFile renders a module README. A missing or empty README yields a
// Page with NotFound set, not an error. Errors are returned for unknown
// modules and cancelled contexts.
func (c *Converter) ConvertFile(ctx context.Context, req Request) (*Page, error) {
	ctx = c.context(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("convert %s: %w", req.Module, err)
	}
	logger := logging.FromContext(ctx).With(logging.FieldModule, req.Module)

	dir, contentPath, files, err := c.locate(req)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Module:      req.Module,
		Dir:         dir,
		ContentPath: contentPath,
	}

	source, info, name, err := fsutil.ReadFirst(ctx, dir, files)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("convert %s: %w", req.Module, ctxErr)
		}
		logger.Debug("readme not found", logging.FieldDir, dir, logging.FieldError, err)
		page.NotFound = true
		page.Markup = c.notFound(req.Language, files, dir, contentPath)
		return page, nil
	}

	page.FileName = name
	page.ModTime = info.ModTime
	logger.Debug("readme read", logging.FieldFile, info.Path, logging.FieldBytes, len(source))

	body := c.ConvertText(ctx, string(source), RenderOptions{
		Language:    req.Language,
		Host:        req.Host,
		ContentPath: contentPath,
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("convert %s: %w", req.Module, err)
	}
	body = c.embedder.Substitute(ctx, body, contentPath)

	page.Markup = `<h3 class="readme-heading">` + html.EscapeString(name) + `</h3>` +
		`<article class="markdown-body ` + ModuleClass(req.Module) + `-readme">` + body + `</article>`

	return page, nil
}

// locate resolves the directory to search, its root-relative path and the
// file names to try.
func (c *Converter) locate(req Request) (string, string, []string, error) {
	if req.File != "" {
		path := req.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.root, filepath.FromSlash(path))
		}
		switch {
		case fsutil.IsRegularFile(path):
			dir := filepath.Dir(path)
			return dir, c.relative(dir), []string{filepath.Base(path)}, nil
		case fsutil.IsDir(path):
			return path, c.relative(path), c.readmeFiles, nil
		}
	}

	if c.resolver == nil {
		return "", "", nil, fmt.Errorf("%w: %s", ErrUnknownModule, req.Module)
	}
	dir, contentPath, ok := c.resolver.Locate(req.Module)
	if !ok {
		return "", "", nil, fmt.Errorf("%w: %s", ErrUnknownModule, req.Module)
	}
	return dir, strings.Trim(contentPath, "/"), c.readmeFiles, nil
}

// relative returns dir relative to the root, or dir itself when it lies
// outside the root.
func (c *Converter) relative(dir string) string {
	rel, err := filepath.Rel(c.root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return strings.Trim(filepath.ToSlash(dir), "/")
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (c *Converter) notFound(lang string, files []string, dir, contentPath string) string {
	if lang == "" {
		lang = c.language
	}
	shown := contentPath
	if shown == "" {
		shown = dir
	}
	return c.printer(lang).Sprintf(msgNotFound,
		html.EscapeString(strings.Join(files, ", ")),
		html.EscapeString(shown),
		html.EscapeString(c.helpHref),
	)
}

// ModuleClass returns the CSS-safe form of a module name.
func ModuleClass(name string) string {
	class := sanitized_anchor_name.Create(name)
	if class == "" {
		return fallbackClass
	}
	return class
}
