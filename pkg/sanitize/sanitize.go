// Package sanitize normalizes rendered HTML fragments and filters them
// against an allow-list of tags and attributes.
package sanitize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultAllowedTags is the tag set README output is filtered against.
//
//nolint:gochecknoglobals // Read-only default list.
var DefaultAllowedTags = []string{
	"a", "em", "strong", "cite", "blockquote", "code", "ul", "ol", "li",
	"dl", "dt", "dd", "img", "h1", "h2", "h3", "h4", "h5", "h6", "p", "pre",
	"hr", "table", "tr", "td", "div", "span", "br",
}

// allowedAttributes may appear on any allowed tag. Style and event handler
// attributes are never allowed.
//
//nolint:gochecknoglobals // Read-only lookup table.
var allowedAttributes = []string{
	"href", "src", "alt", "title", "id", "class", "name", "start", "type",
	"cite", "lang", "dir", "colspan", "rowspan", "width", "height", "align",
	"hreflang",
}

//nolint:gochecknoglobals // Read-only lookup table.
var allowedSchemes = []string{"http", "https", "mailto", "ftp"}

// Sanitizer filters HTML through a fixed allow-list policy.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
	tags   []string
}

// New builds a sanitizer for the given tags. An empty list selects
// DefaultAllowedTags.
func New(allowedTags []string) *Sanitizer {
	tags := make([]string, 0, len(allowedTags))
	for _, tag := range allowedTags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, DefaultAllowedTags...)
	}

	policy := bluemonday.NewPolicy()
	policy.AllowElements(tags...)
	policy.AllowAttrs(allowedAttributes...).Globally()
	policy.AllowURLSchemes(allowedSchemes...)
	policy.AllowRelativeURLs(true)
	policy.RequireParseableURLs(true)

	return &Sanitizer{policy: policy, tags: tags}
}

// AllowedTags returns a copy of the tags this sanitizer keeps.
func (s *Sanitizer) AllowedTags() []string {
	return append([]string(nil), s.tags...)
}

// Filter strips every tag outside the allow-list and every attribute outside
// the fixed attribute set. Text content of stripped tags is kept, except for
// script and style bodies. Filter is idempotent.
func (s *Sanitizer) Filter(fragment string) string {
	return s.policy.Sanitize(fragment)
}

// Normalize parses fragment as the content of a body element and renders it
// back. Unclosed tags are closed, void elements are written in one form and
// stray angle brackets are escaped.
func Normalize(fragment string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}

	return buf.String(), nil
}
