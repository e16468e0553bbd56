// Package markdown converts the README dialect of Markdown into HTML through a
// fixed, ordered sequence of regular-expression rewrites.
//
// The dialect is deliberately small: unordered and ordered lists, quotes and
// citations, setext and ATX headings, horizontal rules, fenced and inline code,
// strong and emphasis, images and links. Backslash escapes of the significant
// characters are honoured. Nothing else is recognised; anything the rules do
// not rewrite passes through unchanged.
package markdown

import (
	"strconv"
	"strings"

	"github.com/shurcooL/sanitized_anchor_name"
)

// fallbackAnchor is used when a heading slug would be empty.
const fallbackAnchor = "anchor"

// Rule is one named rewrite stage. Apply must not retain the context.
type Rule struct {
	Name  string
	Apply func(rc *RenderContext, text string) string
}

// RenderContext carries per-document state through the rules.
type RenderContext struct {
	// Host is the scheme and authority prefixed to relative links and images.
	Host string

	// ContentPath is the README directory relative to the site root.
	ContentPath string

	anchors map[string]int
}

// NewRenderContext returns a context for rendering a single document.
func NewRenderContext(host, contentPath string) *RenderContext {
	return &RenderContext{
		Host:        host,
		ContentPath: contentPath,
		anchors:     make(map[string]int),
	}
}

// UniqueAnchor returns a slug for text that has not been handed out before in
// this document. Repeats get -1, -2, ... suffixes.
func (rc *RenderContext) UniqueAnchor(text string) string {
	id := sanitized_anchor_name.Create(Detokenize(text))
	if id == "" {
		id = fallbackAnchor
	}

	for count, found := rc.anchors[id]; found; count, found = rc.anchors[id] {
		candidate := id + "-" + strconv.Itoa(count+1)
		if _, taken := rc.anchors[candidate]; !taken {
			rc.anchors[id] = count + 1
			id = candidate
		} else {
			id += "-1"
		}
	}
	rc.anchors[id] = 0

	return id
}

// Filter runs the block and inline rules over a document.
type Filter struct {
	block  []Rule
	inline []Rule
}

// NewFilter returns a filter with the default rule order.
func NewFilter() *Filter {
	return &Filter{block: BlockRules(), inline: InlineRules()}
}

// Process converts README Markdown to HTML. The result is not sanitized.
func (f *Filter) Process(text string, rc *RenderContext) string {
	if rc == nil {
		rc = NewRenderContext("", "")
	}

	text = prepare(text)
	text = Tokenize(text)
	text = shieldCode(text)

	for _, rule := range f.block {
		text = rule.Apply(rc, text)
	}
	for _, rule := range f.inline {
		text = rule.Apply(rc, text)
	}

	return Detokenize(text)
}

// Process converts text with a fresh filter and context.
func Process(text, host, contentPath string) string {
	return NewFilter().Process(text, NewRenderContext(host, contentPath))
}

// RuleNames lists rule names in application order.
func RuleNames(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}

//nolint:gochecknoglobals // Read-only normalizer.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", "  ")

func prepare(text string) string {
	return lineEndings.Replace(text + "\n")
}
