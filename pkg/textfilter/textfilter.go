// Package textfilter holds the text filters applied between Markdown
// conversion and sanitization: paragraph wrapping and URL auto-linking.
package textfilter

import (
	"regexp"
	"strconv"
	"strings"

	"mvdan.cc/xurls/v2"
)

// TextFilter transforms an HTML fragment.
type TextFilter interface {
	Filter(text string) string
}

// Func adapts a plain function to TextFilter.
type Func func(text string) string

// Filter calls f(text).
func (f Func) Filter(text string) string {
	return f(text)
}

type chain []TextFilter

func (c chain) Filter(text string) string {
	for _, f := range c {
		text = f.Filter(text)
	}
	return text
}

// Chain composes filters, applied in the given order. Nil filters are skipped.
func Chain(filters ...TextFilter) TextFilter {
	c := make(chain, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			c = append(c, f)
		}
	}
	return c
}

// Default returns paragraph wrapping followed by auto-linking.
func Default() TextFilter {
	return Chain(Func(Paragraphs), Func(AutoLink))
}

const blockTags = `(?:table|thead|tbody|tfoot|tr|td|th|div|dl|dd|dt|ul|ol|li|pre|blockquote|cite|address|p|h[1-6]|hr|form|section|article|aside|nav|header|footer|figure)`

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	prePattern        = regexp.MustCompile(`(?is)<pre[\s>].*?</pre>`)
	preToken          = regexp.MustCompile("\x1aPRE([0-9]+)\x1a")
	containerOpen     = regexp.MustCompile(`(?i)(<(?:ul|ol|blockquote|cite|h[1-6]|hr|table|div|dl|section|article|p)[\s>/])`)
	containerClose    = regexp.MustCompile(`(?i)(</(?:ul|ol|blockquote|cite|h[1-6]|table|div|dl|section|article|p)>|<hr[^>]*>)`)
	blankLines        = regexp.MustCompile(`\n\s*\n`)
	blockStartPattern = regexp.MustCompile(`(?i)^(?:</?` + blockTags + `[\s>/]|\x1aPRE)`)
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	skipOpenPattern   = regexp.MustCompile(`(?i)^<(a|code|pre)[\s>]`)
	skipClosePattern  = regexp.MustCompile(`(?i)^</(a|code|pre)\s*>`)
	urlPattern        = xurls.Strict()
)

// Paragraphs wraps runs of text separated by blank lines in <p> elements and
// turns remaining single newlines into <br />. Runs that start with a block
// level tag are left alone, and <pre> content is never touched.
func Paragraphs(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var stash []string
	text = prePattern.ReplaceAllStringFunc(text, func(pre string) string {
		stash = append(stash, pre)
		return "\n\n\x1aPRE" + strconv.Itoa(len(stash)-1) + "\x1a\n\n"
	})

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = containerOpen.ReplaceAllString(text, "\n\n$1")
	text = containerClose.ReplaceAllString(text, "$1\n\n")

	var out []string
	for _, chunk := range blankLines.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		switch {
		case chunk == "":
			continue
		case blockStartPattern.MatchString(chunk):
			out = append(out, chunk)
		default:
			out = append(out, "<p>"+strings.ReplaceAll(chunk, "\n", "<br />\n")+"</p>")
		}
	}

	result := strings.Join(out, "\n")
	return preToken.ReplaceAllStringFunc(result, func(token string) string {
		n, err := strconv.Atoi(preToken.FindStringSubmatch(token)[1])
		if err != nil || n >= len(stash) {
			return token
		}
		return stash[n]
	})
}

// AutoLink turns bare URLs into links. Text inside tags and inside a, code
// and pre elements is left alone.
func AutoLink(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	depth := 0
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
		b.WriteString(linkSegment(text[last:loc[0]], depth))

		tag := text[loc[0]:loc[1]]
		switch {
		case skipOpenPattern.MatchString(tag) && !strings.HasSuffix(tag, "/>"):
			depth++
		case skipClosePattern.MatchString(tag) && depth > 0:
			depth--
		}
		b.WriteString(tag)
		last = loc[1]
	}
	b.WriteString(linkSegment(text[last:], depth))

	return b.String()
}

func linkSegment(segment string, depth int) string {
	if depth > 0 || segment == "" {
		return segment
	}
	return urlPattern.ReplaceAllStringFunc(segment, func(url string) string {
		return `<a href="` + url + `">` + url + `</a>`
	})
}
