package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/util"
)

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	fencedPattern     = regexp.MustCompile("(?s)```([^`\\n]*)\\n(.*?)```|```([^`\\n]+)```")
	inlineCodePattern = regexp.MustCompile("`([^`\\n]+)`")

	doubleAsteriskPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	doubleUnderscorePattern = regexp.MustCompile(`(\s)__([^_]+)__`)
	singleAsteriskPattern   = regexp.MustCompile(`\*([^*]+)\*`)
	singleUnderscorePattern = regexp.MustCompile(`(\s)_([^_]+)_`)

	imagePattern = regexp.MustCompile(
		`!\[((?:[^\[\]]|\[\])*)\]\s?\([ \n]*(?:<(\S*)>|((?:[^()\s]|\(\))*))[ \n]*(?:(?:"([^"]*)"|'([^']*)')[ \n]*)?\)`)
	linkPattern = regexp.MustCompile(
		`\[((?:[^\[\]]|\[\])*)\]\([ \n]*(?:<([^>]+)>|((?:[^()\s]|\(\))*))[ \n]*(?:(?:"([^"]*)"|'([^']*)')[ \n]*)?\)`)

	absoluteURLPattern = regexp.MustCompile(`^(?i:https?|ftp|mailto):`)
)

// InlineRules returns the inline rules in application order. The double
// delimiter rule of a character always runs before its single delimiter rule.
func InlineRules() []Rule {
	return []Rule{
		{Name: "fenced-code", Apply: fencedCode},
		{Name: "inline-code", Apply: inlineCode},
		{Name: "strong-asterisk", Apply: replaceWith(doubleAsteriskPattern, "<strong>${1}</strong>")},
		{Name: "strong-underscore", Apply: replaceWith(doubleUnderscorePattern, "${1}<strong>${2}</strong>")},
		{Name: "em-asterisk", Apply: replaceWith(singleAsteriskPattern, "<em>${1}</em>")},
		{Name: "em-underscore", Apply: replaceWith(singleUnderscorePattern, "${1}<em>${2}</em>")},
		{Name: "image", Apply: image},
		{Name: "link", Apply: link},
	}
}

func replaceWith(re *regexp.Regexp, template string) func(*RenderContext, string) string {
	return func(_ *RenderContext, text string) string {
		return re.ReplaceAllString(text, template)
	}
}

func fencedCode(_ *RenderContext, text string) string {
	return replaceAllSubmatchFunc(fencedPattern, text, func(groups []string) string {
		body := groups[3]
		if body == "" {
			body = strings.TrimSuffix(groups[2], "\n")
		}
		return `<pre><code class="code--multiline">` + escapeHTML(body) + `</code></pre>`
	})
}

func inlineCode(_ *RenderContext, text string) string {
	return replaceAllSubmatchFunc(inlineCodePattern, text, func(groups []string) string {
		return `<code class="code--singleline">` + escapeHTML(groups[1]) + `</code>`
	})
}

func image(rc *RenderContext, text string) string {
	base, _, _ := strings.Cut(rc.ContentPath, "?")

	return replaceAllSubmatchFunc(imagePattern, text, func(groups []string) string {
		alt := groups[1]
		url := firstNonEmpty(groups[2], groups[3])
		title := firstNonEmpty(groups[4], groups[5], alt)

		src := url
		if !absoluteURLPattern.MatchString(url) {
			src = joinURL(rc.Host, base, url)
		}

		return `<img src="` + escapeHTML(src) + `" alt="` + escapeHTML(alt) +
			`" title="` + escapeHTML(title) + `" class="markdown-image" />`
	})
}

// link renders Markdown links. When the text names a site path (it contains a
// # or the url is a bare fragment) the href is built from the text and the
// title becomes the visible label. Other relative links also resolve against
// the text rather than the url.
func link(rc *RenderContext, text string) string {
	return replaceAllSubmatchFunc(linkPattern, text, func(groups []string) string {
		label, _, _ := strings.Cut(groups[1], "?")
		url, _, _ := strings.Cut(firstNonEmpty(groups[2], groups[3]), "?")
		title := firstNonEmpty(groups[4], groups[5], label)

		href := url
		switch {
		case strings.Contains(label, "#") || strings.HasPrefix(url, "#"):
			href = joinURL(rc.Host, label)
			label = title
		case !absoluteURLPattern.MatchString(url):
			href = joinURL(rc.Host, label)
		}

		return `<a href="` + escapeHTML(href) + `" title="` + escapeHTML(title) +
			`" class="markdown-link">` + label + `</a>`
	})
}

// joinURL joins non-empty segments with single slashes.
func joinURL(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for i, segment := range segments {
		if i > 0 {
			segment = strings.TrimLeft(segment, "/")
		}
		if i < len(segments)-1 {
			segment = strings.TrimRight(segment, "/")
		}
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, "/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
