package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// quoteAnchorLength bounds the text a quote anchor slug is built from.
const quoteAnchorLength = 32

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	unorderedListPattern = regexp.MustCompile(`(?s)\n- .*?\n\n`)
	unorderedItemMarker  = regexp.MustCompile(`(?:^|\n)- `)
	orderedListPattern   = regexp.MustCompile(`(?s)\n\d+\. .*?\n\n`)
	orderedItemMarker    = regexp.MustCompile(`(?:^|\n)\d+\. `)
	quotePattern         = regexp.MustCompile(`(?s)\n(>>?) (\w.*?)\n\n`)
	quoteLineMarker      = regexp.MustCompile(`\n>>? `)
	setextH1Pattern      = regexp.MustCompile(`\A(\w[^\n]*)\n=+[ \t]*\n`)
	setextH2Pattern      = regexp.MustCompile(`\n(\w[^\n]*)\n-+[ \t]*\n`)
	atxH1Pattern         = regexp.MustCompile(`\A#[ \t]+(\w[^\n]*)`)
	atxPatterns          = buildATXPatterns()
	blockEndPattern      = regexp.MustCompile(`</(?:ul|ol|blockquote|cite)>[ \t]*$`)
)

// buildATXPatterns returns the patterns for heading levels 2 through 6,
// indexed by level.
func buildATXPatterns() map[int]*regexp.Regexp {
	patterns := make(map[int]*regexp.Regexp, 5)
	for level := 2; level <= 6; level++ {
		patterns[level] = regexp.MustCompile(`(\A|\n)#{` + strconv.Itoa(level) + `}[ \t]+(\w[^\n]*)`)
	}
	return patterns
}

// BlockRules returns the block-level rules in application order.
func BlockRules() []Rule {
	return []Rule{
		{Name: "unordered-list", Apply: unorderedList},
		{Name: "ordered-list", Apply: orderedList},
		{Name: "quote", Apply: quote},
		{Name: "setext-h1", Apply: setextH1},
		{Name: "setext-h2", Apply: setextH2},
		{Name: "atx-heading", Apply: atxHeadings},
		{Name: "horizontal-rule", Apply: horizontalRule},
	}
}

func unorderedList(_ *RenderContext, text string) string {
	return fromLineStart(text, func(text string) string {
		return replaceChained(unorderedListPattern, text, func(groups []string) string {
			return foldList("ul", unorderedItemMarker, groups[0])
		})
	})
}

func orderedList(_ *RenderContext, text string) string {
	return fromLineStart(text, func(text string) string {
		return replaceChained(orderedListPattern, text, func(groups []string) string {
			return foldList("ol", orderedItemMarker, groups[0])
		})
	})
}

// fromLineStart runs a newline-anchored block rule so that a block on the
// first line of text also matches.
func fromLineStart(text string, rule func(string) string) string {
	return strings.TrimPrefix(rule("\n"+text), "\n")
}

// foldList turns a blank-line terminated run of marker lines into a list.
func foldList(tag string, marker *regexp.Regexp, block string) string {
	body := strings.TrimPrefix(strings.TrimSuffix(block, "\n\n"), "\n")

	var b strings.Builder
	b.WriteString("\n<" + tag + ` class="` + tag + `">`)
	for _, item := range marker.Split(body, -1) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("<li>" + item + "</li>")
	}
	b.WriteString("</" + tag + ">\n")

	return b.String()
}

func quote(rc *RenderContext, text string) string {
	return fromLineStart(text, func(text string) string {
		return quoteBlocks(rc, text)
	})
}

func quoteBlocks(rc *RenderContext, text string) string {
	return replaceChained(quotePattern, text, func(groups []string) string {
		content := quoteLineMarker.ReplaceAllString(groups[2], " ")

		tag, sign := "blockquote", "&gt; "
		if groups[1] == ">>" {
			tag, sign = "cite", "&gt;&gt; "
		}

		id := rc.UniqueAnchor(truncateWords(content, quoteAnchorLength))

		return "\n<" + tag + ">" + selfAnchor(id, sign) + content + "</" + tag + ">\n"
	})
}

func setextH1(rc *RenderContext, text string) string {
	return replaceAllSubmatchFunc(setextH1Pattern, text, func(groups []string) string {
		heading := strings.TrimRight(groups[1], " ")
		id := rc.UniqueAnchor(heading)
		return "<h1>" + selfAnchor(id, "# ") + heading + "</h1>\n"
	})
}

func setextH2(rc *RenderContext, text string) string {
	return replaceChained(setextH2Pattern, text, func(groups []string) string {
		heading := strings.TrimRight(groups[1], " ")
		id := rc.UniqueAnchor(heading)
		return "\n<h2 class=\"h-2\">" + selfAnchor(id, "# ") + heading + "</h2>\n"
	})
}

func atxHeadings(rc *RenderContext, text string) string {
	text = replaceAllSubmatchFunc(atxH1Pattern, text, func(groups []string) string {
		return atxHeading(rc, 1, groups[1])
	})
	for level := 2; level <= 6; level++ {
		text = replaceAllSubmatchFunc(atxPatterns[level], text, func(groups []string) string {
			return groups[1] + atxHeading(rc, level, groups[2])
		})
	}
	return text
}

func atxHeading(rc *RenderContext, level int, heading string) string {
	heading = strings.TrimRight(heading, " ")
	id := rc.UniqueAnchor(heading)
	n := strconv.Itoa(level)
	return "<h" + n + ` class="h-` + n + `">` + selfAnchor(id, "#") + " " + heading + "</h" + n + ">"
}

// horizontalRule replaces lines made of three or more identical -, * or _
// characters that sit between blank lines or at the buffer edge. A rule right
// after a converted list or quote counts as following a blank line, since
// those rules consume the blank line ending their block.
func horizontalRule(_ *RenderContext, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		class := ruleClass(strings.TrimRight(line, " "))
		if class == "" {
			continue
		}
		if i > 0 && strings.TrimSpace(lines[i-1]) != "" && !blockEndPattern.MatchString(lines[i-1]) {
			continue
		}
		if i < len(lines)-1 && strings.TrimSpace(lines[i+1]) != "" {
			continue
		}
		lines[i] = `<hr class="hr-` + class + `">`
	}
	return strings.Join(lines, "\n")
}

func ruleClass(line string) string {
	if len(line) < 3 {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] != line[0] {
			return ""
		}
	}
	switch line[0] {
	case '-':
		return "dash"
	case '*':
		return "asterisk"
	case '_':
		return "underscore"
	default:
		return ""
	}
}

func selfAnchor(id, sign string) string {
	return `<a id="` + id + `" href="#` + id + `" class="anchor">` + sign + `</a>`
}

// truncateWords shortens s to at most limit runes, cutting at the last space
// when there is one.
func truncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit]
	cut := string(runes)
	if idx := strings.LastIndexAny(cut, " \n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// replaceChained replaces successive matches of re, resuming the scan at the
// trailing newline of each replacement so adjacent blocks both match.
func replaceChained(re *regexp.Regexp, text string, repl func(groups []string) string) string {
	start := 0
	for start < len(text) {
		loc := re.FindStringSubmatchIndex(text[start:])
		if loc == nil {
			break
		}
		out := repl(submatches(text[start:], loc))
		matchStart, matchEnd := start+loc[0], start+loc[1]
		text = text[:matchStart] + out + text[matchEnd:]

		next := matchStart + len(out)
		if strings.HasSuffix(out, "\n") {
			next--
		}
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return text
}
