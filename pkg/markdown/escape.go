package markdown

import (
	"regexp"
	"strings"
)

// tokenMark delimits escape tokens. The SUB control character does not occur
// in README text, so a token can never collide with document content.
const tokenMark = "\x1a"

// escapeToken pairs a significant character with the sentinel that hides it
// from the rewrite rules.
type escapeToken struct {
	char  string
	token string
}

//nolint:gochecknoglobals // Read-only token table.
var escapeTokens = []escapeToken{
	{"*", tokenMark + "ASTERISK" + tokenMark},
	{"_", tokenMark + "UNDERSCORE" + tokenMark},
	{"`", tokenMark + "BACKTICK" + tokenMark},
	{"#", tokenMark + "HASH" + tokenMark},
	{"-", tokenMark + "DASH" + tokenMark},
	{"(", tokenMark + "LEFTPAREN" + tokenMark},
	{")", tokenMark + "RIGHTPAREN" + tokenMark},
	{"[", tokenMark + "LEFTBRACKET" + tokenMark},
	{"]", tokenMark + "RIGHTBRACKET" + tokenMark},
	{" ", tokenMark + "SPACE" + tokenMark},
	{">", tokenMark + "GREATERTHAN" + tokenMark},
}

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	escapedPattern = regexp.MustCompile(`(?s)\\(.)`)
	tokenByChar    = buildTokenIndex()
	shieldReplacer = buildReplacer(false)
	revealReplacer = buildReplacer(true)
)

func buildTokenIndex() map[string]string {
	index := make(map[string]string, len(escapeTokens))
	for _, et := range escapeTokens {
		index[et.char] = et.token
	}
	return index
}

func buildReplacer(reveal bool) *strings.Replacer {
	pairs := make([]string, 0, 2*len(escapeTokens))
	for _, et := range escapeTokens {
		if reveal {
			pairs = append(pairs, et.token, et.char)
		} else {
			pairs = append(pairs, et.char, et.token)
		}
	}
	return strings.NewReplacer(pairs...)
}

// Tokenize replaces every backslash-escaped significant character with its
// sentinel token. A backslash before any other character is left in place.
func Tokenize(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	return escapedPattern.ReplaceAllStringFunc(text, func(pair string) string {
		if token, ok := tokenByChar[pair[1:]]; ok {
			return token
		}
		return pair
	})
}

// Detokenize turns every sentinel token back into its bare character.
func Detokenize(text string) string {
	if !strings.Contains(text, tokenMark) {
		return text
	}
	return revealReplacer.Replace(text)
}

// Shield replaces every significant character in text with its token, so no
// rewrite rule matches inside it.
func Shield(text string) string {
	return shieldReplacer.Replace(text)
}

// shieldCode hides the bodies of fenced blocks and inline code spans from the
// block and inline rules. Fence and backtick delimiters stay visible.
func shieldCode(text string) string {
	text = replaceAllSubmatchFunc(fencedPattern, text, func(groups []string) string {
		if groups[3] != "" {
			return "```" + Shield(groups[3]) + "```"
		}
		return "```" + groups[1] + "\n" + Shield(groups[2]) + "```"
	})
	return replaceAllSubmatchFunc(inlineCodePattern, text, func(groups []string) string {
		return "`" + Shield(groups[1]) + "`"
	})
}

// replaceAllSubmatchFunc is ReplaceAllStringFunc with access to the capture
// groups of each match. Unmatched groups are empty strings.
func replaceAllSubmatchFunc(re *regexp.Regexp, text string, repl func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, loc := range matches {
		b.WriteString(text[last:loc[0]])
		b.WriteString(repl(submatches(text, loc)))
		last = loc[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

func submatches(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}
