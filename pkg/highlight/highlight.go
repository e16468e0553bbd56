// Package highlight renders source files as per-line HTML with inline colour
// styles, using chroma lexers and styles.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdhelp/pkg/langdetect"
)

// Auto selects the lexer from the file name and content.
const Auto = "auto"

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Chroma highlights sources with a chroma lexer. It is safe for concurrent use.
type Chroma struct {
	language string
	style    *chroma.Style
}

// New returns a highlighter. An empty or "auto" language detects the lexer per
// file. Unknown styles fall back to chroma's default style.
func New(language, style string) *Chroma {
	if language == Auto {
		language = ""
	}
	if style == "" {
		style = DefaultStyle
	}
	return &Chroma{
		language: strings.ToLower(language),
		style:    styles.Get(style),
	}
}

// Highlight returns one HTML fragment per line of source. A trailing newline
// does not start an extra line.
func (c *Chroma) Highlight(name string, source []byte) ([]string, error) {
	lexer := c.lexer(name, source)

	iterator, err := lexer.Tokenise(nil, string(source))
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", name, err)
	}

	tokenLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	lines := make([]string, 0, len(tokenLines))
	for _, tokens := range tokenLines {
		lines = append(lines, c.renderLine(tokens))
	}

	return lines, nil
}

// Lexer returns the name of the lexer that would be used for a file.
func (c *Chroma) Lexer(name string, source []byte) string {
	return c.lexer(name, source).Config().Name
}

func (c *Chroma) lexer(name string, source []byte) chroma.Lexer {
	var lexer chroma.Lexer
	if c.language != "" {
		lexer = lexers.Get(c.language)
	}
	if lexer == nil {
		if lang := langdetect.DetectFile(name, source); lang != langdetect.LangText {
			lexer = lexers.Get(lang)
		}
	}
	if lexer == nil {
		lexer = lexers.Match(name)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func (c *Chroma) renderLine(tokens []chroma.Token) string {
	var b strings.Builder
	for _, token := range tokens {
		text := strings.TrimRight(token.Value, "\r\n")
		if text == "" {
			continue
		}
		escaped := string(util.EscapeHTML([]byte(text)))
		if css := c.inlineStyle(token.Type); css != "" {
			b.WriteString(`<span style="` + css + `">` + escaped + `</span>`)
		} else {
			b.WriteString(escaped)
		}
	}
	return b.String()
}

// inlineStyle converts a style entry to CSS declarations. Backgrounds are left
// to the surrounding table.
func (c *Chroma) inlineStyle(tokenType chroma.TokenType) string {
	entry := c.style.Get(tokenType)

	var decls []string
	if entry.Colour.IsSet() {
		decls = append(decls, "color:"+entry.Colour.String())
	}
	if entry.Bold == chroma.Yes {
		decls = append(decls, "font-weight:bold")
	}
	if entry.Italic == chroma.Yes {
		decls = append(decls, "font-style:italic")
	}
	if entry.Underline == chroma.Yes {
		decls = append(decls, "text-decoration:underline")
	}
	return strings.Join(decls, ";")
}
