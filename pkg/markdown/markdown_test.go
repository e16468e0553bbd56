package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdhelp/pkg/markdown"
)

const (
	testHost        = "https://example.com"
	testContentPath = "modules/contrib/m"
)

func TestTokenizeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "escaped asterisks lose backslash",
			input: `a \*b\* c`,
			want:  `a *b* c`,
		},
		{
			name:  "unescaped characters untouched",
			input: "* _ ` # - ( ) [ ] >",
			want:  "* _ ` # - ( ) [ ] >",
		},
		{
			name:  "backslash before ordinary character kept",
			input: `C:\path\to`,
			want:  `C:\path\to`,
		},
		{
			name:  "mixed escaped and bare",
			input: `\_x_ \[y] \# z #`,
			want:  `_x_ [y] # z #`,
		},
		{
			name:  "escaped space",
			input: `a\ b`,
			want:  `a b`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokenized := markdown.Tokenize(tt.input)
			assert.Equal(t, tt.want, markdown.Detokenize(tokenized))
		})
	}
}

func TestTokenizeHidesEscapedCharacters(t *testing.T) {
	t.Parallel()

	tokenized := markdown.Tokenize(`\*\_`)
	assert.NotContains(t, tokenized, "*")
	assert.NotContains(t, tokenized, "_")
	assert.NotContains(t, tokenized, `\`)
}

func TestShieldIsReversible(t *testing.T) {
	t.Parallel()

	input := "a *b* _c_ `d` # e - (f) [g] > h"
	shielded := markdown.Shield(input)

	for _, c := range []string{"*", "_", "`", "#", "-", "(", ")", "[", "]", " ", ">"} {
		assert.NotContains(t, shielded, c)
	}
	assert.Equal(t, input, markdown.Detokenize(shielded))
}

func TestRuleOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"unordered-list",
		"ordered-list",
		"quote",
		"setext-h1",
		"setext-h2",
		"atx-heading",
		"horizontal-rule",
	}, markdown.RuleNames(markdown.BlockRules()))

	assert.Equal(t, []string{
		"fenced-code",
		"inline-code",
		"strong-asterisk",
		"strong-underscore",
		"em-asterisk",
		"em-underscore",
		"image",
		"link",
	}, markdown.RuleNames(markdown.InlineRules()))
}

func TestLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unordered",
			input: "\n- a\n- b\n\n",
			want:  `<ul class="ul"><li>a</li><li>b</li></ul>`,
		},
		{
			name:  "ordered",
			input: "\n1. x\n2. y\n\n",
			want:  `<ol class="ol"><li>x</li><li>y</li></ol>`,
		},
		{
			name:  "ordered multi-digit",
			input: "\n9. x\n10. y\n\n",
			want:  `<ol class="ol"><li>x</li><li>y</li></ol>`,
		},
		{
			name:  "item text keeps inner dashes",
			input: "\n- a - b\n- c\n\n",
			want:  `<ul class="ul"><li>a - b</li><li>c</li></ul>`,
		},
		{
			name:  "adjacent lists both fold",
			input: "\n- a\n\n- b\n\n",
			want:  `<ul class="ul"><li>a</li></ul>` + "\n" + `<ul class="ul"><li>b</li></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.Process(tt.input, "", "")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	got := markdown.Process("Intro\n\n> Hello world\n> again\n\n>> Cited\n\n", "", "")

	assert.Contains(t, got,
		`<blockquote><a id="hello-world-again" href="#hello-world-again" class="anchor">&gt; </a>Hello world again</blockquote>`)
	assert.Contains(t, got,
		`<cite><a id="cited" href="#cited" class="anchor">&gt;&gt; </a>Cited</cite>`)
}

func TestQuoteAnchorIsTruncated(t *testing.T) {
	t.Parallel()

	got := markdown.Process("\n> one two three four five six seven eight\n\n", "", "")

	assert.Contains(t, got, `id="one-two-three-four-five-six"`)
	assert.Contains(t, got, "seven eight</blockquote>")
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "setext h1 at start",
			input: "Title\n=====\n\nBody",
			want:  `<h1><a id="title" href="#title" class="anchor"># </a>Title</h1>`,
		},
		{
			name:  "setext h2",
			input: "Intro\n\nUsage\n-----\n\nBody",
			want:  `<h2 class="h-2"><a id="usage" href="#usage" class="anchor"># </a>Usage</h2>`,
		},
		{
			name:  "atx h1 at start",
			input: "# My Module\n\ntext",
			want:  `<h1 class="h-1"><a id="my-module" href="#my-module" class="anchor">#</a> My Module</h1>`,
		},
		{
			name:  "atx h3",
			input: "text\n### Options\nmore",
			want:  `<h3 class="h-3"><a id="options" href="#options" class="anchor">#</a> Options</h3>`,
		},
		{
			name:  "atx h6",
			input: "text\n###### Deep\n",
			want:  `<h6 class="h-6"><a id="deep" href="#deep" class="anchor">#</a> Deep</h6>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, markdown.Process(tt.input, "", ""), tt.want)
		})
	}
}

func TestSingleHashOnlyAtStart(t *testing.T) {
	t.Parallel()

	got := markdown.Process("text\n# Not a heading\n", "", "")
	assert.NotContains(t, got, "<h1")
}

func TestHeadingAnchorsAreUnique(t *testing.T) {
	t.Parallel()

	got := markdown.Process("## Intro\n\ntext\n\n## Intro\n\n## Intro\n", "", "")

	assert.Contains(t, got, `id="intro"`)
	assert.Contains(t, got, `id="intro-1"`)
	assert.Contains(t, got, `id="intro-2"`)
}

func TestUniqueAnchorIsPerDocument(t *testing.T) {
	t.Parallel()

	first := markdown.NewRenderContext("", "")
	second := markdown.NewRenderContext("", "")

	assert.Equal(t, "setup", first.UniqueAnchor("Setup"))
	assert.Equal(t, "setup-1", first.UniqueAnchor("Setup"))
	assert.Equal(t, "setup", second.UniqueAnchor("Setup"))
	assert.Equal(t, "anchor", second.UniqueAnchor("!!!"))
}

func TestHorizontalRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dash", input: "a\n\n---\n\nb", want: `<hr class="hr-dash">`},
		{name: "asterisk", input: "a\n\n*****\n\nb", want: `<hr class="hr-asterisk">`},
		{name: "underscore", input: "a\n\n___\n\nb", want: `<hr class="hr-underscore">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, markdown.Process(tt.input, "", ""), tt.want)
		})
	}
}

func TestHorizontalRuleNeedsBlankLines(t *testing.T) {
	t.Parallel()

	got := markdown.Process("a\n\n***\nb\n", "", "")
	assert.NotContains(t, got, "<hr")
}

func TestHorizontalRuleAfterBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "list then rule",
			input: "Intro\n\n- a\n- b\n\n---\n\nafter",
			want:  `<ul class="ul"><li>a</li><li>b</li></ul>` + "\n" + `<hr class="hr-dash">`,
		},
		{
			name:  "ordered list then rule",
			input: "Intro\n\n1. a\n2. b\n\n___\n\nafter",
			want:  `</ol>` + "\n" + `<hr class="hr-underscore">`,
		},
		{
			name:  "quote then rule",
			input: "Intro\n\n> quoted\n\n***\n\nafter",
			want:  `</blockquote>` + "\n" + `<hr class="hr-asterisk">`,
		},
		{
			name:  "setext heading then rule",
			input: "Title\n=====\n\n---\n\nx",
			want:  `<hr class="hr-dash">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.Process(tt.input, "", "")
			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, "\n---\n")
			assert.NotContains(t, got, "\n***\n")
		})
	}
}

func TestHorizontalRuleAfterHeadingNeedsBlankLine(t *testing.T) {
	t.Parallel()

	got := markdown.Process("Intro\n\n## Section\n***\n\nafter", "", "")
	assert.NotContains(t, got, "<hr")
}

func TestBlocksAtStartOfText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unordered list",
			input: "- at start\n- two\n\nafter",
			want:  `<ul class="ul"><li>at start</li><li>two</li></ul>`,
		},
		{
			name:  "ordered list",
			input: "1. at start\n2. two\n\nafter",
			want:  `<ol class="ol"><li>at start</li><li>two</li></ol>`,
		},
		{
			name:  "quote",
			input: "> at start\n\nafter",
			want:  `<blockquote><a id="at-start" href="#at-start" class="anchor">&gt; </a>at start</blockquote>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.Process(tt.input, "", "")
			assert.Contains(t, got, tt.want)
			assert.True(t, strings.HasPrefix(got, "<"), "block not folded at start: %q", got)
		})
	}
}

func TestEmphasis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "double asterisk", input: "**bold**", want: "<strong>bold</strong>"},
		{name: "single asterisk", input: "*it*", want: "<em>it</em>"},
		{name: "double underscore", input: "a __bold__", want: "a <strong>bold</strong>"},
		{name: "single underscore", input: "a _it_", want: "a <em>it</em>"},
		{name: "underscore inside word untouched", input: "snake_case_name", want: "snake_case_name"},
		{name: "escaped asterisks stay literal", input: `\*not\*`, want: "*not*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, markdown.Process(tt.input, "", ""), tt.want)
		})
	}
}

func TestBoldIsNotSplitIntoItalics(t *testing.T) {
	t.Parallel()

	got := markdown.Process("**bold**", "", "")

	assert.Equal(t, 1, strings.Count(got, "<strong>bold</strong>"))
	assert.NotContains(t, got, "<em>")
}

func TestCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inline code",
			input: "Use `go test` now",
			want:  `Use <code class="code--singleline">go test</code> now`,
		},
		{
			name:  "inline code is not emphasized",
			input: "`*x* _y_`",
			want:  `<code class="code--singleline">*x* _y_</code>`,
		},
		{
			name:  "fenced block escapes html",
			input: "```php\n<?php echo 1;\n```\n",
			want:  `<pre><code class="code--multiline">&lt;?php echo 1;</code></pre>`,
		},
		{
			name:  "fenced block keeps markdown literal",
			input: "```\n- a\n# b\n**c**\n```\n",
			want:  "<pre><code class=\"code--multiline\">- a\n# b\n**c**</code></pre>",
		},
		{
			name:  "single line fence",
			input: "```x = 1```",
			want:  `<pre><code class="code--multiline">x = 1</code></pre>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, markdown.Process(tt.input, "", ""), tt.want)
		})
	}
}

func TestImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		contentPath string
		want        string
	}{
		{
			name:        "relative with title",
			input:       `![Alt](pic.png "T")`,
			contentPath: testContentPath,
			want:        `<img src="https://example.com/modules/contrib/m/pic.png" alt="Alt" title="T" class="markdown-image" />`,
		},
		{
			name:        "title defaults to alt",
			input:       `![Logo](img/logo.png)`,
			contentPath: testContentPath,
			want:        `<img src="https://example.com/modules/contrib/m/img/logo.png" alt="Logo" title="Logo" class="markdown-image" />`,
		},
		{
			name:        "query dropped from content path",
			input:       `![A](a.png)`,
			contentPath: "modules/x?page=2",
			want:        `src="https://example.com/modules/x/a.png"`,
		},
		{
			name:        "absolute url verbatim",
			input:       `![A](https://cdn.example.org/a.png 'Remote')`,
			contentPath: testContentPath,
			want:        `<img src="https://cdn.example.org/a.png" alt="A" title="Remote" class="markdown-image" />`,
		},
		{
			name:        "angle bracketed url",
			input:       `![A](<a.png>)`,
			contentPath: "",
			want:        `src="https://example.com/a.png"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.Process(tt.input, testHost, tt.contentPath)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "anchor mode from fragment url",
			input: `[admin/x](#admin-x "Title")`,
			want:  `<a href="https://example.com/admin/x" title="Title" class="markdown-link">Title</a>`,
		},
		{
			name:  "anchor mode from hash in text",
			input: `[admin/reports#top](#top)`,
			want:  `<a href="https://example.com/admin/reports#top" title="admin/reports#top" class="markdown-link">admin/reports#top</a>`,
		},
		{
			name:  "query stripped from text",
			input: `[admin/x?y=1](#admin-x "Title")`,
			want:  `href="https://example.com/admin/x"`,
		},
		{
			name:  "absolute url verbatim",
			input: `[Docs](https://docs.example.org/page "Read")`,
			want:  `<a href="https://docs.example.org/page" title="Read" class="markdown-link">Docs</a>`,
		},
		{
			name:  "relative url resolves against text",
			input: `[admin/config](config.html)`,
			want:  `<a href="https://example.com/admin/config" title="admin/config" class="markdown-link">admin/config</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.Process(tt.input, testHost, "")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFilterIsReusable(t *testing.T) {
	t.Parallel()

	filter := markdown.NewFilter()

	first := filter.Process("## Same\n", markdown.NewRenderContext("", ""))
	second := filter.Process("## Same\n", markdown.NewRenderContext("", ""))

	require.Equal(t, first, second)
	assert.Contains(t, second, `id="same"`)
}

func TestProcessNilContext(t *testing.T) {
	t.Parallel()

	got := markdown.NewFilter().Process("**x**", nil)
	assert.Contains(t, got, "<strong>x</strong>")
}
