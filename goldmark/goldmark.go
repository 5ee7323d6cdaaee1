// Package goldmark renders generated articles to ANSI-styled terminal output
// and summarizes their structure, using goldmark for parsing and lipgloss
// for styling.
package goldmark

import (
	"strings"
	"unicode"

	"github.com/fwojciec/scribe"
	"github.com/rivo/uniseg"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// are rendered without reflow. Tables are fitted to width by truncating
// cells.
func Render(source string, width int, theme scribe.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

// Heading is one section heading of an article.
type Heading struct {
	Level int
	Text  string
}

// Summary describes the shape of an article.
type Summary struct {
	Title    string // text of the first level-one heading
	Headings []Heading
	Words    int // prose words, excluding code blocks
}

// Summarize parses markdown source and reports its title, outline and
// word count.
func Summarize(source string) Summary {
	src := []byte(source)
	doc := parse(src)

	var s Summary
	var prose strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			h := Heading{Level: n.Level, Text: plainInline(n, src)}
			if h.Level == 1 && s.Title == "" {
				s.Title = h.Text
			}
			s.Headings = append(s.Headings, h)
		case *ast.Text:
			prose.Write(n.Segment.Value(src))
			prose.WriteByte(' ')
		case *ast.String:
			prose.Write(n.Value)
			prose.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	s.Words = countWords(prose.String())
	return s
}

func parse(source []byte) ast.Node {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return md.Parser().Parse(text.NewReader(source))
}

// countWords counts Unicode word segments that contain a letter or digit.
func countWords(s string) int {
	n := 0
	state := -1
	var word string
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		if strings.IndexFunc(word, isWordRune) >= 0 {
			n++
		}
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
