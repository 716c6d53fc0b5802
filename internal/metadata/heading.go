package metadata

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// firstHeading returns the plain text of the first level-1 heading in body,
// or "" when there is none.
func firstHeading(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}

	doc := markdown.Parser().Parse(text.NewReader(body))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level != 1 {
			return ast.WalkSkipChildren, nil
		}
		title = strings.TrimSpace(inlineText(h, body))
		return ast.WalkStop, nil
	})
	return title
}

// inlineText concatenates the text segments under n, dropping markup.
func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(inlineText(c, source))
		}
	}
	return sb.String()
}
