package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// extractMarkdown parses markdown and returns its plain text content:
// headings, paragraphs, list items, and code blocks, with the markup
// stripped. Block boundaries become newlines so downstream chunking can
// split on them.
func extractMarkdown(data []byte) (string, error) {
	doc := markdownParser.Parser().Parse(text.NewReader(data))

	var builder strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			ensureNewline(&builder)
		case *ast.Text:
			builder.Write(node.Segment.Value(data))
		case *ast.String:
			builder.Write(node.Value)
		case *ast.CodeBlock:
			writeCodeLines(&builder, node.Lines(), data)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeCodeLines(&builder, node.Lines(), data)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return builder.String(), nil
}

func ensureNewline(builder *strings.Builder) {
	if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
		builder.WriteString("\n")
	}
}

func writeCodeLines(builder *strings.Builder, lines *text.Segments, data []byte) {
	ensureNewline(builder)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(data))
	}
}
