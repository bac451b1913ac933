package extract

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/Revicx/russian-anki/internal/errors"
)

// MarkdownExtractor extracts prose from a Markdown file, skipping code blocks
// and code spans so identifiers never pollute the vocabulary.
type MarkdownExtractor struct{}

// Extract parses the file and walks the AST, collecting text segments.
func (MarkdownExtractor) Extract(_ context.Context, path string) ([]Fragment, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}
	if !utf8.Valid(src) {
		return nil, errors.NewEncoding(path, nil)
	}
	if len(src) == 0 {
		return nil, nil
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gtext.NewReader(src))

	var b strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Image:
			// Alt text is rarely vocabulary; links keep their label text.
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			b.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []Fragment{{Source: path, Text: text}}, nil
}
