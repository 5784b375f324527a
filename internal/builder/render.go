// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/verkaro/editml-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newExternalLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	// Project notes are typed into a table cell, so every newline counts.
	notesRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(newExternalLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

func init() {
	// UGCPolicy drops the target attribute set by the link transformer.
	htmlSanitizer.AddTargetBlankToFullyQualifiedLinks(true)
}

// processContent splits YAML front matter from a markdown body and renders
// the body to HTML.
func processContent(rawContent []byte, opts BuildOptions) (PageMeta, string, error) {
	meta := PageMeta{}

	// Step 1: Separate front matter from the markdown body.
	parts := bytes.SplitN(rawContent, []byte("---"), 3)
	var body string

	if len(parts) >= 3 && len(bytes.TrimSpace(parts[0])) == 0 {
		if err := yaml.Unmarshal(parts[1], &meta); err != nil {
			return PageMeta{}, "", fmt.Errorf("failed to parse front matter: %w", err)
		}
		body = string(parts[2])
	} else {
		body = string(rawContent)
	}

	// Step 2: Render the markdown body to HTML using Goldmark.
	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert([]byte(body), &htmlBuffer); err != nil {
		return meta, "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	// Step 3: Sanitize the final HTML unless the --unsafe flag is used.
	if !opts.Unsafe {
		return meta, string(htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
	}
	return meta, htmlBuffer.String(), nil
}

// RenderNotes turns a project's free-text block into HTML. Editorial markup
// is reduced to its clean view, markdown is rendered with line breaks kept,
// and the result is sanitized unless opts.Unsafe is set. Text that cannot
// be processed falls back to escaped text with <br> line breaks.
func RenderNotes(text string, opts BuildOptions) template.HTML {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	clean, err := cleanEditML(text)
	if err != nil {
		clean = text
	}
	var buf bytes.Buffer
	if err := notesRenderer.Convert([]byte(clean), &buf); err != nil {
		return plainNotes(text)
	}
	if opts.Unsafe {
		return template.HTML(buf.String())
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}

func plainNotes(text string) template.HTML {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br>\n"))
}

// cleanEditML resolves EditML annotations (additions, deletions, comments)
// to the text a reader should see.
func cleanEditML(raw string) (string, error) {
	nodes, parseIssues := editml.Parse(raw)
	if len(parseIssues) > 0 && parseIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml parsing error: %s", parseIssues[0].Message)
	}
	clean, transformIssues := editml.TransformCleanView(nodes)
	if len(transformIssues) > 0 && transformIssues[0].Severity == editml.SeverityError {
		return "", fmt.Errorf("editml transformation error: %s", transformIssues[0].Message)
	}
	return clean, nil
}
