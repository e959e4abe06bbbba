// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post Markdown source into HTML using goldmark,
// and derives plain-text excerpts for feeds and SEO descriptions.
// Unsafe HTML pass-through is enabled so posts written as raw HTML before
// the Markdown editor render correctly.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // Auto-generate heading IDs for anchors
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // Allow raw HTML blocks for backward compat with existing HTML content
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// Markdown is passed through unchanged (WithUnsafe).
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// tagPattern matches HTML tags for removal when deriving plain text.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// whitespacePattern collapses runs of whitespace left behind by removed
// block tags.
var whitespacePattern = regexp.MustCompile(`\s+`)

// PlainText renders Markdown source and strips every HTML tag, returning
// whitespace-normalized plain text. When rendering fails, the tags are
// stripped from the raw source instead so the caller still gets text.
func PlainText(source string) string {
	rendered, err := ToHTML(source)
	if err != nil {
		rendered = source
	}
	text := tagPattern.ReplaceAllString(rendered, " ")
	text = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#34;", `"`,
		"&#39;", "'",
		"&rsquo;", "'",
		"&lsquo;", "'",
		"&ldquo;", `"`,
		"&rdquo;", `"`,
		"&nbsp;", " ",
	).Replace(text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Excerpt returns the plain text of source truncated to at most limit
// runes. No ellipsis is appended.
func Excerpt(source string, limit int) string {
	text := PlainText(source)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
