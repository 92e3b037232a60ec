// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// markdownEngine converts rendered markdown into an HTML preview.
// Raw HTML in archive text is omitted by the safe default renderer.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// renderHTML converts markdown output to HTML, returning markdown unchanged on failure.
func renderHTML(markdown string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return markdown
	}

	return ensureTrailingNewline(buf.String())
}
