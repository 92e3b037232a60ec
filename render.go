// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"fmt"
	"strings"
)

const (
	// defaultSyntax tags code blocks whose listing leaves syntax null.
	defaultSyntax = "swift"
	// defaultFormat is used when caller does not provide output format.
	defaultFormat = FormatPlain
)

const (
	// FormatMarkdown renders CommonMark.
	FormatMarkdown Format = "markdown"
	// FormatPlain renders plain text wrapped in START/END FILE sentinels.
	FormatPlain Format = "plain"
	// FormatHTML renders the markdown output converted to HTML.
	FormatHTML Format = "html"
)

// Format selects renderer output.
type Format string

// FileExtension returns the typical file extension for this format.
func (f Format) FileExtension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// Options configures document rendering.
type Options struct {
	// Format selects output; empty means plain.
	Format Format
	// DefaultSyntax tags code blocks without syntax; empty means "swift".
	DefaultSyntax string
	// WrapWidth wraps plain-text paragraphs; zero disables wrapping.
	WrapWidth int
	// IncludeSeeAlso renders seeAlsoSections after topics.
	IncludeSeeAlso bool
}

// Formats returns all supported output format names.
func Formats() []string {
	return []string{string(FormatMarkdown), string(FormatPlain), string(FormatHTML)}
}

// ParseFormat validates and normalizes format name.
func ParseFormat(name string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(name)))
	switch normalized {
	case "":
		return defaultFormat, nil
	case FormatMarkdown, FormatPlain, FormatHTML:
		return normalized, nil
	case "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("%w %q (want %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
}

// RenderFile reads document from file and renders it.
func RenderFile(path string, opt Options) (string, error) {
	if _, err := ParseFormat(string(opt.Format)); err != nil {
		return "", err
	}

	doc, err := DecodeFile(path)
	if err != nil {
		return "", err
	}

	return RenderDocument(doc, opt), nil
}

// Render decodes document bytes and renders them.
func Render(data []byte, opt Options) (string, error) {
	if _, err := ParseFormat(string(opt.Format)); err != nil {
		return "", err
	}

	doc, err := Decode(data)
	if err != nil {
		return "", err
	}

	return RenderDocument(doc, opt), nil
}

// RenderDocument linearizes document into text. It never fails: unsupported
// variants render as empty text and unknown formats fall back to plain.
func RenderDocument(doc *Document, opt Options) string {
	format, err := ParseFormat(string(opt.Format))
	if err != nil {
		format = defaultFormat
	}

	base := newRenderer(doc, opt)
	switch format {
	case FormatMarkdown:
		return renderMarkdown(base)
	case FormatHTML:
		return renderHTML(renderMarkdown(base))
	default:
		return renderPlain(base)
	}
}

// renderer holds state shared by markdown and plain renderers.
type renderer struct {
	doc            *Document
	syntax         string
	wrapWidth      int
	includeSeeAlso bool
}

// newRenderer normalizes options into renderer state.
func newRenderer(doc *Document, opt Options) renderer {
	if doc == nil {
		doc = &Document{}
	}

	syntax := strings.TrimSpace(opt.DefaultSyntax)
	if syntax == "" {
		syntax = defaultSyntax
	}

	wrapWidth := opt.WrapWidth
	if wrapWidth < 0 {
		wrapWidth = 0
	}

	return renderer{
		doc:            doc,
		syntax:         syntax,
		wrapWidth:      wrapWidth,
		includeSeeAlso: opt.IncludeSeeAlso,
	}
}

// inlineText flattens inline runs, preferring reference titles from the document table.
func (r renderer) inlineText(runs []InlineContent) string {
	var out strings.Builder
	for _, run := range runs {
		switch typed := run.(type) {
		case ReferenceInline:
			if typed.OverridingTitle == "" {
				if topic, ok := r.doc.Reference(typed.Identifier); ok && topic.Title != "" {
					out.WriteString(topic.Title)
					continue
				}
			}

			out.WriteString(typed.Description())
		case StyledInline:
			out.WriteString(r.inlineText(typed.Inline))
		default:
			out.WriteString(run.Description())
		}
	}

	return sanitizeText(out.String())
}

// listingSyntax returns code listing syntax or the default.
func (r renderer) listingSyntax(syntax string) string {
	syntax = strings.TrimSpace(syntax)
	if syntax == "" {
		return r.syntax
	}

	return syntax
}

// declarationSyntax picks the first declared language or the default.
func (r renderer) declarationSyntax(declaration Declaration) string {
	for _, language := range declaration.Languages {
		if language = strings.TrimSpace(language); language != "" {
			return language
		}
	}

	return r.syntax
}

// topicEntries resolves section identifiers to topic references, skipping dangling ones.
func (r renderer) topicEntries(section TopicSection) []TopicReference {
	out := make([]TopicReference, 0, len(section.Identifiers))
	for _, identifier := range section.Identifiers {
		topic, ok := r.doc.Reference(identifier)
		if !ok {
			continue
		}

		out = append(out, topic)
	}

	return out
}

// fragmentsText joins declaration tokens into one signature.
func fragmentsText(fragments []Fragment) string {
	var out strings.Builder
	for _, fragment := range fragments {
		out.WriteString(fragment.Text)
	}

	return out.String()
}
