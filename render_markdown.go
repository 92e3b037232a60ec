// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// renderMarkdown renders document as CommonMark.
func renderMarkdown(r renderer) string {
	var out strings.Builder

	out.WriteString("# " + r.doc.Identifier.URL + "\n\n")
	if roleHeading := sanitizeText(r.doc.Metadata.RoleHeading); roleHeading != "" {
		out.WriteString("**" + roleHeading + "**\n\n")
	}
	if title := sanitizeText(r.doc.Metadata.Title); title != "" {
		out.WriteString("**" + title + "**\n\n")
	}
	if abstract := r.inlineText(r.doc.Abstract); abstract != "" {
		out.WriteString("**Abstract:**\n" + abstract + "\n\n")
	}

	for _, section := range r.doc.PrimaryContentSections {
		out.WriteString(r.markdownSection(section))
	}

	if len(r.doc.TopicSections) > 0 {
		out.WriteString("## Topics\n\n")
		out.WriteString(r.markdownTopics(r.doc.TopicSections))
	}

	if r.includeSeeAlso && len(r.doc.SeeAlsoSections) > 0 {
		out.WriteString("## See Also\n\n")
		out.WriteString(r.markdownTopics(r.doc.SeeAlsoSections))
	}

	return ensureTrailingNewline(normalizeMarkdownOutput(out.String()))
}

// markdownSection renders one primary content section.
func (r renderer) markdownSection(section Section) string {
	var out strings.Builder

	switch typed := section.(type) {
	case DeclarationsSection:
		var body strings.Builder
		for _, declaration := range typed.Declarations {
			signature := fragmentsText(declaration.Tokens)
			if strings.TrimSpace(signature) == "" {
				continue
			}

			body.WriteString(codeFence(r.declarationSyntax(declaration), []string{signature}))
		}

		if body.Len() > 0 {
			out.WriteString("## Declaration\n\n" + body.String())
		}
	case ParametersSection:
		var body strings.Builder
		for _, parameter := range typed.Parameters {
			text := r.contentText(parameter.Content)
			if text == "" {
				continue
			}

			body.WriteString("**" + parameter.Name + ":** " + text + "\n\n")
		}

		if body.Len() > 0 {
			out.WriteString("## Parameters\n\n" + body.String())
		}
	case ContentSection:
		out.WriteString("## Content\n\n")
		out.WriteString(r.markdownContentList(typed.Content))
	case TasksSection:
		out.WriteString("## Tasks\n\n")
		for _, task := range typed.Tasks {
			if title := sanitizeText(task.Title); title != "" {
				out.WriteString("### " + title + "\n\n")
			}

			out.WriteString(r.markdownContentList(task.Steps))
		}
	}

	return out.String()
}

// markdownContentList renders content nodes in order.
func (r renderer) markdownContentList(items []Content) string {
	var out strings.Builder
	for _, item := range items {
		out.WriteString(r.markdownContent(item))
	}

	return out.String()
}

// markdownContent renders one content node; unsupported nodes render empty.
func (r renderer) markdownContent(item Content) string {
	switch typed := item.(type) {
	case HeadingContent:
		text := sanitizeText(typed.Text)
		if text == "" {
			return ""
		}

		return strings.Repeat("#", headingDepth(typed.Level)) + " " + text + "\n\n"
	case ParagraphContent:
		text := r.inlineText(typed.Inline)
		if text == "" {
			return ""
		}

		return text + "\n\n"
	case CodeListingContent:
		if len(typed.Code) == 0 {
			return ""
		}

		return codeFence(r.listingSyntax(typed.Syntax), typed.Code)
	case StepContent:
		return r.markdownContentList(typed.Content) + r.markdownContentList(typed.Caption)
	case AsideContent:
		body := strings.TrimSpace(r.markdownContentList(typed.Content))
		if body == "" {
			return ""
		}

		return quoteLines("**"+asideLabel(typed)+":** "+body) + "\n\n"
	case ListContent:
		return r.markdownList(typed)
	default:
		return ""
	}
}

// markdownList renders list items with continuation lines indented under the marker.
func (r renderer) markdownList(list ListContent) string {
	var out strings.Builder
	for index, item := range list.Items {
		body := strings.TrimSpace(r.markdownContentList(item.Content))
		if body == "" {
			continue
		}

		marker := "-"
		if list.Ordered {
			marker = strconv.Itoa(index+1) + "."
		}

		indent := strings.Repeat(" ", len(marker)+1)
		lines := strings.Split(body, "\n")
		out.WriteString(marker + " " + lines[0] + "\n")
		for _, line := range lines[1:] {
			if line == "" {
				out.WriteString("\n")
				continue
			}

			out.WriteString(indent + line + "\n")
		}
	}

	if out.Len() == 0 {
		return ""
	}

	return out.String() + "\n"
}

// markdownTopics renders topic groups with signatures and abstracts of resolved references.
func (r renderer) markdownTopics(sections []TopicSection) string {
	var out strings.Builder
	for _, section := range sections {
		if title := sanitizeText(section.Title); title != "" {
			out.WriteString("### " + title + "\n\n")
		}

		for _, topic := range r.topicEntries(section) {
			if topic.Fragments != nil {
				out.WriteString(codeFence(r.syntax, []string{fragmentsText(topic.Fragments)}))
			} else if title := sanitizeText(topic.Title); title != "" {
				out.WriteString("**" + title + "**\n\n")
			}

			if abstract := r.inlineText(topic.Abstract); abstract != "" {
				out.WriteString(abstract + "\n\n")
			}
		}
	}

	return out.String()
}

// contentText flattens content nodes into one plain line.
func (r renderer) contentText(items []Content) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if text := sanitizeText(r.plainContent(item)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

// headingDepth maps content heading level to markdown heading depth.
func headingDepth(level int) int {
	depth := level + 2
	if depth < 2 {
		return 2
	}
	if depth > 6 {
		return 6
	}

	return depth
}

// codeFence wraps lines into fenced code block longer than any backtick run inside.
func codeFence(syntax string, lines []string) string {
	fence := "```"
	for _, line := range lines {
		for strings.Contains(line, fence) {
			fence += "`"
		}
	}

	return fence + syntax + "\n" + strings.Join(lines, "\n") + "\n" + fence + "\n\n"
}

// quoteLines prefixes every line with markdown blockquote marker.
func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		if line == "" {
			lines[index] = ">"
			continue
		}

		lines[index] = "> " + line
	}

	return strings.Join(lines, "\n")
}

// asideLabel returns aside display name, falling back to capitalized style.
func asideLabel(aside AsideContent) string {
	if name := sanitizeText(aside.Name); name != "" {
		return name
	}

	style := sanitizeText(aside.Style)
	if style == "" {
		return "Note"
	}

	first, size := utf8.DecodeRuneInString(style)
	return strings.ToUpper(string(first)) + style[size:]
}

// sanitizeText trims and squashes repeated whitespace in plain text fields.
func sanitizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	return strings.Join(strings.Fields(text), " ")
}

// wrapParagraph wraps one plain paragraph to max rune width.
func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	out := make([]string, 0, 2)
	current := words[0]
	currentLen := utf8.RuneCountInString(current)

	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+1+wordLen <= width {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}

		out = append(out, current)
		current = word
		currentLen = wordLen
	}

	out = append(out, current)
	return out
}

// normalizeLineEndings converts CRLF/CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// normalizeMarkdownOutput collapses extra blank lines outside fenced blocks.
func normalizeMarkdownOutput(text string) string {
	text = normalizeLineEndings(text)
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	fence := ""
	blankCount := 0
	for _, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		if marker := fenceMarker(trimmed); marker != "" && (fence == "" || marker == fence) {
			if fence == "" {
				fence = marker
			} else {
				fence = ""
			}

			out = append(out, line)
			blankCount = 0
			continue
		}

		if fence == "" && trimmed == "" {
			if blankCount == 0 {
				out = append(out, "")
			}

			blankCount++
			continue
		}

		blankCount = 0
		if fence != "" {
			out = append(out, rawLine)
			continue
		}

		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// fenceMarker returns the leading backtick run of a fence line, or "".
func fenceMarker(trimmed string) string {
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	end := strings.IndexFunc(trimmed, func(r rune) bool { return r != '`' })
	if end < 0 {
		return trimmed
	}

	return trimmed[:end]
}

// ensureTrailingNewline guarantees exactly one trailing newline in output.
func ensureTrailingNewline(value string) string {
	value = strings.TrimRight(value, "\n")
	return value + "\n"
}
