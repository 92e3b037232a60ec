// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import "strings"

const (
	// plainStartPrefix opens every plain-text document.
	plainStartPrefix = "=== START FILE"
	// plainEnd closes every plain-text document.
	plainEnd = "=== END FILE ==="
	// plainVerbatimStart and plainVerbatimEnd bracket code lines until output is normalized.
	plainVerbatimStart = "\uE000verbatim"
	plainVerbatimEnd   = "\uE001verbatim"
)

// renderPlain renders document as sentinel-wrapped plain text.
func renderPlain(r renderer) string {
	var out strings.Builder

	out.WriteString(plainStartPrefix + ": " + r.doc.Identifier.URL + " ===\n\n")
	if roleHeading := sanitizeText(r.doc.Metadata.RoleHeading); roleHeading != "" {
		out.WriteString(roleHeading + "\n")
	}
	if title := sanitizeText(r.doc.Metadata.Title); title != "" {
		out.WriteString(title + "\n")
	}
	out.WriteString("\n")

	if abstract := r.inlineText(r.doc.Abstract); abstract != "" {
		out.WriteString(r.wrap("Abstract: "+abstract) + "\n\n")
	}

	for _, section := range r.doc.PrimaryContentSections {
		out.WriteString(r.plainSection(section))
	}

	if len(r.doc.TopicSections) > 0 {
		out.WriteString("Topics\n\n")
		out.WriteString(r.plainTopics(r.doc.TopicSections))
	}

	if r.includeSeeAlso && len(r.doc.SeeAlsoSections) > 0 {
		out.WriteString("See Also\n\n")
		out.WriteString(r.plainTopics(r.doc.SeeAlsoSections))
	}

	body := normalizePlainOutput(out.String())
	return body + "\n\n" + plainEnd + "\n"
}

// plainSection renders one primary content section without markup.
func (r renderer) plainSection(section Section) string {
	var out strings.Builder

	switch typed := section.(type) {
	case DeclarationsSection:
		var body strings.Builder
		for _, declaration := range typed.Declarations {
			if signature := strings.TrimSpace(fragmentsText(declaration.Tokens)); signature != "" {
				body.WriteString(signature + "\n\n")
			}
		}

		if body.Len() > 0 {
			out.WriteString("Declaration\n\n" + body.String())
		}
	case ParametersSection:
		var body strings.Builder
		for _, parameter := range typed.Parameters {
			if text := r.contentText(parameter.Content); text != "" {
				body.WriteString(r.wrap(parameter.Name+": "+text) + "\n\n")
			}
		}

		if body.Len() > 0 {
			out.WriteString("Parameters\n\n" + body.String())
		}
	case ContentSection:
		out.WriteString("Content\n\n")
		out.WriteString(r.plainBlocks(typed.Content))
	case TasksSection:
		out.WriteString("Tasks\n\n")
		for _, task := range typed.Tasks {
			if title := sanitizeText(task.Title); title != "" {
				out.WriteString(title + "\n\n")
			}

			out.WriteString(r.plainBlocks(task.Steps))
		}
	}

	return out.String()
}

// plainBlocks renders section-level content. Code listings keep their lines verbatim.
func (r renderer) plainBlocks(items []Content) string {
	var out strings.Builder
	for _, item := range items {
		switch typed := item.(type) {
		case CodeListingContent:
			if len(typed.Code) > 0 {
				out.WriteString("Code:\n" + r.listingSyntax(typed.Syntax) + "\n" +
					plainVerbatimStart + "\n" + strings.Join(typed.Code, "\n") + "\n" + plainVerbatimEnd + "\n\n")
			}
		case StepContent:
			out.WriteString(r.plainBlocks(typed.Content) + r.plainBlocks(typed.Caption))
		default:
			out.WriteString(r.plainContent(item))
		}
	}

	return out.String()
}

// plainContentList renders content nodes in order.
func (r renderer) plainContentList(items []Content) string {
	var out strings.Builder
	for _, item := range items {
		out.WriteString(r.plainContent(item))
	}

	return out.String()
}

// plainContent renders one content node; unsupported nodes render empty.
func (r renderer) plainContent(item Content) string {
	switch typed := item.(type) {
	case HeadingContent:
		if text := sanitizeText(typed.Text); text != "" {
			return text + "\n\n"
		}
	case ParagraphContent:
		if text := r.inlineText(typed.Inline); text != "" {
			return r.wrap(text) + "\n\n"
		}
	case CodeListingContent:
		if len(typed.Code) > 0 {
			return "Code:\n" + r.listingSyntax(typed.Syntax) + "\n" + strings.Join(typed.Code, "\n") + "\n\n"
		}
	case StepContent:
		return r.plainContentList(typed.Content) + r.plainContentList(typed.Caption)
	case AsideContent:
		if body := strings.TrimSpace(r.plainContentList(typed.Content)); body != "" {
			return asideLabel(typed) + ": " + body + "\n\n"
		}
	case ListContent:
		var out strings.Builder
		for _, listItem := range typed.Items {
			if body := strings.TrimSpace(r.plainContentList(listItem.Content)); body != "" {
				out.WriteString(body + "\n")
			}
		}

		if out.Len() > 0 {
			return out.String() + "\n"
		}
	}

	return ""
}

// plainTopics renders topic groups with signatures and abstracts of resolved references.
func (r renderer) plainTopics(sections []TopicSection) string {
	var out strings.Builder
	for _, section := range sections {
		if title := sanitizeText(section.Title); title != "" {
			out.WriteString(title + "\n\n")
		}

		for _, topic := range r.topicEntries(section) {
			if topic.Fragments != nil {
				out.WriteString(fragmentsText(topic.Fragments) + "\n")
			} else if title := sanitizeText(topic.Title); title != "" {
				out.WriteString(title + "\n")
			}

			if abstract := r.inlineText(topic.Abstract); abstract != "" {
				out.WriteString(r.wrap(abstract) + "\n")
			}

			out.WriteString("\n")
		}
	}

	return out.String()
}

// wrap applies configured wrap width to one paragraph.
func (r renderer) wrap(text string) string {
	if r.wrapWidth <= 0 {
		return text
	}

	return strings.Join(wrapParagraph(text, r.wrapWidth), "\n")
}

// normalizePlainOutput collapses blank lines and trailing spaces outside verbatim code lines.
func normalizePlainOutput(text string) string {
	lines := strings.Split(normalizeLineEndings(text), "\n")
	out := make([]string, 0, len(lines))

	verbatim := false
	blankCount := 0
	for _, rawLine := range lines {
		switch {
		case rawLine == plainVerbatimStart:
			verbatim = true
			continue
		case rawLine == plainVerbatimEnd:
			verbatim = false
			blankCount = 0
			continue
		case verbatim:
			out = append(out, rawLine)
			continue
		}

		line := strings.TrimRight(rawLine, " \t")
		if strings.TrimSpace(line) == "" {
			if blankCount == 0 {
				out = append(out, "")
			}

			blankCount++
			continue
		}

		blankCount = 0
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
