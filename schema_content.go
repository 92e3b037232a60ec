// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import "encoding/json"

// Content is one block-level node of a content section, step or aside.
type Content interface {
	// Type returns the raw "type" discriminator.
	Type() string

	isContent()
}

// HeadingContent is a section heading inside content.
type HeadingContent struct {
	Text   string
	Anchor string
	Level  int
}

// ParagraphContent is a paragraph of inline runs.
type ParagraphContent struct {
	Inline []InlineContent
}

// CodeListingContent is a code block. Syntax is empty when the archive leaves it null.
type CodeListingContent struct {
	Syntax string
	Code   []string
}

// StepContent is one tutorial step.
type StepContent struct {
	Content []Content
	Caption []Content
}

// LinksContent is a list of reference identifiers rendered as cards by DocC.
type LinksContent struct {
	Style string
	Items []string
}

// ThematicBreakContent is a horizontal rule.
type ThematicBreakContent struct{}

// AsideContent is a callout such as Note or Warning.
type AsideContent struct {
	Style   string
	Name    string
	Content []Content
}

// ListContent is an ordered or unordered list.
type ListContent struct {
	Ordered bool
	Items   []ListItem
}

// ListItem is one list entry.
type ListItem struct {
	Content []Content
}

// UnsupportedContent keeps the discriminator of a node this package does not render, such as "table".
type UnsupportedContent struct {
	RawType string
}

func (HeadingContent) Type() string { return "heading" }
func (ParagraphContent) Type() string { return "paragraph" }
func (CodeListingContent) Type() string { return "codeListing" }
func (StepContent) Type() string { return "step" }
func (LinksContent) Type() string { return "links" }
func (ThematicBreakContent) Type() string { return "thematicBreak" }
func (AsideContent) Type() string { return "aside" }
func (c UnsupportedContent) Type() string { return c.RawType }

// Type returns "orderedList" or "unorderedList".
func (c ListContent) Type() string {
	if c.Ordered {
		return "orderedList"
	}

	return "unorderedList"
}

func (HeadingContent) isContent() {}
func (ParagraphContent) isContent() {}
func (CodeListingContent) isContent() {}
func (StepContent) isContent() {}
func (LinksContent) isContent() {}
func (ThematicBreakContent) isContent() {}
func (AsideContent) isContent() {}
func (ListContent) isContent() {}
func (UnsupportedContent) isContent() {}

// decodeContentList decodes an array of content nodes in source order.
func decodeContentList(raw json.RawMessage) []Content {
	items := rawList(raw)
	if items == nil {
		return nil
	}

	out := make([]Content, 0, len(items))
	for _, item := range items {
		out = append(out, decodeContent(item))
	}

	return out
}

// decodeContent decodes one content node by its "type" discriminator.
func decodeContent(raw json.RawMessage) Content {
	tag, ok := discriminator(raw, "type")
	if !ok {
		return UnsupportedContent{}
	}

	switch tag {
	case "heading":
		payload, ok := decodePayload[struct {
			Text   string `json:"text"`
			Anchor string `json:"anchor"`
			Level  int    `json:"level"`
		}](raw)
		if ok {
			return HeadingContent{Text: payload.Text, Anchor: payload.Anchor, Level: payload.Level}
		}
	case "paragraph":
		payload, ok := decodePayload[struct {
			InlineContent json.RawMessage `json:"inlineContent"`
		}](raw)
		if ok {
			return ParagraphContent{Inline: decodeInlineList(payload.InlineContent)}
		}
	case "codeListing":
		payload, ok := decodePayload[struct {
			Syntax *string  `json:"syntax"`
			Code   []string `json:"code"`
		}](raw)
		if ok {
			listing := CodeListingContent{Code: payload.Code}
			if payload.Syntax != nil {
				listing.Syntax = *payload.Syntax
			}

			return listing
		}
	case "step":
		payload, ok := decodePayload[struct {
			Content json.RawMessage `json:"content"`
			Caption json.RawMessage `json:"caption"`
		}](raw)
		if ok {
			return StepContent{
				Content: decodeContentList(payload.Content),
				Caption: decodeContentList(payload.Caption),
			}
		}
	case "links":
		payload, ok := decodePayload[struct {
			Style string          `json:"style"`
			Items json.RawMessage `json:"items"`
		}](raw)
		if ok {
			return LinksContent{Style: payload.Style, Items: stringList(payload.Items)}
		}
	case "thematicBreak":
		return ThematicBreakContent{}
	case "aside":
		payload, ok := decodePayload[struct {
			Style   string          `json:"style"`
			Name    string          `json:"name"`
			Content json.RawMessage `json:"content"`
		}](raw)
		if ok {
			return AsideContent{Style: payload.Style, Name: payload.Name, Content: decodeContentList(payload.Content)}
		}
	case "orderedList", "unorderedList":
		payload, ok := decodePayload[struct {
			Items []struct {
				Content json.RawMessage `json:"content"`
			} `json:"items"`
		}](raw)
		if ok {
			list := ListContent{Ordered: tag == "orderedList", Items: make([]ListItem, 0, len(payload.Items))}
			for _, item := range payload.Items {
				list.Items = append(list.Items, ListItem{Content: decodeContentList(item.Content)})
			}

			return list
		}
	}

	return UnsupportedContent{RawType: tag}
}
