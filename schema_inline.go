// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"encoding/json"
	"strings"
)

// InlineContent is one text run inside a paragraph, abstract or caption.
type InlineContent interface {
	// Type returns the raw "type" discriminator.
	Type() string
	// Description flattens the run into plain text.
	Description() string

	isInline()
}

// TextInline is a plain text run.
type TextInline struct {
	Text string
}

// StyledInline wraps nested runs with a presentation style such as emphasis or strong.
type StyledInline struct {
	Style  string
	Inline []InlineContent
}

// CodeVoiceInline is an inline code span.
type CodeVoiceInline struct {
	Code string
}

// ReferenceInline links to an entry of the document references table.
type ReferenceInline struct {
	Identifier      string
	IsActive        bool
	OverridingTitle string
}

// ImageInline embeds an image reference.
type ImageInline struct {
	Identifier string
}

// LinkInline is an external link.
type LinkInline struct {
	Destination string
	Title       string
}

// UnsupportedInline keeps the discriminator of an inline run this package does not know.
type UnsupportedInline struct {
	RawType string
}

// styledInlineTypes lists inline discriminators decoded as StyledInline.
var styledInlineTypes = map[string]struct{}{
	"emphasis":      {},
	"strong":        {},
	"newTerm":       {},
	"inlineHead":    {},
	"subscript":     {},
	"superscript":   {},
	"strikethrough": {},
}

func (TextInline) Type() string { return "text" }
func (c StyledInline) Type() string { return c.Style }
func (CodeVoiceInline) Type() string { return "codeVoice" }
func (ReferenceInline) Type() string { return "reference" }
func (ImageInline) Type() string { return "image" }
func (LinkInline) Type() string { return "link" }
func (c UnsupportedInline) Type() string { return c.RawType }

func (c TextInline) Description() string { return c.Text }
func (c StyledInline) Description() string { return inlineDescription(c.Inline) }
func (c CodeVoiceInline) Description() string { return c.Code }
func (ImageInline) Description() string { return "" }
func (UnsupportedInline) Description() string { return "" }

// Description returns overriding title or raw identifier.
func (c ReferenceInline) Description() string {
	if c.OverridingTitle != "" {
		return c.OverridingTitle
	}

	return c.Identifier
}

// Description returns link title or destination.
func (c LinkInline) Description() string {
	if c.Title != "" {
		return c.Title
	}

	return c.Destination
}

func (TextInline) isInline() {}
func (StyledInline) isInline() {}
func (CodeVoiceInline) isInline() {}
func (ReferenceInline) isInline() {}
func (ImageInline) isInline() {}
func (LinkInline) isInline() {}
func (UnsupportedInline) isInline() {}

// inlineDescription concatenates descriptions of all runs.
func inlineDescription(runs []InlineContent) string {
	var out strings.Builder
	for _, run := range runs {
		out.WriteString(run.Description())
	}

	return out.String()
}

// decodeInlineList decodes an array of inline runs, skipping nothing.
func decodeInlineList(raw json.RawMessage) []InlineContent {
	items := rawList(raw)
	if items == nil {
		return nil
	}

	out := make([]InlineContent, 0, len(items))
	for _, item := range items {
		out = append(out, decodeInline(item))
	}

	return out
}

// decodeInline decodes one inline run by its "type" discriminator.
func decodeInline(raw json.RawMessage) InlineContent {
	tag, ok := discriminator(raw, "type")
	if !ok {
		return UnsupportedInline{}
	}

	if _, styled := styledInlineTypes[tag]; styled {
		payload, ok := decodePayload[struct {
			InlineContent json.RawMessage `json:"inlineContent"`
		}](raw)
		if !ok {
			return UnsupportedInline{RawType: tag}
		}

		return StyledInline{Style: tag, Inline: decodeInlineList(payload.InlineContent)}
	}

	switch tag {
	case "text":
		payload, ok := decodePayload[struct {
			Text string `json:"text"`
		}](raw)
		if ok {
			return TextInline{Text: payload.Text}
		}
	case "codeVoice":
		payload, ok := decodePayload[struct {
			Code string `json:"code"`
		}](raw)
		if ok {
			return CodeVoiceInline{Code: payload.Code}
		}
	case "reference":
		payload, ok := decodePayload[struct {
			Identifier      string `json:"identifier"`
			IsActive        bool   `json:"isActive"`
			OverridingTitle string `json:"overridingTitle"`
		}](raw)
		if ok {
			return ReferenceInline{
				Identifier:      payload.Identifier,
				IsActive:        payload.IsActive,
				OverridingTitle: payload.OverridingTitle,
			}
		}
	case "image":
		payload, ok := decodePayload[struct {
			Identifier string `json:"identifier"`
		}](raw)
		if ok {
			return ImageInline{Identifier: payload.Identifier}
		}
	case "link":
		payload, ok := decodePayload[struct {
			Destination string `json:"destination"`
			Title       string `json:"title"`
		}](raw)
		if ok {
			return LinkInline{Destination: payload.Destination, Title: payload.Title}
		}
	}

	return UnsupportedInline{RawType: tag}
}
