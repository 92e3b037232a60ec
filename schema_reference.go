// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import "encoding/json"

// Reference is one entry of a document's references table.
type Reference interface {
	// Type returns the raw "type" discriminator.
	Type() string

	isReference()
}

// TopicReference describes another page of the archive.
type TopicReference struct {
	Identifier string
	Title      string
	URL        string
	Kind       string
	Role       string
	// Fragments is nil when the reference carries no declaration signature.
	Fragments []Fragment
	Abstract  []InlineContent
}

// ImageReference describes an image asset.
type ImageReference struct {
	Identifier string
	Alt        string
	Variants   []ImageVariant
}

// ImageVariant is one rendition of an image asset.
type ImageVariant struct {
	URL    string
	Traits []string
}

// LinkReference describes an external link.
type LinkReference struct {
	Identifier string
	Title      string
	URL        string
}

// UnresolvableReference is a reference DocC could not resolve at build time.
type UnresolvableReference struct {
	Identifier string
	Title      string
}

// UnsupportedReference keeps the raw type of reference kinds this package does not model.
type UnsupportedReference struct {
	Identifier string
	RawType    string
}

func (TopicReference) Type() string { return "topic" }
func (ImageReference) Type() string { return "image" }
func (LinkReference) Type() string { return "link" }
func (UnresolvableReference) Type() string { return "unresolvable" }
func (r UnsupportedReference) Type() string { return r.RawType }

func (TopicReference) isReference() {}
func (ImageReference) isReference() {}
func (LinkReference) isReference() {}
func (UnresolvableReference) isReference() {}
func (UnsupportedReference) isReference() {}

// decodeReference decodes one references table entry by its "type" discriminator.
func decodeReference(identifier string, raw json.RawMessage) Reference {
	tag, ok := discriminator(raw, "type")
	if !ok {
		return UnsupportedReference{Identifier: identifier}
	}

	switch tag {
	case "topic":
		payload, ok := decodePayload[struct {
			Title     string            `json:"title"`
			URL       string            `json:"url"`
			Kind      string            `json:"kind"`
			Role      string            `json:"role"`
			Fragments []fragmentPayload `json:"fragments"`
			Abstract  json.RawMessage   `json:"abstract"`
		}](raw)
		if ok {
			return TopicReference{
				Identifier: identifier,
				Title:      payload.Title,
				URL:        payload.URL,
				Kind:       payload.Kind,
				Role:       payload.Role,
				Fragments:  convertFragments(payload.Fragments),
				Abstract:   decodeInlineList(payload.Abstract),
			}
		}
	case "image":
		payload, ok := decodePayload[struct {
			Alt      string `json:"alt"`
			Variants []struct {
				URL    string   `json:"url"`
				Traits []string `json:"traits"`
			} `json:"variants"`
		}](raw)
		if ok {
			ref := ImageReference{Identifier: identifier, Alt: payload.Alt}
			for _, variant := range payload.Variants {
				ref.Variants = append(ref.Variants, ImageVariant{URL: variant.URL, Traits: variant.Traits})
			}

			return ref
		}
	case "link":
		payload, ok := decodePayload[struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		}](raw)
		if ok {
			return LinkReference{Identifier: identifier, Title: payload.Title, URL: payload.URL}
		}
	case "unresolvable":
		payload, ok := decodePayload[struct {
			Title string `json:"title"`
		}](raw)
		if ok {
			return UnresolvableReference{Identifier: identifier, Title: payload.Title}
		}
	}

	return UnsupportedReference{Identifier: identifier, RawType: tag}
}
