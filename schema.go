// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Document is one decoded archive page: API symbol, article or tutorial.
type Document struct {
	Identifier Identifier
	// Kind is the raw document kind ("symbol", "article", "tutorial", ...).
	Kind     string
	Metadata Metadata
	Abstract []InlineContent

	PrimaryContentSections []Section
	TopicSections          []TopicSection
	SeeAlsoSections        []TopicSection
	Variants               []Variant

	// References maps identifiers to referenced pages and assets.
	References map[string]Reference
}

// Identifier is the archive-unique identity of a document.
type Identifier struct {
	URL               string
	InterfaceLanguage string
}

// Metadata carries document title and role information.
type Metadata struct {
	Title       string
	RoleHeading string
	Role        string
	SymbolKind  string
}

// Variant lists the archive paths one document is published under.
type Variant struct {
	Paths []string
}

// Reference returns the topic reference for identifier, if any.
func (doc *Document) Reference(identifier string) (TopicReference, bool) {
	ref, ok := doc.References[identifier]
	if !ok {
		return TopicReference{}, false
	}

	topic, ok := ref.(TopicReference)
	return topic, ok
}

// DecodeFile reads and decodes one document from file.
func DecodeFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDocumentFile, err)
	}

	doc, err := Decode(data)
	if err != nil {
		if decodeErr, ok := err.(*DecodeError); ok {
			decodeErr.Path = path
		}

		return nil, err
	}

	return doc, nil
}

// Decode turns raw archive JSON into a Document.
//
// Only the required fields identifier, metadata and references can fail the
// decode. Unknown section, content, reference and inline kinds decode into
// their Unsupported variants.
func Decode(data []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrDocumentRootType, err)}
	}

	if root == nil {
		return nil, &DecodeError{Err: ErrDocumentRootType}
	}

	doc := &Document{Kind: rawString(root["kind"])}

	identifier, err := decodeIdentifier(root)
	if err != nil {
		return nil, withKind(err, doc.Kind)
	}

	metadata, err := decodeMetadata(root)
	if err != nil {
		return nil, withKind(err, doc.Kind)
	}

	references, err := decodeReferences(root)
	if err != nil {
		return nil, withKind(err, doc.Kind)
	}

	doc.Identifier = identifier
	doc.Metadata = metadata
	doc.References = references
	doc.Abstract = decodeInlineList(root["abstract"])
	doc.PrimaryContentSections = decodeSectionList(root["primaryContentSections"])
	doc.TopicSections = decodeTopicSections(root["topicSections"])
	doc.SeeAlsoSections = decodeTopicSections(root["seeAlsoSections"])
	doc.Variants = decodeVariants(root["variants"])

	return doc, nil
}

// decodeIdentifier decodes the required identifier object.
func decodeIdentifier(root map[string]json.RawMessage) (Identifier, error) {
	raw, err := requiredField(root, "identifier", '{')
	if err != nil {
		return Identifier{}, err
	}

	var payload struct {
		URL               *string `json:"url"`
		InterfaceLanguage string  `json:"interfaceLanguage"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Identifier{}, &DecodeError{Field: "identifier", Err: fmt.Errorf("%w: %w", ErrFieldType, err)}
	}

	if payload.URL == nil {
		return Identifier{}, &DecodeError{Field: "identifier.url", Err: ErrMissingField}
	}

	return Identifier{URL: *payload.URL, InterfaceLanguage: payload.InterfaceLanguage}, nil
}

// decodeMetadata decodes the required metadata object.
func decodeMetadata(root map[string]json.RawMessage) (Metadata, error) {
	raw, err := requiredField(root, "metadata", '{')
	if err != nil {
		return Metadata{}, err
	}

	var payload struct {
		Title       string `json:"title"`
		RoleHeading string `json:"roleHeading"`
		Role        string `json:"role"`
		SymbolKind  string `json:"symbolKind"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Metadata{}, &DecodeError{Field: "metadata", Err: fmt.Errorf("%w: %w", ErrFieldType, err)}
	}

	return Metadata(payload), nil
}

// decodeReferences decodes the required references table in keyed or array shape.
func decodeReferences(root map[string]json.RawMessage) (map[string]Reference, error) {
	raw, err := requiredField(root, "references", '{', '[')
	if err != nil {
		return nil, err
	}

	if jsonKind(raw) == '[' {
		items := rawList(raw)
		out := make(map[string]Reference, len(items))
		for _, item := range items {
			payload, ok := decodePayload[struct {
				Identifier string `json:"identifier"`
			}](item)
			if !ok || payload.Identifier == "" {
				continue
			}

			if _, exists := out[payload.Identifier]; exists {
				continue
			}

			out[payload.Identifier] = decodeReference(payload.Identifier, item)
		}

		return out, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Field: "references", Err: fmt.Errorf("%w: %w", ErrFieldType, err)}
	}

	out := make(map[string]Reference, len(entries))
	for identifier, entry := range entries {
		out[identifier] = decodeReference(identifier, entry)
	}

	return out, nil
}

// decodeVariants decodes the optional top-level variants list.
func decodeVariants(raw json.RawMessage) []Variant {
	items := rawList(raw)
	if items == nil {
		return nil
	}

	out := make([]Variant, 0, len(items))
	for _, item := range items {
		payload, ok := decodePayload[struct {
			Paths json.RawMessage `json:"paths"`
		}](item)
		if !ok {
			continue
		}

		out = append(out, Variant{Paths: stringList(payload.Paths)})
	}

	return out
}

// requiredField returns a required field whose JSON kind is one of kinds.
func requiredField(root map[string]json.RawMessage, name string, kinds ...byte) (json.RawMessage, error) {
	raw, ok := root[name]
	if !ok || jsonKind(raw) == 'n' {
		return nil, &DecodeError{Field: name, Err: ErrMissingField}
	}

	got := jsonKind(raw)
	for _, kind := range kinds {
		if got == kind {
			return raw, nil
		}
	}

	return nil, &DecodeError{Field: name, Err: fmt.Errorf("%w: %s", ErrFieldType, jsonKindName(got))}
}

// withKind attaches the document kind discriminator to a decode error.
func withKind(err error, kind string) error {
	if decodeErr, ok := err.(*DecodeError); ok && decodeErr.Kind == "" {
		decodeErr.Kind = kind
	}

	return err
}

// discriminator reads one string tag from a JSON object.
// It reports false when raw is not an object.
func discriminator(raw json.RawMessage, key string) (string, bool) {
	if jsonKind(raw) != '{' {
		return "", false
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", false
	}

	return rawString(object[key]), true
}

// decodePayload decodes raw into T, reporting failure instead of returning it.
func decodePayload[T any](raw json.RawMessage) (T, bool) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, false
	}

	return payload, true
}

// rawList splits a JSON array into raw elements; nil when raw is not an array.
func rawList(raw json.RawMessage) []json.RawMessage {
	if jsonKind(raw) != '[' {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	return items
}

// stringList returns the string elements of a JSON array, skipping others.
func stringList(raw json.RawMessage) []string {
	items := rawList(raw)
	if items == nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if jsonKind(item) != '"' {
			continue
		}

		out = append(out, rawString(item))
	}

	return out
}

// rawString decodes a JSON string; any other value yields "".
func rawString(raw json.RawMessage) string {
	if jsonKind(raw) != '"' {
		return ""
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}

	return value
}

// jsonKind returns the first significant byte of a JSON value, or 0 when empty.
func jsonKind(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}

	return trimmed[0]
}

// jsonKindName names a JSON kind byte for error messages.
func jsonKindName(kind byte) string {
	switch kind {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	case 0:
		return "empty"
	default:
		return "number"
	}
}
