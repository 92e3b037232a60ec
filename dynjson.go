// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"encoding/json"
	"sort"
)

// parseLoose decodes arbitrary JSON into generic values for link discovery.
func parseLoose(data []byte) (map[string]any, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if root == nil {
		return nil, ErrDocumentRootType
	}

	return root, nil
}

// asObject returns value as JSON object.
func asObject(value any) (map[string]any, bool) {
	object, ok := value.(map[string]any)
	return object, ok
}

// asSlice returns value as JSON array.
func asSlice(value any) ([]any, bool) {
	items, ok := value.([]any)
	return items, ok
}

// asString returns value as JSON string.
func asString(value any) (string, bool) {
	text, ok := value.(string)
	return text, ok
}

// objectString returns string field of object, or "".
func objectString(object map[string]any, key string) string {
	text, _ := asString(object[key])
	return text
}

// stringItems returns string elements of a JSON array value.
func stringItems(value any) []string {
	items, ok := asSlice(value)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := asString(item); ok {
			out = append(out, text)
		}
	}

	return out
}

// linkedIdentifiers collects identifiers from topicSections, items and references.
// Keyed references are visited in sorted key order.
func linkedIdentifiers(root map[string]any) []string {
	out := make([]string, 0, 16)

	if sections, ok := asSlice(root["topicSections"]); ok {
		for _, section := range sections {
			object, ok := asObject(section)
			if !ok {
				continue
			}

			out = append(out, stringItems(object["identifiers"])...)
		}
	}

	out = append(out, stringItems(root["items"])...)
	out = append(out, referenceIdentifiers(root)...)

	return out
}

// referenceIdentifiers lists references identifiers in keyed map or array shape.
func referenceIdentifiers(root map[string]any) []string {
	switch typed := root["references"].(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}

		sort.Strings(keys)
		return keys
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			object, ok := asObject(item)
			if !ok {
				continue
			}

			if identifier := objectString(object, "identifier"); identifier != "" {
				out = append(out, identifier)
			}
		}

		return out
	default:
		return nil
	}
}

// referenceEntry finds references entry for identifier in keyed map or array shape.
func referenceEntry(root map[string]any, identifier string) (map[string]any, bool) {
	switch typed := root["references"].(type) {
	case map[string]any:
		return asObject(typed[identifier])
	case []any:
		for _, item := range typed {
			object, ok := asObject(item)
			if ok && objectString(object, "identifier") == identifier {
				return object, true
			}
		}
	}

	return nil, false
}
