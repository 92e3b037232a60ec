// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// dataRoot is the archive folder holding render JSON.
	dataRoot = "data/"
	// docScheme prefixes DocC topic identifiers.
	docScheme = "doc://"
)

// PathForIdentifier maps a reference identifier to an archive JSON path.
//
// Rules are tried in order, first match wins:
//  1. keyed references[identifier]: first variant path, else url
//  2. array references entry with matching identifier, same rule
//  3. top-level variants path containing the identifier's last segment
//  4. doc://<bundle>/<path> becomes data/<path>.json, lowercased
//
// The second result is false when no rule applies.
func PathForIdentifier(identifier string, context map[string]any) (string, bool) {
	if identifier == "" {
		return "", false
	}

	if entry, ok := referenceEntry(context, identifier); ok {
		if declared := declaredPath(entry); declared != "" {
			return dataPath(declared), true
		}
	}

	if declared := variantMatch(context, identifier); declared != "" {
		return dataPath(declared), true
	}

	return schemePath(identifier)
}

// declaredPath returns the first variant path of a reference entry or its url.
// External URLs are never archive paths.
func declaredPath(entry map[string]any) string {
	if variants, ok := asSlice(entry["variants"]); ok {
		for _, variant := range variants {
			object, ok := asObject(variant)
			if !ok {
				continue
			}

			if paths := stringItems(object["paths"]); len(paths) > 0 && paths[0] != "" && !isExternalURL(paths[0]) {
				return paths[0]
			}
		}
	}

	if declared := objectString(entry, "url"); !isExternalURL(declared) {
		return declared
	}

	return ""
}

// isExternalURL reports whether value carries a scheme or host, like a link reference url.
func isExternalURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return strings.Contains(value, "://")
	}

	return parsed.IsAbs() || parsed.Host != ""
}

// variantMatch finds a top-level variants path mentioning the identifier's last segment.
func variantMatch(context map[string]any, identifier string) string {
	segment := lowerText(lastSegment(identifier))
	if segment == "" {
		return ""
	}

	variants, ok := asSlice(context["variants"])
	if !ok {
		return ""
	}

	for _, variant := range variants {
		object, ok := asObject(variant)
		if !ok {
			continue
		}

		for _, path := range stringItems(object["paths"]) {
			if !isExternalURL(path) && strings.Contains(lowerText(path), segment) {
				return path
			}
		}
	}

	return ""
}

// schemePath rewrites doc://<bundle>/<path> into a lowercased data path.
func schemePath(identifier string) (string, bool) {
	if !strings.HasPrefix(identifier, docScheme) {
		return "", false
	}

	rest := strings.TrimPrefix(identifier, docScheme)
	slash := strings.IndexByte(rest, '/')
	if slash < 0 || slash == len(rest)-1 {
		return "", false
	}

	path := stripURLSuffix(rest[slash+1:])
	if path == "" {
		return "", false
	}

	return lowerText(dataRoot + path + ".json"), true
}

// dataPath turns a declared web path into an archive JSON path under data/.
func dataPath(declared string) string {
	path := strings.Trim(stripURLSuffix(declared), "/")
	path = strings.TrimPrefix(path, strings.TrimSuffix(dataRoot, "/")+"/")
	if !strings.HasPrefix(path, "documentation/") && !strings.HasPrefix(path, "tutorials/") {
		path = "documentation/" + path
	}

	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}

	return dataRoot + path
}

// stripURLSuffix drops query and fragment parts.
func stripURLSuffix(value string) string {
	if index := strings.IndexAny(value, "?#"); index >= 0 {
		return value[:index]
	}

	return value
}

// lastSegment returns text after the final slash.
func lastSegment(identifier string) string {
	identifier = strings.TrimRight(stripURLSuffix(identifier), "/")
	if index := strings.LastIndexByte(identifier, '/'); index >= 0 {
		return identifier[index+1:]
	}

	return identifier
}

// lowerText lowercases text with Unicode rules. Casers are stateful, so one is built per call.
func lowerText(text string) string {
	return cases.Lower(language.Und).String(text)
}
