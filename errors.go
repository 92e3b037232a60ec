// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrReadDocumentFile is returned when document file loading fails.
	ErrReadDocumentFile = errors.New("read document file")
	// ErrDecodeDocument is matched by every *DecodeError.
	ErrDecodeDocument = errors.New("decode document")
	// ErrDocumentRootType is returned when document payload is not a JSON object.
	ErrDocumentRootType = errors.New("document root must be object")
	// ErrMissingField is returned when a required top-level field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrFieldType is returned when a required field has the wrong JSON type.
	ErrFieldType = errors.New("unexpected field type")
	// ErrNotFound is returned by providers when a path does not exist.
	ErrNotFound = errors.New("not found")
	// ErrListUnsupported is returned by providers that cannot enumerate directories.
	ErrListUnsupported = errors.New("listing is not supported")
	// ErrUnknownFormat is returned when requested output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrNoDocumentationFolder is returned when archive has no data/documentation folder.
	ErrNoDocumentationFolder = errors.New("archive contains no documentation folder")
	// ErrEntryDocument is returned when resolver cannot load its entry document.
	ErrEntryDocument = errors.New("load entry document")
	// ErrHTMLPayload marks fetched payloads that are HTML pages instead of JSON.
	ErrHTMLPayload = errors.New("payload is html")
)

// DecodeError describes a document that could not be decoded.
type DecodeError struct {
	// Path is archive-relative document path, when known.
	Path string
	// Field is the offending top-level field name.
	Field string
	// Kind is the raw document kind discriminator, when present.
	Kind string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *DecodeError) Error() string {
	var out strings.Builder
	out.WriteString(ErrDecodeDocument.Error())
	if e.Path != "" {
		fmt.Fprintf(&out, " %q", e.Path)
	}

	if e.Field != "" {
		fmt.Fprintf(&out, ": field %q", e.Field)
	}

	if e.Kind != "" {
		fmt.Fprintf(&out, " (kind %q)", e.Kind)
	}

	if e.Err != nil {
		out.WriteString(": ")
		out.WriteString(e.Err.Error())
	}

	return out.String()
}

// Unwrap exposes both ErrDecodeDocument and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecodeDocument}
	}

	return []error{ErrDecodeDocument, e.Err}
}

// ProviderError describes a failed provider operation.
type ProviderError struct {
	Op   string
	Path string
	Err  error
}

// Error implements error.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
