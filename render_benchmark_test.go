// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// BenchmarkDecode measures typed document decoding cost.
func BenchmarkDecode(b *testing.B) {
	data := readBenchmarkFile(b, filepath.Join(testArchiveRoot, "data", "documentation", "slothcreator.json"))

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatalf("Decode: %v", err)
		}
	}
}

// BenchmarkRenderMarkdown measures full in-memory render flow for markdown.
func BenchmarkRenderMarkdown(b *testing.B) {
	benchmarkRender(b, FormatMarkdown)
}

// BenchmarkRenderPlain measures full in-memory render flow for plain text.
func BenchmarkRenderPlain(b *testing.B) {
	benchmarkRender(b, FormatPlain)
}

// BenchmarkRenderHTML measures markdown render plus HTML conversion.
func BenchmarkRenderHTML(b *testing.B) {
	benchmarkRender(b, FormatHTML)
}

// BenchmarkExportLocalArchive measures enumeration, decode and render of the fixture archive.
func BenchmarkExportLocalArchive(b *testing.B) {
	archive := NewArchive(NewFSProvider(os.DirFS(testArchiveRoot)))
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := archive.Export(ctx, io.Discard, ExportOptions{Render: Options{Format: FormatMarkdown}}); err != nil {
			b.Fatalf("Export: %v", err)
		}
	}
}

// benchmarkRender runs common in-memory benchmark for selected format.
func benchmarkRender(b *testing.B, format Format) {
	data := readBenchmarkFile(b, filepath.Join(testArchiveRoot, "data", "documentation", "slothcreator.json"))
	options := Options{Format: format}

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := Render(data, options); err != nil {
			b.Fatalf("Render: %v", err)
		}
	}
}

// readBenchmarkFile loads benchmark fixture and fails benchmark on read errors.
func readBenchmarkFile(b *testing.B, path string) []byte {
	b.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		b.Fatalf("read benchmark fixture %q: %v", path, err)
	}

	return data
}
