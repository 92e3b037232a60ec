// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()

	archive, err := OpenArchive(testArchiveRoot, HTTPConfig{})
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}

	return archive
}

// serveTestArchive publishes fixture archive under /SlothCreator.doccarchive.
func serveTestArchive(t *testing.T) string {
	t.Helper()

	prefix := "/SlothCreator.doccarchive"
	server := httptest.NewServer(http.StripPrefix(prefix, http.FileServer(http.Dir(testArchiveRoot))))
	t.Cleanup(server.Close)

	return server.URL + prefix
}

func TestArchiveFolders(t *testing.T) {
	t.Parallel()

	archive := openTestArchive(t)
	ctx := context.Background()

	folder, err := archive.DocumentationFolder(ctx)
	if err != nil {
		t.Fatalf("DocumentationFolder: %v", err)
	}

	if folder.Level() != 2 {
		t.Fatalf("level = %d, want 2", folder.Level())
	}

	pages, err := folder.PagePaths(ctx)
	if err != nil {
		t.Fatalf("PagePaths: %v", err)
	}
	if diff := cmp.Diff([]string{"data/documentation/slothcreator.json"}, pages); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}

	subfolders, err := folder.Subfolders(ctx)
	if err != nil {
		t.Fatalf("Subfolders: %v", err)
	}
	if len(subfolders) != 1 || subfolders[0].Path != "data/documentation/slothcreator" || subfolders[0].Level() != 3 {
		t.Fatalf("subfolders = %+v", subfolders)
	}

	all, err := folder.CollectPagePaths(ctx)
	if err != nil {
		t.Fatalf("CollectPagePaths: %v", err)
	}

	want := []string{
		"data/documentation/slothcreator.json",
		"data/documentation/slothcreator/broken.json",
		"data/documentation/slothcreator/sloth.json",
		"data/documentation/slothcreator/sloth/init(name:color:power:).json",
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Fatalf("collected pages mismatch (-want +got):\n%s", diff)
	}

	if _, ok := archive.TutorialsFolder(ctx); !ok {
		t.Fatal("fixture archive should have tutorials folder")
	}
}

func TestArchiveWithoutDocumentationFolder(t *testing.T) {
	t.Parallel()

	archive := NewArchive(NewFSProvider(fstest.MapFS{
		"data/tutorials/intro.json": {Data: []byte(`{}`)},
	}))

	if _, err := archive.DocumentationFolder(context.Background()); !errors.Is(err, ErrNoDocumentationFolder) {
		t.Fatalf("DocumentationFolder error = %v", err)
	}

	var out bytes.Buffer
	if _, err := archive.Export(context.Background(), &out, ExportOptions{}); !errors.Is(err, ErrNoDocumentationFolder) {
		t.Fatalf("Export error = %v", err)
	}

	if out.Len() != 0 {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestArchiveDocumentSetsDecodePath(t *testing.T) {
	t.Parallel()

	_, err := openTestArchive(t).Document(context.Background(), "data/documentation/slothcreator/broken.json")

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Path != "data/documentation/slothcreator/broken.json" {
		t.Fatalf("error = %v", err)
	}
}

func TestExportEnumeratesMarkdown(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	report, err := openTestArchive(t).Export(context.Background(), &out, ExportOptions{
		Render: Options{Format: FormatMarkdown},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := []string{
		"data/documentation/slothcreator.json",
		"data/documentation/slothcreator/sloth.json",
		"data/documentation/slothcreator/sloth/init(name:color:power:).json",
	}
	if diff := cmp.Diff(want, report.Exported); diff != "" {
		t.Fatalf("exported mismatch (-want +got):\n%s", diff)
	}

	if len(report.Skipped) != 1 || report.Skipped[0].Path != "data/documentation/slothcreator/broken.json" {
		t.Fatalf("skipped = %+v", report.Skipped)
	}

	if !errors.Is(report.Skipped[0].Err, ErrDecodeDocument) {
		t.Fatalf("skip error = %v", report.Skipped[0].Err)
	}

	text := out.String()
	assertContains(t, text, "=== START FILE: data/documentation/slothcreator.json ===\n\n# doc://SlothCreator/documentation/SlothCreator")
	assertNotContains(t, text, "broken.json")

	if got := strings.Count(text, "=== END FILE ===\n\n"); got != 3 {
		t.Fatalf("end markers = %d, want 3", got)
	}

	first := strings.Index(text, "slothcreator.json ===")
	second := strings.Index(text, "slothcreator/sloth.json ===")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("documents out of order:\n%s", text)
	}
}

func TestExportPlainUsesDocumentSentinels(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if _, err := openTestArchive(t).Export(context.Background(), &out, ExportOptions{}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	text := out.String()
	assertContains(t, text, "=== START FILE: doc://SlothCreator/documentation/SlothCreator ===")
	assertNotContains(t, text, "=== START FILE: data/")

	if got := strings.Count(text, "=== END FILE ===\n\n"); got != 3 {
		t.Fatalf("end markers = %d, want 3", got)
	}
}

func TestExportHTMLWrapsArticles(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	_, err := openTestArchive(t).Export(context.Background(), &out, ExportOptions{
		Render: Options{Format: FormatHTML},
		Label:  func(path string) string { return "/archive/" + path + "?a&b" },
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	text := out.String()
	assertContains(t, text, `<article data-path="/archive/data/documentation/slothcreator.json?a&amp;b">`)
	assertContains(t, text, "<h1")

	if got := strings.Count(text, "</article>"); got != 3 {
		t.Fatalf("articles = %d, want 3", got)
	}
}

func TestExportIncludeTutorials(t *testing.T) {
	t.Parallel()

	report, err := openTestArchive(t).Export(context.Background(), &bytes.Buffer{}, ExportOptions{IncludeTutorials: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	last := report.Exported[len(report.Exported)-1]
	if last != "data/tutorials/slothcreator.json" {
		t.Fatalf("tutorial should be exported last, got %v", report.Exported)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := openTestArchive(t).Export(context.Background(), &bytes.Buffer{}, ExportOptions{Render: Options{Format: "pdf"}})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("error = %v", err)
	}
}

func TestExportResolverModeLocal(t *testing.T) {
	t.Parallel()

	options := DefaultResolveOptions()
	options.RestrictToEntryReferences = false

	report, err := openTestArchive(t).Export(context.Background(), &bytes.Buffer{}, ExportOptions{
		Entry:   "data/documentation/slothcreator.json",
		Resolve: options,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := []string{
		"data/documentation/slothcreator.json",
		"data/documentation/slothcreator/sloth.json",
		"data/documentation/slothcreator/sloth/init(name:color:power:).json",
	}
	if diff := cmp.Diff(want, report.Exported); diff != "" {
		t.Fatalf("exported mismatch (-want +got):\n%s", diff)
	}

	if len(report.Failures) != 1 || len(report.Skipped) != 1 || report.Skipped[0].Path != "data/documentation/slothcreator/missing.json" {
		t.Fatalf("failures=%+v skipped=%+v", report.Failures, report.Skipped)
	}
}

func TestExportRemoteArchive(t *testing.T) {
	t.Parallel()

	location := serveTestArchive(t)
	archive, err := OpenArchive(location, HTTPConfig{})
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}

	var out bytes.Buffer
	report, err := archive.Export(context.Background(), &out, ExportOptions{
		Render:  Options{Format: FormatMarkdown},
		Entry:   RemoteEntryPath(location),
		Resolve: DefaultResolveOptions(),
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := []string{"data/documentation/slothcreator.json", "data/documentation/slothcreator/sloth.json"}
	if diff := cmp.Diff(want, report.Exported); diff != "" {
		t.Fatalf("exported mismatch (-want +got):\n%s", diff)
	}

	assertContains(t, out.String(), "**Sloth**")
}

func TestExportRemoteArchiveNeedsEntry(t *testing.T) {
	t.Parallel()

	archive, err := OpenArchive(serveTestArchive(t), HTTPConfig{})
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}

	_, err = archive.Export(context.Background(), &bytes.Buffer{}, ExportOptions{})
	if !errors.Is(err, ErrListUnsupported) {
		t.Fatalf("error = %v, want ErrListUnsupported", err)
	}
}

func TestOpenArchiveMissing(t *testing.T) {
	t.Parallel()

	if _, err := OpenArchive("testdata/Missing.doccarchive", HTTPConfig{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v", err)
	}
}

func TestRemoteEntryPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://example.com/docs/SlothCreator.doccarchive":  "data/documentation/slothcreator.json",
		"https://example.com/docs/SlothCreator.doccarchive/": "data/documentation/slothcreator.json",
		"http://example.com/Pkg.DocCArchive?token=1":         "data/documentation/pkg.json",
		"/tmp/Local.doccarchive":                             "data/documentation/local.json",
	}

	for location, want := range cases {
		if got := RemoteEntryPath(location); got != want {
			t.Fatalf("RemoteEntryPath(%q) = %q, want %q", location, got, want)
		}
	}
}

func TestIsRemoteLocation(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"https://example.com/Pkg.doccarchive": true,
		"HTTP://example.com/Pkg.doccarchive":  true,
		"./Pkg.doccarchive":                   false,
		"ftp://example.com/Pkg.doccarchive":   false,
	}

	for location, want := range cases {
		if got := IsRemoteLocation(location); got != want {
			t.Fatalf("IsRemoteLocation(%q) = %v, want %v", location, got, want)
		}
	}
}
