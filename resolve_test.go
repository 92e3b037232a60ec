// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

// countingProvider records fetch calls of wrapped provider.
type countingProvider struct {
	Provider

	mu      sync.Mutex
	fetched map[string]int
}

func newCountingProvider(provider Provider) *countingProvider {
	return &countingProvider{Provider: provider, fetched: map[string]int{}}
}

func (p *countingProvider) Fetch(ctx context.Context, path string) ([]byte, error) {
	p.mu.Lock()
	p.fetched[path]++
	p.mu.Unlock()

	return p.Provider.Fetch(ctx, path)
}

func (p *countingProvider) count(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fetched[path]
}

// mapProvider builds in-memory provider from path to payload map.
func mapProvider(files map[string]string) *FSProvider {
	fsys := fstest.MapFS{}
	for path, data := range files {
		fsys[path] = &fstest.MapFile{Data: []byte(data)}
	}

	return NewFSProvider(fsys)
}

// linkDocument builds minimal document JSON linking to given documentation paths.
func linkDocument(paths ...string) string {
	identifiers := ""
	references := ""
	for i, path := range paths {
		if i > 0 {
			identifiers += ", "
			references += ", "
		}

		identifier := "doc://Pkg" + path
		identifiers += fmt.Sprintf("%q", identifier)
		references += fmt.Sprintf(`%q: {"type": "topic", "url": %q}`, identifier, path)
	}

	return fmt.Sprintf(`{"topicSections": [{"identifiers": [%s]}], "references": {%s}}`, identifiers, references)
}

func resolvePaths(t *testing.T, provider Provider, entry string, options ResolveOptions) Resolution {
	t.Helper()

	result, err := NewResolver(provider, options).Resolve(context.Background(), entry)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	return result
}

func TestResolveVariantPathScenario(t *testing.T) {
	t.Parallel()

	provider := mapProvider(map[string]string{
		"data/documentation/pkg.json": `{
  "topicSections": [{"identifiers": ["doc://Pkg/Foo"]}],
  "references": {"doc://Pkg/Foo": {"variants": [{"paths": ["/pkg/foo"]}]}}
}`,
	})

	result := resolvePaths(t, provider, "data/documentation/pkg.json", DefaultResolveOptions())

	want := []string{"data/documentation/pkg.json", "data/documentation/pkg/foo.json"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if len(result.Failures) != 1 || result.Failures[0].Reason != FailureFetch || !errors.Is(result.Failures[0].Err, ErrNotFound) {
		t.Fatalf("failures = %+v", result.Failures)
	}
}

func TestResolveIgnoresExternalLinks(t *testing.T) {
	t.Parallel()

	provider := newCountingProvider(mapProvider(map[string]string{
		"data/documentation/pkg.json": `{
  "topicSections": [{"identifiers": ["doc://Pkg/Foo"]}],
  "references": {
    "doc://Pkg/Foo": {"type": "topic", "url": "/documentation/pkg/foo"},
    "https://swift.org/docs": {"type": "link", "url": "https://swift.org/docs"}
  }
}`,
		"data/documentation/pkg/foo.json": linkDocument(),
	}))

	result := resolvePaths(t, provider, "data/documentation/pkg.json", DefaultResolveOptions())

	want := []string{"data/documentation/pkg.json", "data/documentation/pkg/foo.json"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if len(result.Failures) != 0 {
		t.Fatalf("failures = %+v", result.Failures)
	}

	if got := provider.count("data/documentation/https://swift.org/docs.json"); got != 0 {
		t.Fatalf("external link fetched %d times", got)
	}
}

func TestResolveTerminatesOnCycles(t *testing.T) {
	t.Parallel()

	provider := mapProvider(map[string]string{
		"data/documentation/a.json": linkDocument("/documentation/b", "/documentation/a"),
		"data/documentation/b.json": linkDocument("/documentation/a", "/documentation/b"),
	})

	options := ResolveOptions{MaxDepth: 10, Prefix: DefaultPrefix}
	result := resolvePaths(t, provider, "data/documentation/a.json", options)

	want := []string{"data/documentation/a.json", "data/documentation/b.json"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
}

func TestResolvePrefixFilter(t *testing.T) {
	t.Parallel()

	provider := newCountingProvider(mapProvider(map[string]string{
		"data/documentation/a.json": linkDocument("/documentation/b", "/tutorials/intro"),
		"data/documentation/b.json": linkDocument(),
		"data/tutorials/intro.json": linkDocument("/documentation/c"),
	}))

	options := ResolveOptions{MaxDepth: 5, Prefix: DefaultPrefix}
	result := resolvePaths(t, provider, "data/documentation/a.json", options)

	want := []string{"data/documentation/a.json", "data/documentation/b.json"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if provider.count("data/tutorials/intro.json") != 0 {
		t.Fatal("out of scope path should never be fetched")
	}

	result = resolvePaths(t, provider, "data/documentation/a.json", ResolveOptions{MaxDepth: 5})
	want = []string{"data/documentation/a.json", "data/documentation/b.json", "data/tutorials/intro.json", "data/documentation/c.json"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("paths without prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEntryOutsidePrefixIsRecorded(t *testing.T) {
	t.Parallel()

	provider := newCountingProvider(mapProvider(map[string]string{
		"data/tutorials/intro.json": linkDocument("/documentation/a"),
	}))

	result := resolvePaths(t, provider, "data/tutorials/intro.json", ResolveOptions{MaxDepth: 2, Prefix: DefaultPrefix})

	want := []string{"data/tutorials/intro.json"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if provider.count("data/documentation/a.json") != 0 {
		t.Fatal("entry outside prefix should not be expanded")
	}
}

func TestResolveDepthBound(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"data/documentation/a.json": linkDocument("/documentation/b"),
		"data/documentation/b.json": linkDocument("/documentation/c"),
		"data/documentation/c.json": linkDocument("/documentation/d"),
		"data/documentation/d.json": linkDocument(),
	}

	cases := []struct {
		depth int
		want  []string
	}{
		{depth: 0, want: []string{"data/documentation/a.json"}},
		{depth: 1, want: []string{"data/documentation/a.json", "data/documentation/b.json"}},
		{depth: 2, want: []string{"data/documentation/a.json", "data/documentation/b.json", "data/documentation/c.json"}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("depth %d", tc.depth), func(t *testing.T) {
			t.Parallel()

			provider := newCountingProvider(mapProvider(files))
			result := resolvePaths(t, provider, "data/documentation/a.json", ResolveOptions{MaxDepth: tc.depth, Prefix: DefaultPrefix})

			if diff := cmp.Diff(tc.want, result.Paths); diff != "" {
				t.Fatalf("paths mismatch (-want +got):\n%s", diff)
			}

			last := tc.want[len(tc.want)-1]
			if last != "data/documentation/a.json" && provider.count(last) != 0 {
				t.Fatalf("path at max depth %q should not be fetched", last)
			}
		})
	}
}

func TestResolveRecordsPayloadFailures(t *testing.T) {
	t.Parallel()

	provider := mapProvider(map[string]string{
		"data/documentation/a.json":      linkDocument("/documentation/page", "/documentation/broken", "/documentation/missing"),
		"data/documentation/page.json":   "\n  <!DOCTYPE html><html><head><title>Page Not Found</title></head><body></body></html>",
		"data/documentation/broken.json": `{"topicSections": [`,
	})

	result := resolvePaths(t, provider, "data/documentation/a.json", ResolveOptions{MaxDepth: 2, Prefix: DefaultPrefix})

	wantPaths := []string{
		"data/documentation/a.json",
		"data/documentation/page.json",
		"data/documentation/broken.json",
		"data/documentation/missing.json",
	}
	if diff := cmp.Diff(wantPaths, result.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	if len(result.Failures) != 3 {
		t.Fatalf("failures = %+v", result.Failures)
	}

	gotReasons := []string{result.Failures[0].Reason, result.Failures[1].Reason, result.Failures[2].Reason}
	if diff := cmp.Diff([]string{FailureHTML, FailureJSON, FailureFetch}, gotReasons); diff != "" {
		t.Fatalf("failure reasons mismatch (-want +got):\n%s", diff)
	}

	htmlFailure := result.Failures[0]
	if !errors.Is(htmlFailure.Err, ErrHTMLPayload) {
		t.Fatalf("html failure error = %v", htmlFailure.Err)
	}
	assertContains(t, htmlFailure.Err.Error(), "Page Not Found")
}

func TestResolveRestrictToEntryReferences(t *testing.T) {
	t.Parallel()

	provider := mapProvider(map[string]string{
		"data/documentation/a.json": linkDocument("/documentation/b"),
		"data/documentation/b.json": linkDocument("/documentation/c"),
		"data/documentation/c.json": linkDocument(),
	})

	restricted := resolvePaths(t, provider, "data/documentation/a.json", DefaultResolveOptions())
	if diff := cmp.Diff([]string{"data/documentation/a.json", "data/documentation/b.json"}, restricted.Paths); diff != "" {
		t.Fatalf("restricted paths mismatch (-want +got):\n%s", diff)
	}

	options := DefaultResolveOptions()
	options.RestrictToEntryReferences = false

	all := resolvePaths(t, provider, "data/documentation/a.json", options)
	want := []string{"data/documentation/a.json", "data/documentation/b.json", "data/documentation/c.json"}
	if diff := cmp.Diff(want, all.Paths); diff != "" {
		t.Fatalf("unrestricted paths mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFixtureArchive(t *testing.T) {
	t.Parallel()

	provider := NewFSProvider(os.DirFS(testArchiveRoot))
	entry := "data/documentation/slothcreator.json"

	restricted := resolvePaths(t, provider, entry, DefaultResolveOptions())
	want := []string{entry, "data/documentation/slothcreator/sloth.json"}
	if diff := cmp.Diff(want, restricted.Paths); diff != "" {
		t.Fatalf("restricted paths mismatch (-want +got):\n%s", diff)
	}

	options := DefaultResolveOptions()
	options.RestrictToEntryReferences = false

	all := resolvePaths(t, provider, entry, options)
	want = []string{
		entry,
		"data/documentation/slothcreator/sloth.json",
		"data/documentation/slothcreator/missing.json",
		"data/documentation/slothcreator/sloth/init(name:color:power:).json",
	}
	if diff := cmp.Diff(want, all.Paths); diff != "" {
		t.Fatalf("unrestricted paths mismatch (-want +got):\n%s", diff)
	}

	if len(all.Failures) != 1 || all.Failures[0].Path != "data/documentation/slothcreator/missing.json" {
		t.Fatalf("failures = %+v", all.Failures)
	}
}

func TestResolveConcurrencyKeepsOrder(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"data/documentation/root.json":  linkDocument("/documentation/a", "/documentation/b", "/documentation/c", "/documentation/d"),
		"data/documentation/a.json":     linkDocument("/documentation/a/one", "/documentation/b"),
		"data/documentation/b.json":     linkDocument("/documentation/b/two", "/documentation/root"),
		"data/documentation/c.json":     `<html><title>gone</title></html>`,
		"data/documentation/a/one.json": linkDocument("/documentation/a/one/deep"),
		"data/documentation/b/two.json": linkDocument(),
	}

	sequential := ResolveOptions{MaxDepth: 3, Prefix: DefaultPrefix, Concurrency: 1}
	parallel := sequential
	parallel.Concurrency = 4

	want := resolvePaths(t, mapProvider(files), "data/documentation/root.json", sequential)
	got := resolvePaths(t, mapProvider(files), "data/documentation/root.json", parallel)

	if diff := cmp.Diff(want.Paths, got.Paths); diff != "" {
		t.Fatalf("concurrent paths mismatch (-sequential +concurrent):\n%s", diff)
	}

	failurePaths := func(failures []ResolveFailure) []string {
		out := make([]string, 0, len(failures))
		for _, failure := range failures {
			out = append(out, failure.Path+":"+failure.Reason)
		}
		return out
	}

	if diff := cmp.Diff(failurePaths(want.Failures), failurePaths(got.Failures)); diff != "" {
		t.Fatalf("concurrent failures mismatch (-sequential +concurrent):\n%s", diff)
	}

	seen := map[string]bool{}
	for _, path := range got.Paths {
		if seen[path] {
			t.Fatalf("duplicate path %q in %v", path, got.Paths)
		}
		seen[path] = true
	}
}

func TestResolveEntryFailures(t *testing.T) {
	t.Parallel()

	provider := mapProvider(map[string]string{
		"data/documentation/page.json":    `<html><head><title>Sign in</title></head></html>`,
		"data/documentation/invalid.json": `{`,
	})

	cases := []struct {
		entry string
		cause error
	}{
		{entry: "data/documentation/missing.json", cause: ErrNotFound},
		{entry: "data/documentation/page.json", cause: ErrHTMLPayload},
		{entry: "data/documentation/invalid.json", cause: ErrEntryDocument},
	}

	for _, tc := range cases {
		_, err := NewResolver(provider, DefaultResolveOptions()).Resolve(context.Background(), tc.entry)
		if !errors.Is(err, ErrEntryDocument) || !errors.Is(err, tc.cause) {
			t.Fatalf("Resolve(%q) error = %v, want ErrEntryDocument and %v", tc.entry, err, tc.cause)
		}
	}
}

func TestResolveHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	provider := mapProvider(map[string]string{
		"data/documentation/a.json": linkDocument(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(provider, DefaultResolveOptions()).Resolve(ctx, "data/documentation/a.json")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestHTMLTitle(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`<html><head><title>  Not   Found </title></head></html>`: "Not Found",
		`<html><head></head><body>x</body></html>`:                  "",
		`<title></title>`:                                           "",
	}

	for input, want := range cases {
		if got := htmlTitle([]byte(input)); got != want {
			t.Fatalf("htmlTitle(%q) = %q, want %q", input, got, want)
		}
	}
}
