// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxDepth is the default resolver expansion depth.
	DefaultMaxDepth = 2
	// DefaultPrefix keeps traversal inside API reference documents.
	DefaultPrefix = "data/documentation/"
)

// Resolve failure reasons.
const (
	FailureFetch = "fetch"
	FailureHTML  = "html"
	FailureJSON  = "json"
)

// ResolveOptions configures reference traversal.
type ResolveOptions struct {
	// MaxDepth bounds expansion; paths at this depth are recorded but not expanded.
	MaxDepth int
	// Prefix limits recorded and expanded paths; empty allows all.
	Prefix string
	// RestrictToEntryReferences follows only identifiers present in entry references.
	RestrictToEntryReferences bool
	// Concurrency is the number of frontier documents fetched at once; <=1 is sequential.
	Concurrency int
	// Logger receives traversal diagnostics; nil discards them.
	Logger *slog.Logger
}

// DefaultResolveOptions returns options used by remote export.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		MaxDepth:                  DefaultMaxDepth,
		Prefix:                    DefaultPrefix,
		RestrictToEntryReferences: true,
		Concurrency:               1,
	}
}

// ResolveFailure records a path that was reached but could not be expanded.
type ResolveFailure struct {
	Path   string
	Reason string
	Err    error
}

// Resolution is the outcome of one traversal.
type Resolution struct {
	// Paths lists recorded paths in breadth-first visitation order.
	Paths []string
	// Failures lists paths whose payload could not be expanded.
	Failures []ResolveFailure
}

// Resolver discovers archive documents reachable from an entry document.
type Resolver struct {
	provider Provider
	options  ResolveOptions
	logger   *slog.Logger
}

// frontierItem is one queued traversal step.
type frontierItem struct {
	path  string
	depth int
}

// fetchResult holds bytes fetched for one frontier item.
type fetchResult struct {
	data []byte
	err  error
}

// NewResolver creates resolver over provider.
func NewResolver(provider Provider, options ResolveOptions) *Resolver {
	if options.MaxDepth < 0 {
		options.MaxDepth = 0
	}
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{provider: provider, options: options, logger: logger}
}

// Resolve walks references breadth-first from entryPath.
//
// The entry path is always recorded. Other paths are recorded only under the
// configured prefix. Each path is visited at most once, so reference cycles
// terminate. Failure to load the entry document is returned as an error;
// failures of other documents are collected in Resolution.Failures.
func (r *Resolver) Resolve(ctx context.Context, entryPath string) (Resolution, error) {
	entryPath = cleanArchivePath(entryPath)

	entryData, err := r.provider.Fetch(ctx, entryPath)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %w", ErrEntryDocument, err)
	}

	if isHTMLPayload(entryData) {
		return Resolution{}, fmt.Errorf("%w: %w", ErrEntryDocument, htmlPayloadError(entryData))
	}

	entryRoot, err := parseLoose(entryData)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q: %w", ErrEntryDocument, entryPath, err)
	}

	var known map[string]struct{}
	if r.options.RestrictToEntryReferences {
		identifiers := referenceIdentifiers(entryRoot)
		known = make(map[string]struct{}, len(identifiers))
		for _, identifier := range identifiers {
			known[identifier] = struct{}{}
		}
	}

	var result Resolution
	visited := map[string]struct{}{}
	queue := []frontierItem{{path: entryPath, depth: 0}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch := make([]frontierItem, 0, r.options.Concurrency)
		for len(queue) > 0 && len(batch) < r.options.Concurrency {
			current := queue[0]
			queue = queue[1:]

			if _, ok := visited[current.path]; ok {
				continue
			}

			visited[current.path] = struct{}{}
			batch = append(batch, current)
		}

		fetched := r.fetchBatch(ctx, batch, entryPath, entryData)
		for index, current := range batch {
			inScope := r.inScope(current.path)
			if current.path != entryPath && !inScope {
				r.logger.Debug("skip out of scope path", "path", current.path)
				continue
			}

			result.Paths = append(result.Paths, current.path)
			if !inScope || current.depth >= r.options.MaxDepth {
				continue
			}

			root, failure := r.payload(current.path, fetched[index])
			if failure != nil {
				r.logger.Warn("resolve document failed", "path", failure.Path, "reason", failure.Reason, "error", failure.Err)
				result.Failures = append(result.Failures, *failure)
				continue
			}

			for _, path := range r.children(root, known) {
				if _, ok := visited[path]; ok {
					continue
				}

				queue = append(queue, frontierItem{path: path, depth: current.depth + 1})
			}
		}
	}

	r.logger.Debug("resolve finished", "entry", entryPath, "paths", len(result.Paths), "failures", len(result.Failures))
	return result, nil
}

// inScope reports whether path passes the prefix filter.
func (r *Resolver) inScope(path string) bool {
	return r.options.Prefix == "" || strings.HasPrefix(path, r.options.Prefix)
}

// fetchBatch fetches bytes of expandable batch items, reusing entry bytes.
// Results are indexed like batch so expansion keeps FIFO order.
func (r *Resolver) fetchBatch(ctx context.Context, batch []frontierItem, entryPath string, entryData []byte) []fetchResult {
	results := make([]fetchResult, len(batch))

	var group errgroup.Group
	group.SetLimit(r.options.Concurrency)

	for index, current := range batch {
		if !r.inScope(current.path) || current.depth >= r.options.MaxDepth {
			continue
		}

		if current.path == entryPath {
			results[index] = fetchResult{data: entryData}
			continue
		}

		group.Go(func() error {
			data, err := r.provider.Fetch(ctx, current.path)
			results[index] = fetchResult{data: data, err: err}
			return nil
		})
	}

	_ = group.Wait()
	return results
}

// payload turns fetched bytes into generic JSON or a failure record.
func (r *Resolver) payload(path string, fetched fetchResult) (map[string]any, *ResolveFailure) {
	if fetched.err != nil {
		return nil, &ResolveFailure{Path: path, Reason: FailureFetch, Err: fetched.err}
	}

	if isHTMLPayload(fetched.data) {
		return nil, &ResolveFailure{Path: path, Reason: FailureHTML, Err: htmlPayloadError(fetched.data)}
	}

	root, err := parseLoose(fetched.data)
	if err != nil {
		return nil, &ResolveFailure{Path: path, Reason: FailureJSON, Err: err}
	}

	return root, nil
}

// children translates linked identifiers of one document into candidate paths.
func (r *Resolver) children(root map[string]any, known map[string]struct{}) []string {
	identifiers := linkedIdentifiers(root)
	out := make([]string, 0, len(identifiers))
	seen := make(map[string]struct{}, len(identifiers))

	for _, identifier := range identifiers {
		if known != nil {
			if _, ok := known[identifier]; !ok {
				continue
			}
		}

		path, ok := PathForIdentifier(identifier, root)
		if !ok {
			r.logger.Debug("drop unresolvable identifier", "identifier", identifier)
			continue
		}

		if _, ok := seen[path]; ok {
			continue
		}

		seen[path] = struct{}{}
		out = append(out, path)
	}

	return out
}

// isHTMLPayload reports whether payload looks like an HTML page.
func isHTMLPayload(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// htmlPayloadError wraps ErrHTMLPayload with page title when available.
func htmlPayloadError(data []byte) error {
	title := htmlTitle(data)
	if title == "" {
		return ErrHTMLPayload
	}

	return fmt.Errorf("%w: %q", ErrHTMLPayload, title)
}

// htmlTitle extracts <title> text from an HTML payload.
func htmlTitle(data []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))
	inTitle := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			inTitle = string(name) == "title"
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				return ""
			}
		case html.TextToken:
			if inTitle {
				return sanitizeText(string(tokenizer.Text()))
			}
		}
	}
}
