// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
)

const (
	// DocumentationFolderPath holds API reference and article documents.
	DocumentationFolderPath = "data/documentation"
	// TutorialsFolderPath holds tutorial documents.
	TutorialsFolderPath = "data/tutorials"
	// archiveSuffix is stripped from archive names when deriving entry path.
	archiveSuffix = ".doccarchive"
)

// Archive composes a provider with decoding and resolving.
type Archive struct {
	provider Provider
	logger   *slog.Logger
}

// ArchiveOption configures Archive.
type ArchiveOption func(*Archive)

// WithLogger sets archive logger.
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(a *Archive) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArchive creates archive over provider.
func NewArchive(provider Provider, options ...ArchiveOption) *Archive {
	archive := &Archive{
		provider: provider,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(archive)
	}

	return archive
}

// OpenArchive opens a local folder or, for http and https locations, a hosted archive.
func OpenArchive(location string, httpConfig HTTPConfig, options ...ArchiveOption) (*Archive, error) {
	if IsRemoteLocation(location) {
		provider, err := NewHTTPProvider(location, httpConfig)
		if err != nil {
			return nil, err
		}

		return NewArchive(provider, options...), nil
	}

	provider, err := NewLocalProvider(location)
	if err != nil {
		return nil, err
	}

	return NewArchive(provider, options...), nil
}

// IsRemoteLocation reports whether location is an http or https URL.
func IsRemoteLocation(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// RemoteEntryPath derives the root document path of a hosted archive from its URL.
// "https://host/Foo.doccarchive" yields "data/documentation/foo.json".
func RemoteEntryPath(location string) string {
	name := location
	if parsed, err := url.Parse(location); err == nil && parsed.Path != "" {
		name = parsed.Path
	}

	name = path.Base(strings.TrimRight(name, "/"))
	name = lowerText(name)
	name = strings.TrimSuffix(name, archiveSuffix)

	return DocumentationFolderPath + "/" + name + ".json"
}

// Document fetches and decodes one document.
func (a *Archive) Document(ctx context.Context, documentPath string) (*Document, error) {
	data, err := a.provider.Fetch(ctx, documentPath)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Path = documentPath
		}

		return nil, err
	}

	return doc, nil
}

// DocumentationFolder returns data/documentation when the archive has it.
func (a *Archive) DocumentationFolder(ctx context.Context) (Folder, error) {
	if !a.provider.Exists(ctx, DocumentationFolderPath) {
		return Folder{}, ErrNoDocumentationFolder
	}

	return Folder{Path: DocumentationFolderPath, archive: a}, nil
}

// TutorialsFolder returns data/tutorials when the archive has it.
func (a *Archive) TutorialsFolder(ctx context.Context) (Folder, bool) {
	if !a.provider.Exists(ctx, TutorialsFolderPath) {
		return Folder{}, false
	}

	return Folder{Path: TutorialsFolderPath, archive: a}, true
}

// Resolve discovers documents reachable from entry, using the archive logger by default.
func (a *Archive) Resolve(ctx context.Context, entry string, options ResolveOptions) (Resolution, error) {
	if options.Logger == nil {
		options.Logger = a.logger
	}

	return NewResolver(a.provider, options).Resolve(ctx, entry)
}

// Folder is one archive directory of documents.
type Folder struct {
	// Path is slash-separated and relative to archive root.
	Path    string
	archive *Archive
}

// Level returns folder nesting depth from archive root.
func (f Folder) Level() int {
	if f.Path == "" {
		return 0
	}

	return strings.Count(f.Path, "/") + 1
}

// PagePaths lists JSON documents directly inside folder.
func (f Folder) PagePaths(ctx context.Context) ([]string, error) {
	entries, err := f.archive.provider.List(ctx, f.Path)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Dir || !strings.HasSuffix(entry.Name, ".json") {
			continue
		}

		out = append(out, joinArchivePath(f.Path, entry.Name))
	}

	return out, nil
}

// Subfolders lists direct child folders.
func (f Folder) Subfolders(ctx context.Context) ([]Folder, error) {
	entries, err := f.archive.provider.List(ctx, f.Path)
	if err != nil {
		return nil, err
	}

	out := make([]Folder, 0, len(entries))
	for _, entry := range entries {
		if !entry.Dir {
			continue
		}

		out = append(out, Folder{Path: joinArchivePath(f.Path, entry.Name), archive: f.archive})
	}

	return out, nil
}

// CollectPagePaths lists JSON documents of folder and all subfolders, pages before subfolders.
func (f Folder) CollectPagePaths(ctx context.Context) ([]string, error) {
	pages, err := f.PagePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect %q: %w", f.Path, err)
	}

	subfolders, err := f.Subfolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect %q: %w", f.Path, err)
	}

	for _, subfolder := range subfolders {
		nested, err := subfolder.CollectPagePaths(ctx)
		if err != nil {
			return nil, err
		}

		pages = append(pages, nested...)
	}

	return pages, nil
}
