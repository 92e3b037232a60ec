// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// FSProvider serves a fully materialized archive from a file system.
type FSProvider struct {
	fsys fs.FS
}

// NewFSProvider wraps fsys rooted at the archive folder.
func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys}
}

// NewLocalProvider serves archive from local directory root.
func NewLocalProvider(root string) (*FSProvider, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ProviderError{Op: "open", Path: root, Err: ErrNotFound}
		}

		return nil, &ProviderError{Op: "open", Path: root, Err: err}
	}

	if !info.IsDir() {
		return nil, &ProviderError{Op: "open", Path: root, Err: fmt.Errorf("%w: not a directory", ErrNotFound)}
	}

	return NewFSProvider(os.DirFS(root)), nil
}

// Fetch reads one archive file.
func (p *FSProvider) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Op: "fetch", Path: path, Err: err}
	}

	data, err := fs.ReadFile(p.fsys, fsPath(path))
	if err != nil {
		return nil, &ProviderError{Op: "fetch", Path: path, Err: mapFSError(err)}
	}

	return data, nil
}

// Exists reports whether archive file or folder exists.
func (p *FSProvider) Exists(_ context.Context, path string) bool {
	_, err := fs.Stat(p.fsys, fsPath(path))
	return err == nil
}

// List returns folder children sorted by name.
func (p *FSProvider) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Op: "list", Path: dir, Err: err}
	}

	items, err := fs.ReadDir(p.fsys, fsPath(dir))
	if err != nil {
		return nil, &ProviderError{Op: "list", Path: dir, Err: mapFSError(err)}
	}

	out := make([]Entry, 0, len(items))
	for _, item := range items {
		out = append(out, Entry{Name: item.Name(), Dir: item.IsDir()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fsPath converts archive path into fs.FS path; root is ".".
func fsPath(path string) string {
	path = cleanArchivePath(path)
	if path == "" {
		return "."
	}

	return path
}

// mapFSError maps missing-file errors to ErrNotFound.
func mapFSError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
