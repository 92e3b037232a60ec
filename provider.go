// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"strings"
)

// Provider serves raw archive bytes by slash-separated path relative to archive root.
type Provider interface {
	// Fetch returns file bytes; errors wrap ErrNotFound when path is absent.
	Fetch(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path names a file or folder.
	Exists(ctx context.Context, path string) bool
	// List returns direct children of dir; may fail with ErrListUnsupported.
	List(ctx context.Context, dir string) ([]Entry, error)
}

// Entry is one child returned by Provider.List.
type Entry struct {
	Name string
	Dir  bool
}

// cleanArchivePath normalizes caller path into slash form without leading or trailing slash.
func cleanArchivePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.Trim(path, "/")
}

// joinArchivePath joins archive path segments with slashes.
func joinArchivePath(dir, name string) string {
	dir = cleanArchivePath(dir)
	if dir == "" {
		return cleanArchivePath(name)
	}

	return dir + "/" + cleanArchivePath(name)
}
