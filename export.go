// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package docc4llm

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// ExportOptions configures batch export.
type ExportOptions struct {
	// Render configures per-document rendering.
	Render Options
	// Entry switches export into resolver mode starting at this document path.
	// Empty means full enumeration of the documentation folder.
	Entry string
	// Resolve configures resolver mode.
	Resolve ResolveOptions
	// IncludeTutorials adds data/tutorials to full enumeration.
	IncludeTutorials bool
	// Label maps document path to the name written into file separators; nil keeps path.
	Label func(path string) string
}

// ExportSkip records a document left out of the export.
type ExportSkip struct {
	Path string
	Err  error
}

// ExportReport summarizes one export run.
type ExportReport struct {
	// Exported lists rendered document paths in output order.
	Exported []string
	// Skipped lists documents that failed to load or decode.
	Skipped []ExportSkip
	// Failures lists resolver failures in resolver mode.
	Failures []ResolveFailure
}

// Export renders every discovered document into w.
//
// Documents that fail to fetch or decode are logged and skipped. Setup errors,
// such as a missing documentation folder, an unknown format or an unreadable
// entry document, abort the export.
func (a *Archive) Export(ctx context.Context, w io.Writer, options ExportOptions) (ExportReport, error) {
	format, err := ParseFormat(string(options.Render.Format))
	if err != nil {
		return ExportReport{}, err
	}
	options.Render.Format = format

	var report ExportReport
	paths, failures, err := a.exportPaths(ctx, options)
	if err != nil {
		return report, err
	}
	report.Failures = failures

	for _, documentPath := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		doc, err := a.Document(ctx, documentPath)
		if err != nil {
			a.logger.Warn("skip document", "path", documentPath, "error", err)
			report.Skipped = append(report.Skipped, ExportSkip{Path: documentPath, Err: err})
			continue
		}

		label := documentPath
		if options.Label != nil {
			label = options.Label(documentPath)
		}

		if _, err := io.WriteString(w, wrapExported(label, RenderDocument(doc, options.Render), format)); err != nil {
			return report, fmt.Errorf("write %q: %w", documentPath, err)
		}

		a.logger.Debug("exported document", "path", documentPath)
		report.Exported = append(report.Exported, documentPath)
	}

	return report, nil
}

// exportPaths lists documents to export by enumeration or resolution.
func (a *Archive) exportPaths(ctx context.Context, options ExportOptions) ([]string, []ResolveFailure, error) {
	if options.Entry != "" {
		resolution, err := a.Resolve(ctx, options.Entry, options.Resolve)
		if err != nil {
			return nil, nil, err
		}

		return resolution.Paths, resolution.Failures, nil
	}

	folder, err := a.DocumentationFolder(ctx)
	if err != nil {
		return nil, nil, err
	}

	paths, err := folder.CollectPagePaths(ctx)
	if err != nil {
		return nil, nil, err
	}

	if options.IncludeTutorials {
		if tutorials, ok := a.TutorialsFolder(ctx); ok {
			tutorialPaths, err := tutorials.CollectPagePaths(ctx)
			if err != nil {
				return nil, nil, err
			}

			paths = append(paths, tutorialPaths...)
		}
	}

	a.logger.Debug("enumerated documents", "count", len(paths))
	return paths, nil, nil
}

// wrapExported adds per-file separators. Plain output carries its own sentinels.
func wrapExported(label, rendered string, format Format) string {
	switch format {
	case FormatMarkdown:
		return "=== START FILE: " + label + " ===\n\n" + rendered + "\n=== END FILE ===\n\n"
	case FormatHTML:
		return "<article data-path=\"" + html.EscapeString(label) + "\">\n" + rendered + "</article>\n\n"
	default:
		return rendered + "\n"
	}
}
