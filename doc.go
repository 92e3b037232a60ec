// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

/*
Package docc4llm converts DocC documentation archives into flat Markdown or
plain text suitable for language model ingestion.

An archive is a tree of render JSON documents under data/documentation and
data/tutorials. Documents decode into typed values; unknown section, content,
reference and inline kinds decode into explicit Unsupported variants and render
as empty text, so one odd node never fails a whole export.

Render one document from bytes:

	data, err := os.ReadFile("data/documentation/slothcreator.json")
	if err != nil {
		return err
	}

	md, err := docc4llm.Render(data, docc4llm.Options{
		Format: docc4llm.FormatMarkdown,
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Export a local archive by enumerating its documentation folder:

	archive, err := docc4llm.OpenArchive("SlothCreator.doccarchive", docc4llm.HTTPConfig{})
	if err != nil {
		return err
	}

	report, err := archive.Export(ctx, os.Stdout, docc4llm.ExportOptions{
		Render: docc4llm.Options{Format: docc4llm.FormatPlain},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "exported=%d skipped=%d\n", len(report.Exported), len(report.Skipped))

Hosted archives cannot be listed, so export follows references breadth-first
from the root document instead:

	location := "https://example.com/SlothCreator.doccarchive"
	archive, err := docc4llm.OpenArchive(location, docc4llm.HTTPConfig{})
	if err != nil {
		return err
	}

	report, err := archive.Export(ctx, os.Stdout, docc4llm.ExportOptions{
		Entry:   docc4llm.RemoteEntryPath(location),
		Resolve: docc4llm.DefaultResolveOptions(),
	})
*/
package docc4llm
