// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/docc4llm"
)

// manifest is the YAML report written by export --manifest.
type manifest struct {
	Archive  string          `yaml:"archive"`
	Mode     string          `yaml:"mode"`
	Entry    string          `yaml:"entry,omitempty"`
	Format   string          `yaml:"format"`
	Exported []string        `yaml:"exported"`
	Skipped  []manifestIssue `yaml:"skipped,omitempty"`
	Failures []manifestIssue `yaml:"failures,omitempty"`
}

// manifestIssue is one skipped or failed document.
type manifestIssue struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason,omitempty"`
	Error  string `yaml:"error"`
}

// newManifest builds manifest from export report.
func newManifest(archive, entry string, format docc4llm.Format, report docc4llm.ExportReport) manifest {
	out := manifest{
		Archive:  archive,
		Mode:     "enumerate",
		Entry:    entry,
		Format:   string(format),
		Exported: report.Exported,
	}
	if entry != "" {
		out.Mode = "resolve"
	}
	if out.Exported == nil {
		out.Exported = []string{}
	}

	for _, skip := range report.Skipped {
		out.Skipped = append(out.Skipped, manifestIssue{Path: skip.Path, Error: errorText(skip.Err)})
	}

	for _, failure := range report.Failures {
		out.Failures = append(out.Failures, manifestIssue{
			Path:   failure.Path,
			Reason: failure.Reason,
			Error:  errorText(failure.Err),
		})
	}

	return out
}

// writeManifest stores manifest as YAML file.
func writeManifest(path string, value manifest) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write manifest file %q: %w", path, err)
	}

	return nil
}

// errorText returns error message or empty string.
func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
