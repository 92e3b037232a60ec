// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/docc4llm

// docc4llm exports DocC documentation archives as text for language models.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/docc4llm"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/docc4llm"
	_buildTime string
)

// cliOptions describes docc4llm CLI subcommands.
type cliOptions struct {
	Version versionCommand `command:"version" description:"Print version information"`
	Export  exportCommand  `command:"export" description:"Export archive documents to one text stream"`
	Resolve resolveCommand `command:"resolve" description:"Print documents reachable from the archive entry document"`
	Render  renderCommand  `command:"render" description:"Render one document JSON file"`
}

// commonFlags groups flags shared by all working commands.
type commonFlags struct {
	ConfigPath string `short:"c" long:"config" description:"Path to YAML config file"`
	Verbose    bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

// renderFlags groups document rendering flags.
type renderFlags struct {
	Format        string `short:"f" long:"format" description:"Output format (default plain)" choice:"markdown" choice:"plain" choice:"html"`
	WrapWidth     *int   `short:"w" long:"wrap" description:"Wrap width for plain text paragraphs; 0 disables wrapping"`
	DefaultSyntax string `long:"default-syntax" description:"Code block syntax used when listing has none (default swift)"`
	SeeAlso       bool   `long:"see-also" description:"Render see also sections"`
}

// resolveFlags groups reference traversal flags.
type resolveFlags struct {
	Entry         string  `short:"e" long:"entry" description:"Entry document path relative to archive root; enables resolver mode"`
	MaxDepth      *int    `short:"d" long:"max-depth" description:"Reference expansion depth (default 2)"`
	Prefix        *string `short:"p" long:"prefix" description:"Only record and expand paths with this prefix (default data/documentation/)"`
	Concurrency   *int    `long:"concurrency" description:"Documents fetched at once (default 1)"`
	AllReferences bool    `long:"all-references" description:"Follow identifiers missing from entry document references"`
}

// exportCommand exports a whole archive.
type exportCommand struct {
	runner *cliRunner
	Args   struct {
		Archive string `positional-arg-name:"archive" description:"Archive folder path or http(s) URL" required:"yes"`
		Output  string `positional-arg-name:"output" description:"Output file or directory path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	OutputPath       string `short:"o" long:"output" description:"Output file or directory path (overrides positional output)"`
	RelativePaths    bool   `long:"relative-paths" description:"Use archive-relative paths in file separators"`
	IncludeTutorials bool   `long:"include-tutorials" description:"Also export data/tutorials when enumerating"`
	ManifestPath     string `short:"m" long:"manifest" description:"Write YAML export report to this path"`

	Common       commonFlags  `group:"Common"`
	RenderFlags  renderFlags  `group:"Render"`
	ResolveFlags resolveFlags `group:"Resolve"`
}

// Execute runs export subcommand.
func (command *exportCommand) Execute(_ []string) error {
	return command.runner.runExport(command)
}

// resolveCommand prints resolver output.
type resolveCommand struct {
	runner *cliRunner
	Args   struct {
		Archive string `positional-arg-name:"archive" description:"Archive folder path or http(s) URL" required:"yes"`
	} `positional-args:"yes"`

	Common       commonFlags  `group:"Common"`
	ResolveFlags resolveFlags `group:"Resolve"`
}

// Execute runs resolve subcommand.
func (command *resolveCommand) Execute(_ []string) error {
	return command.runner.runResolve(command)
}

// renderCommand renders one document.
type renderCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input document JSON path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	Common      commonFlags `group:"Common"`
	RenderFlags renderFlags `group:"Render"`
}

// Execute runs render subcommand.
func (command *renderCommand) Execute(_ []string) error {
	return command.runner.runRender(command)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	ctx         context.Context
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runContext(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runContext(context.Background(), args, stdin, stdout, stderr)
}

// runContext executes CLI logic bound to ctx.
func runContext(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "docc4llm"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		ctx:         ctx,
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runExport renders every archive document into one output.
func (runner *cliRunner) runExport(command *exportCommand) error {
	cfg, logger, err := runner.settings(command.Common, &command.RenderFlags, &command.ResolveFlags)
	if err != nil {
		return err
	}

	if command.RelativePaths {
		cfg.RelativePaths = true
	}
	if command.IncludeTutorials {
		cfg.IncludeTutorials = true
	}

	location := command.Args.Archive
	archive, err := docc4llm.OpenArchive(location, cfg.httpProviderConfig(), docc4llm.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	options := docc4llm.ExportOptions{
		Render:           cfg.renderOptions(),
		IncludeTutorials: cfg.IncludeTutorials,
		Label:            pathLabel(location, cfg.RelativePaths),
	}

	if command.ResolveFlags.Entry != "" || docc4llm.IsRemoteLocation(location) {
		options.Entry = entryPath(location, command.ResolveFlags.Entry)
		options.Resolve = cfg.resolveOptions(logger)
		logger.Debug("resolver mode", "entry", options.Entry)
	}

	var rendered bytes.Buffer
	report, err := archive.Export(runner.ctx, &rendered, options)
	if err != nil {
		return fmt.Errorf("export archive: %w", err)
	}

	outputPath := command.OutputPath
	if outputPath == "" {
		outputPath = command.Args.Output
	}

	outputPath = exportOutputPath(outputPath, location, options.Render.Format)
	if err := runner.writeOutput(outputPath, rendered.Bytes()); err != nil {
		return err
	}

	if command.ManifestPath != "" {
		if err := writeManifest(command.ManifestPath, newManifest(location, options.Entry, options.Render.Format, report)); err != nil {
			return err
		}
	}

	logger.Info("export finished",
		"exported", len(report.Exported),
		"skipped", len(report.Skipped),
		"failures", len(report.Failures),
	)
	return nil
}

// runResolve prints resolved document paths one per line.
func (runner *cliRunner) runResolve(command *resolveCommand) error {
	cfg, logger, err := runner.settings(command.Common, nil, &command.ResolveFlags)
	if err != nil {
		return err
	}

	location := command.Args.Archive
	archive, err := docc4llm.OpenArchive(location, cfg.httpProviderConfig(), docc4llm.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	resolution, err := archive.Resolve(runner.ctx, entryPath(location, command.ResolveFlags.Entry), cfg.resolveOptions(logger))
	if err != nil {
		return fmt.Errorf("resolve archive: %w", err)
	}

	var out strings.Builder
	for _, path := range resolution.Paths {
		out.WriteString(path + "\n")
	}

	if _, err := io.WriteString(runner.stdout, out.String()); err != nil {
		return fmt.Errorf("write paths to stdout: %w", err)
	}

	return nil
}

// runRender renders one document from file or stdin.
func (runner *cliRunner) runRender(command *renderCommand) error {
	cfg, _, err := runner.settings(command.Common, &command.RenderFlags, nil)
	if err != nil {
		return err
	}

	data, err := runner.readDocumentInput(command.Args.Input)
	if err != nil {
		return fmt.Errorf("read document input: %w", err)
	}

	rendered, err := docc4llm.Render(data, cfg.renderOptions())
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	return runner.writeOutput(command.Args.Output, []byte(rendered))
}

// settings loads config, applies flag overrides and builds logger.
func (runner *cliRunner) settings(common commonFlags, render *renderFlags, resolve *resolveFlags) (*config, *slog.Logger, error) {
	cfg, err := loadConfig(common.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	if render != nil {
		if render.Format != "" {
			cfg.Format = render.Format
		}
		if render.WrapWidth != nil {
			cfg.WrapWidth = *render.WrapWidth
		}
		if render.DefaultSyntax != "" {
			cfg.DefaultSyntax = render.DefaultSyntax
		}
		if render.SeeAlso {
			cfg.IncludeSeeAlso = true
		}
	}

	if resolve != nil {
		if resolve.MaxDepth != nil {
			cfg.Resolve.MaxDepth = *resolve.MaxDepth
		}
		if resolve.Prefix != nil {
			cfg.Resolve.Prefix = *resolve.Prefix
		}
		if resolve.Concurrency != nil {
			cfg.Resolve.Concurrency = *resolve.Concurrency
		}
		if resolve.AllReferences {
			cfg.Resolve.AllReferences = true
		}
	}

	if common.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(runner.stderr, &slog.HandlerOptions{Level: level}))

	return cfg, logger, nil
}

// readDocumentInput reads document from file path or stdin.
func (runner *cliRunner) readDocumentInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document file %q: %w", path, err)
		}

		return data, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, fmt.Errorf("read document from stdin: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("read document from stdin: empty input")
	}

	return data, nil
}

// writeOutput writes data to file or stdout.
func (runner *cliRunner) writeOutput(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write output to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write output file %q: %w", path, err)
	}

	return nil
}

// exportOutputPath names the export file after the archive when path is an existing directory.
func exportOutputPath(path, location string, format docc4llm.Format) string {
	if strings.TrimSpace(path) == "" {
		return path
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path
	}

	name := strings.TrimSuffix(filepath.Base(docc4llm.RemoteEntryPath(filepath.ToSlash(location))), ".json")
	return filepath.Join(path, name+format.FileExtension())
}

// entryPath returns explicit entry or the archive-name convention.
func entryPath(location, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}

	return docc4llm.RemoteEntryPath(filepath.ToSlash(location))
}

// pathLabel builds file separator labels: archive-relative or prefixed by archive location.
func pathLabel(location string, relative bool) func(string) string {
	if relative {
		return nil
	}

	if docc4llm.IsRemoteLocation(location) {
		base := strings.TrimRight(location, "/")
		return func(path string) string {
			return base + "/" + path
		}
	}

	base, err := filepath.Abs(location)
	if err != nil {
		base = location
	}

	return func(path string) string {
		return filepath.Join(base, filepath.FromSlash(path))
	}
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Export.runner = runner
	options.Resolve.runner = runner
	options.Render.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"export": strings.TrimSpace(fmt.Sprintf(`
Export every documentation page of a DocC archive into one text stream.
Local archives are enumerated from data/documentation.
Hosted archives (http/https) are crawled from the root document by following references.
Documents that fail to decode are logged and skipped.

Examples:
> $ %s export SlothCreator.doccarchive > sloth.txt
> $ %s export SlothCreator.doccarchive --format markdown --output sloth.md
> $ %s export https://example.com/SlothCreator.doccarchive --max-depth 3 -m report.yaml
`, programName, programName, programName)),
		"resolve": strings.TrimSpace(fmt.Sprintf(`
Print archive paths reachable from the entry document, one per line.
The entry defaults to data/documentation/<archive name>.json.

Examples:
> $ %s resolve https://example.com/SlothCreator.doccarchive
> $ %s resolve SlothCreator.doccarchive --entry data/documentation/slothcreator.json --prefix ""
`, programName, programName)),
		"render": strings.TrimSpace(fmt.Sprintf(`
Render one DocC render JSON document.
Reads from file argument or stdin; writes to file argument or stdout.

Examples:
> $ %s render data/documentation/slothcreator.json
> $ cat sloth.json | %s render --format markdown > sloth.md
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build information to stdout.
func (runner *cliRunner) printVersionInfo() {
	_, _ = fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, runner.programName, Version, Commit, BuildTime)
}
