package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/Yamashou/uibindgen/cache"
	"github.com/Yamashou/uibindgen/codegen"
	"github.com/Yamashou/uibindgen/config"
	"github.com/Yamashou/uibindgen/loader"
	"github.com/Yamashou/uibindgen/plugins"
)

// GenerateCmd generates binding code.
type GenerateCmd struct {
	DryRun bool   `help:"List the files that would change without writing them."`
	Diff   bool   `help:"Print a unified diff of the files that would change without writing them."`
	Report string `help:"Write a JSON report of the run to this file." type:"path"`
}

func (g *GenerateCmd) Run(ctx context.Context, cli *CLI, logger *slog.Logger) error {
	return generate(ctx, logger, generateOptions{
		ConfigFile: cli.Config,
		DryRun:     g.DryRun,
		Diff:       g.Diff,
		Report:     g.Report,
		Out:        os.Stdout,
	})
}

type generateOptions struct {
	ConfigFile string
	DryRun     bool
	Diff       bool
	Report     string
	Out        io.Writer
}

// Unit statuses in the report.
const (
	statusWritten   = "written"
	statusUnchanged = "unchanged"
	statusPending   = "pending"
	statusRemoved   = "removed"
)

type report struct {
	Config      string             `json:"config"`
	Units       []reportUnit       `json:"units"`
	Diagnostics []reportDiagnostic `json:"diagnostics"`
	CacheHits   int                `json:"cache_hits"`
}

type reportUnit struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

type reportDiagnostic struct {
	Severity string `json:"severity"`
	Position string `json:"position,omitempty"`
	Type     string `json:"type"`
	Member   string `json:"member,omitempty"`
	Message  string `json:"message"`
}

func generate(ctx context.Context, logger *slog.Logger, opts generateOptions) error {
	cfgFile := opts.ConfigFile
	if cfgFile == "" {
		found, err := config.FindConfigFile(".")
		if err != nil {
			return fmt.Errorf("failed to find config file: %w", err)
		}
		cfgFile = found
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	logger.Debug("loaded config", "file", cfgFile, "packages", cfg.Packages)

	markers := cfg.Path(filepath.Join(cfg.Markers.Dir, cfg.Markers.Filename))
	pkgs, err := loader.Load(cfg.Dir, []string{markers}, cfg.Packages...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.TypeErrors {
			logger.Warn("type error with generated code removed", "pkg", pkg.PkgPath, "err", e)
		}
	}

	var c *cache.Cache
	if cfg.Cache.Filename != "" {
		c, err = cache.Open(cfg.Path(cfg.Cache.Filename))
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	result, err := plugins.GenerateCode(ctx, cfg, pkgs, plugins.Options{Logger: logger, Cache: c})
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	rep := report{
		Config:      cfgFile,
		Units:       make([]reportUnit, 0, len(result.Units)),
		Diagnostics: make([]reportDiagnostic, 0, len(result.Diagnostics)),
		CacheHits:   result.CacheHits,
	}

	skipped := 0
	for _, d := range result.Diagnostics {
		level := slog.LevelWarn
		if d.Severity == codegen.Error {
			level = slog.LevelError
			skipped++
		}
		logger.Log(ctx, level, d.Err.Error(), "type", d.Owner, "member", d.Member, "pos", d.Pos.String())
		rep.Diagnostics = append(rep.Diagnostics, newReportDiagnostic(d))
	}

	written := 0
	for _, u := range result.Units {
		status, err := emit(u, opts)
		if err != nil {
			return err
		}
		if status == statusWritten {
			written++
		}
		rep.Units = append(rep.Units, reportUnit{Path: relativePath(cfg.Dir, u.Path()), Status: status})
	}

	removed := 0
	for _, path := range staleFiles(pkgs, result) {
		status, err := remove(path, opts)
		if err != nil {
			return err
		}
		if status == statusRemoved {
			removed++
		}
		rep.Units = append(rep.Units, reportUnit{Path: relativePath(cfg.Dir, path), Status: status})
	}

	if opts.Report != "" {
		if err := writeReport(opts.Report, rep); err != nil {
			return err
		}
	}

	if c != nil && !opts.DryRun && !opts.Diff {
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save cache: %w", err)
		}
	}

	logger.Info("generation finished", "units", len(result.Units), "written", written, "removed", removed, "cache_hits", result.CacheHits)

	if skipped > 0 {
		return fmt.Errorf("%d type(s) skipped because of errors", skipped)
	}
	return nil
}

// emit writes u unless the file on disk already has its content. In dry-run
// and diff mode nothing is written; changed units are reported to opts.Out.
func emit(u *codegen.Unit, opts generateOptions) (string, error) {
	path := u.Path()

	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if bytes.Equal(current, u.Source) {
		return statusUnchanged, nil
	}

	switch {
	case opts.Diff:
		edits := myers.ComputeEdits(span.URIFromPath(path), string(current), string(u.Source))
		fmt.Fprint(opts.Out, gotextdiff.ToUnified(path, path, string(current), edits))
		return statusPending, nil
	case opts.DryRun:
		fmt.Fprintln(opts.Out, path)
		return statusPending, nil
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", u.Dir, err)
	}
	if err := os.WriteFile(path, u.Source, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return statusWritten, nil
}

// staleFiles returns the files written by a previous run that no unit of
// result replaces. Files of skipped types are kept.
func staleFiles(pkgs []*loader.Package, result *plugins.Result) []string {
	current := make(map[string]bool, len(result.Units)+len(result.Retained))
	for _, u := range result.Units {
		current[filepath.Clean(u.Path())] = true
	}
	for _, path := range result.Retained {
		current[filepath.Clean(path)] = true
	}

	var stale []string
	for _, pkg := range pkgs {
		for _, path := range pkg.Generated {
			if !current[filepath.Clean(path)] {
				stale = append(stale, path)
			}
		}
	}
	return stale
}

// remove deletes a stale file. In dry-run and diff mode it is only reported
// to opts.Out.
func remove(path string, opts generateOptions) (string, error) {
	switch {
	case opts.Diff:
		current, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		edits := myers.ComputeEdits(span.URIFromPath(path), string(current), "")
		fmt.Fprint(opts.Out, gotextdiff.ToUnified(path, path, string(current), edits))
		return statusPending, nil
	case opts.DryRun:
		fmt.Fprintln(opts.Out, path)
		return statusPending, nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return statusRemoved, nil
}

func newReportDiagnostic(d codegen.Diagnostic) reportDiagnostic {
	rd := reportDiagnostic{
		Severity: d.Severity.String(),
		Type:     d.Owner,
		Member:   d.Member,
		Message:  d.Err.Error(),
	}
	if d.Pos.IsValid() {
		rd.Position = d.Pos.String()
	}
	return rd
}

func writeReport(path string, rep report) error {
	data, err := json.Marshal(rep, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func relativePath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
