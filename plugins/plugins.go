package plugins

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/types"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Yamashou/uibindgen/cache"
	"github.com/Yamashou/uibindgen/codegen"
	"github.com/Yamashou/uibindgen/config"
	"github.com/Yamashou/uibindgen/loader"
	"github.com/Yamashou/uibindgen/marker"
	"github.com/Yamashou/uibindgen/plugins/componentgen"
	"github.com/Yamashou/uibindgen/plugins/traitgen"
	"github.com/Yamashou/uibindgen/symbols"
)

var (
	// ErrConflictingUnit is returned when two flavors generate different
	// content for the same path.
	ErrConflictingUnit = errors.New("conflicting generated units")

	// ErrFileNameCollision fails every type of a flavor whose unit would be
	// written to the same path as the unit of another type.
	ErrFileNameCollision = errors.New("generated file name collision")
)

// Plugin generates at most one unit per type group.
type Plugin interface {
	Name() string
	// Kinds are the marker kinds whose members the plugin binds.
	Kinds() []marker.Kind
	// UnitName is the file name of the unit generated for typeName.
	UnitName(typeName string) string
	Generate(g *codegen.TypeGroup) (*codegen.Unit, []codegen.Diagnostic, error)
}

// Options are the per-run collaborators of GenerateCode.
type Options struct {
	Logger *slog.Logger
	// Cache short-circuits groups whose inputs did not change. Nil disables
	// caching.
	Cache *cache.Cache
}

// Result is the outcome of one generation pass.
type Result struct {
	// Units are ordered: marker declarations first, then each flavor in
	// turn, following package and type order.
	Units       []*codegen.Unit
	Diagnostics []codegen.Diagnostic
	CacheHits   int
	// Retained are the paths of units that were not generated because their
	// type was skipped. Files already there are kept as they are.
	Retained []string
}

// HasErrors reports whether any type group was skipped.
func (r *Result) HasErrors() bool {
	return hasError(r.Diagnostics)
}

// flavor is an enabled plugin with the settings it was built from.
type flavor struct {
	plugin Plugin
	base   string
	// settings identify the plugin configuration in cache keys.
	settings string
}

// flavors returns the enabled plugins in their fixed output order.
func flavors(cfg *config.Config) []flavor {
	fw := codegen.Framework{Import: cfg.Framework.Import, Alias: cfg.Framework.Alias}

	var fs []flavor
	if cfg.TraitGen.IsEnabled() {
		fs = append(fs, flavor{
			plugin: traitgen.New(traitgen.Options{
				Framework: fw,
				Suffix:    cfg.TraitGen.Suffix,
			}),
			base:     cfg.TraitGen.Base,
			settings: fmt.Sprint(fw, cfg.TraitGen.Base, cfg.TraitGen.Suffix),
		})
	}
	if cfg.ComponentGen.IsEnabled() {
		fs = append(fs, flavor{
			plugin: componentgen.New(componentgen.Options{
				Framework:     fw,
				Suffix:        cfg.ComponentGen.Suffix,
				StrictScope:   cfg.ComponentGen.IsStrictScope(),
				ComponentBase: cfg.ComponentGen.ComponentBase,
			}),
			base:     cfg.ComponentGen.Base,
			settings: fmt.Sprint(fw, cfg.ComponentGen.Base, cfg.ComponentGen.Suffix, cfg.ComponentGen.IsStrictScope(), cfg.ComponentGen.ComponentBase),
		})
	}
	return fs
}

// slot holds the output of one flavor.
type slot struct {
	units    []*codegen.Unit
	diags    []codegen.Diagnostic
	hits     int
	retained []string
	entries  map[string]cache.Entry
}

// outcome is the result for one group before file name collisions within
// the flavor are resolved.
type outcome struct {
	group *codegen.TypeGroup
	key   string
	unit  *codegen.Unit
	diags []codegen.Diagnostic
	hit   bool
}

// GenerateCode runs every enabled flavor over pkgs.
//
// A group that fails extraction is reported as an error diagnostic and
// skipped; the pass continues. The returned error is reserved for problems
// that invalidate the whole pass.
func GenerateCode(ctx context.Context, cfg *config.Config, pkgs []*loader.Package, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	declarations, err := declarationsUnit(cfg)
	if err != nil {
		return nil, err
	}

	fs := flavors(cfg)
	slots := make([]slot, len(fs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, f := range fs {
		eg.Go(func() error {
			s, err := runFlavor(ctx, f, pkgs, declarations, opts.Cache, logger.With("plugin", f.plugin.Name()))
			if err != nil {
				return fmt.Errorf("%s failed: %w", f.plugin.Name(), err)
			}
			slots[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	published := make(map[string]*codegen.Unit)
	for _, s := range slots {
		for _, u := range s.units {
			if err := publish(result, published, u); err != nil {
				return nil, err
			}
		}
		result.Diagnostics = append(result.Diagnostics, s.diags...)
		result.CacheHits += s.hits
		result.Retained = append(result.Retained, s.retained...)
	}

	if opts.Cache != nil {
		for _, s := range slots {
			for key, entry := range s.entries {
				opts.Cache.Put(key, entry)
			}
		}
	}

	return result, nil
}

// runFlavor collects, groups and emits for one plugin. Every flavor asks for
// the marker declarations; publish keeps a single copy.
func runFlavor(ctx context.Context, f flavor, pkgs []*loader.Package, declarations *codegen.Unit, c *cache.Cache, logger *slog.Logger) (slot, error) {
	var outcomes []outcome

	collector := symbols.NewCollector(f.base, f.plugin.Kinds(), logger)
	for _, pkg := range pkgs {
		for _, g := range codegen.Group(collector.Collect(pkg)) {
			if err := ctx.Err(); err != nil {
				return slot{}, err
			}

			key := groupKey(f, g)
			if c != nil {
				if entry, ok := c.Get(key); ok {
					logger.Debug("cache hit", "type", g.Name())
					outcomes = append(outcomes, outcome{
						group: g,
						key:   key,
						unit:  &codegen.Unit{Dir: entry.Dir, Name: entry.Name, Source: []byte(entry.Source)},
						hit:   true,
					})
					continue
				}
			}

			unit, diags, err := f.plugin.Generate(g)
			if err != nil {
				logger.Debug("skipping type", "type", g.Name(), "error", err)
				outcomes = append(outcomes, outcome{group: g, key: key, diags: []codegen.Diagnostic{codegen.Fail(g, err)}})
				continue
			}
			if unit == nil {
				logger.Debug("nothing to generate", "type", g.Name())
			} else {
				logger.Debug("generated", "type", g.Name(), "file", unit.Path(), "members", len(g.Members))
			}
			outcomes = append(outcomes, outcome{group: g, key: key, unit: unit, diags: diags})
		}
	}

	return settle(f, outcomes, declarations), nil
}

// settle turns the outcomes of a flavor into its slot. Types whose units
// share a path are skipped together; no other type is affected.
func settle(f flavor, outcomes []outcome, declarations *codegen.Unit) slot {
	s := slot{
		units:   []*codegen.Unit{declarations},
		entries: make(map[string]cache.Entry),
	}

	owners := make(map[string][]string)
	for _, o := range outcomes {
		if o.unit != nil {
			owners[o.unit.Path()] = append(owners[o.unit.Path()], o.group.Name())
		}
	}

	for _, o := range outcomes {
		if o.unit == nil {
			s.diags = append(s.diags, o.diags...)
			if hasError(o.diags) {
				s.retained = append(s.retained, filepath.Join(o.group.Dir(), f.plugin.UnitName(o.group.Name())))
			}
			continue
		}

		path := o.unit.Path()
		if names := owners[path]; len(names) > 1 {
			err := fmt.Errorf("%w: %s is generated for %s", ErrFileNameCollision, o.unit.Name, strings.Join(names, ", "))
			s.diags = append(s.diags, codegen.Fail(o.group, fmt.Errorf("%s: %w", f.plugin.Name(), err)))
			s.retained = append(s.retained, path)
			continue
		}

		s.diags = append(s.diags, o.diags...)
		s.units = append(s.units, o.unit)
		switch {
		case o.hit:
			s.hits++
		case len(o.diags) == 0:
			s.entries[o.key] = cache.Entry{Dir: o.unit.Dir, Name: o.unit.Name, Source: string(o.unit.Source)}
		}
	}

	return s
}

func hasError(diags []codegen.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == codegen.Error {
			return true
		}
	}
	return false
}

func declarationsUnit(cfg *config.Config) (*codegen.Unit, error) {
	src, err := marker.Declarations(cfg.Markers.Package)
	if err != nil {
		return nil, fmt.Errorf("render marker declarations: %w", err)
	}
	src, err = codegen.Format(cfg.Markers.Filename, src)
	if err != nil {
		return nil, err
	}
	return &codegen.Unit{
		Dir:    cfg.Path(cfg.Markers.Dir),
		Name:   cfg.Markers.Filename,
		Source: src,
	}, nil
}

// publish appends u unless an identical unit was already published.
func publish(result *Result, published map[string]*codegen.Unit, u *codegen.Unit) error {
	if prev, ok := published[u.Path()]; ok {
		if bytes.Equal(prev.Source, u.Source) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflictingUnit, u.Path())
	}
	published[u.Path()] = u
	result.Units = append(result.Units, u)
	return nil
}

// groupKey hashes everything the unit of g is generated from. Source
// positions are left out, so moving code around keeps the key stable.
func groupKey(f flavor, g *codegen.TypeGroup) string {
	qualifier := func(p *types.Package) string {
		return p.Path() + "#" + p.Name()
	}

	owner := g.Owner.Pkg()
	parts := []string{
		f.plugin.Name(), f.settings, owner.Path(), owner.Name(), g.Name(), g.Dir(),
		types.TypeString(g.Owner.Type(), qualifier),
	}
	for _, m := range g.Members {
		parts = append(parts, m.Name, m.Kind.String(), m.Setter, types.TypeString(m.Type, qualifier), strconv.Itoa(len(m.Markers)))
		for _, inst := range m.Markers {
			args := make([]string, 0, len(inst.Args))
			for _, a := range inst.Args {
				args = append(args, a.Text)
			}
			errText := ""
			if inst.Err != nil {
				errText = inst.Err.Error()
			}
			parts = append(parts, inst.Kind.String(), strings.Join(args, "\x00"), errText)
		}
	}
	return cache.Key(parts...)
}
