package gen

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/stigen/compiler/load"
	"github.com/syssam/stigen/internal/logger"
)

// Output is one generated subtype query unit, ready to be placed by a writer.
type Output struct {
	Placement Placement
	// Table and Subtype the unit was generated for.
	Table   string
	Subtype string
	// Ancestor is the unqualified class the unit derives from.
	Ancestor string
	// FileName is the file name of the unit, extension included.
	FileName string
	// Source is the rendered source text.
	Source []byte
}

// Generator generates subtype query units with a Renderer.
//
// A Generator holds no per-subtype state: the subtype is an argument of every
// call, so a single Generator can be shared by concurrent callers.
type Generator struct {
	config   *Config
	renderer Renderer
}

// NewGenerator creates a Generator. A nil config uses the defaults.
func NewGenerator(c *Config, r Renderer) *Generator {
	if c == nil {
		c = &Config{}
	}
	return &Generator{config: c, renderer: r}
}

// Renderer returns the renderer of the generator.
func (g *Generator) Renderer() Renderer { return g.renderer }

// Unit resolves, places and builds the unit of the target subtype of t
// without rendering it.
func (g *Generator) Unit(t *load.Table, target *load.Inheritance) (*Unit, error) {
	if g.renderer == nil {
		return nil, NewConfigError("Renderer", nil, "no renderer set: pass one to NewGenerator()")
	}
	if target == nil {
		return nil, errMissingTarget("Generate")
	}
	if t == nil {
		t = target.Table()
	}
	if t == nil {
		return nil, NewConfigError("Table", nil, "the subtype is not linked to a table and no table was given")
	}
	h, err := NewHierarchy(t, g.renderer.Namer())
	if err != nil {
		return nil, err
	}
	return g.unit(h, target)
}

// unit builds the unit of target from an already validated hierarchy.
func (g *Generator) unit(h *Hierarchy, target *load.Inheritance) (*Unit, error) {
	ancestor, err := h.Ancestor(target)
	if err != nil {
		return nil, err
	}
	return BuildUnit(g.config, g.renderer.Namer(), g.renderer.NamespaceSeparator(), h.Table(), target, ancestor)
}

// Generate produces the unit of the target subtype of t. Generation is all
// or nothing: on error no Output is returned.
func (g *Generator) Generate(ctx context.Context, t *load.Table, target *load.Inheritance) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := g.Unit(t, target)
	if err != nil {
		return nil, err
	}
	return g.render(u)
}

func (g *Generator) render(u *Unit) (*Output, error) {
	fileName := u.ClassName() + g.renderer.Extension()
	src, err := g.renderer.Render(u)
	if err != nil {
		return nil, NewGenerationError("render", fileName, "render "+u.ClassName(), err)
	}
	logger.Logger.Debugw("unit rendered",
		logger.FieldTable, u.Table.Name,
		logger.FieldSubtype, u.Subtype.ClassName,
		logger.FieldAncestor, u.Ancestor.Class,
		logger.FieldNamespace, u.Placement.Namespace,
		logger.FieldRenderer, g.renderer.Name(),
		logger.FieldSize, len(src))
	return &Output{
		Placement: u.Placement,
		Table:     u.Table.Name,
		Subtype:   u.Subtype.ClassName,
		Ancestor:  u.Ancestor.Class,
		FileName:  fileName,
		Source:    src,
	}, nil
}

// GenerateAll generates the units of every subtype of every inheritance
// table of db, in parallel. The hierarchy of each table is validated before
// any unit is rendered. Outputs are sorted by namespace and class name.
func (g *Generator) GenerateAll(ctx context.Context, db *load.Database) ([]*Output, error) {
	if g.renderer == nil {
		return nil, NewConfigError("Renderer", nil, "no renderer set: pass one to NewGenerator()")
	}
	if db == nil {
		return nil, NewConfigError("Database", nil, "GenerateAll needs a database")
	}
	start := time.Now()
	runID := uuid.NewString()
	log := logger.ComponentLogger("gen").With(logger.FieldRunID, runID, logger.FieldRenderer, g.renderer.Name())

	type task struct {
		hierarchy *Hierarchy
		target    *load.Inheritance
	}
	var tasks []task
	for _, t := range db.InheritanceTables() {
		h, err := NewHierarchy(t, g.renderer.Namer())
		if err != nil {
			return nil, err
		}
		for _, inh := range h.Order() {
			tasks = append(tasks, task{hierarchy: h, target: inh})
		}
	}

	outputs := make([]*Output, len(tasks))
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.config.workers())
	for i, tk := range tasks {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := g.unit(tk.hierarchy, tk.target)
			if err != nil {
				return err
			}
			out, err := g.render(u)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(outputs, func(a, b *Output) int {
		return cmp.Or(
			cmp.Compare(a.Placement.Namespace, b.Placement.Namespace),
			cmp.Compare(a.Placement.ClassName, b.Placement.ClassName),
		)
	})
	log.Infow("generation finished",
		logger.FieldCount, len(outputs),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return outputs, nil
}
