// Package study builds study trees: it expands every generation of a configuration
// over the paths produced by the previous one, renders one script per combination,
// copies the shared dependencies and records the result in the tree document.
package study

import (
	"context"
	"errors"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studyda/internal/config"
	"studyda/internal/logger"
	"studyda/internal/render"
	"studyda/pkg/studytypes"
)

// Builder generates studies. The renderer and store are injectable so the way
// scripts are produced and persisted can be swapped at construction time.
type Builder struct {
	renderer    studytypes.Renderer
	store       studytypes.Store
	workers     int
	templateDir string
	logger      *log.Logger
}

// Option is a functional option for configuring a Builder.
type Option func(*Builder)

// WithRenderer sets the template renderer. Default is the pongo2 renderer backed
// by the embedded templates.
func WithRenderer(renderer studytypes.Renderer) Option {
	return func(b *Builder) {
		if renderer != nil {
			b.renderer = renderer
		}
	}
}

// WithStore sets where the study is written. Default is the current directory.
func WithStore(store studytypes.Store) Option {
	return func(b *Builder) {
		if store != nil {
			b.store = store
		}
	}
}

// WithWorkers sets how many scripts of one generation are rendered and written
// concurrently. Values below 1 mean sequential.
func WithWorkers(workers int) Option {
	return func(b *Builder) {
		if workers < 1 {
			workers = 1
		}
		b.workers = workers
	}
}

// WithTemplateDir sets the template directory used by generations whose
// executable has no path of its own.
func WithTemplateDir(dir string) Option {
	return func(b *Builder) {
		b.templateDir = dir
	}
}

// NewBuilder creates a builder with the given options applied.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		workers: 1,
		logger:  logger.NewStyledLogger("Builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.renderer == nil {
		b.renderer = render.NewRenderer()
	}
	if b.store == nil {
		b.store = NewDiskStore(".")
	}
	return b
}

// Build generates the study described by cfg and returns its tree. With
// forceOverwrite an existing study directory is deleted first; with treeEnabled
// the tree is written to {name}/tree.yaml.
//
// Configuration problems are reported before anything is written. Render and I/O
// failures stop the run and leave whatever was already written in place.
func (b *Builder) Build(ctx context.Context, cfg *config.Config, treeEnabled, forceOverwrite bool) (*studytypes.TreeNode, error) {
	runID := uuid.NewString()
	runLogger := b.logger.With("run", runID[:8])

	plan, err := b.Plan(cfg)
	if err != nil {
		return nil, err
	}

	if forceOverwrite {
		exists, err := b.store.Exists(cfg.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			runLogger.Info("Removing existing study", "path", cfg.Name)
			if err := b.store.RemoveAll(cfg.Name); err != nil {
				return nil, err
			}
		}
	}

	for _, gen := range plan.Generations {
		if err := b.runGeneration(ctx, cfg, gen); err != nil {
			return nil, err
		}
		runLogger.Info("Generation written", "generation", gen.Name, "scripts", len(gen.Jobs))
	}

	for _, dep := range cfg.Dependencies {
		source := cfg.ResolvePath(dep.Source)
		if err := b.store.CopyFile(source, cfg.Name); err != nil {
			return nil, err
		}
		runLogger.Debug("Dependency copied", "name", dep.Name, "path", source)
	}

	if treeEnabled {
		if err := WriteTree(b.store, cfg.Name, plan.Tree); err != nil {
			return nil, err
		}
	}

	runLogger.Info("Study created", "path", plan.Root, "scripts", plan.Scripts())
	return plan.Tree, nil
}

// runGeneration renders and writes the jobs of one generation. Jobs are
// independent, so up to b.workers of them run at once.
func (b *Builder) runGeneration(ctx context.Context, cfg *config.Config, gen GenerationPlan) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, job := range gen.Jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return b.runJob(cfg, gen, job)
		})
	}
	return g.Wait()
}

func (b *Builder) runJob(cfg *config.Config, gen GenerationPlan, job Job) error {
	text, err := b.renderer.Render(gen.TemplatePath, gen.TemplateName, Bindings(cfg, job))
	if err != nil {
		var renderErr *studytypes.RenderError
		if errors.As(err, &renderErr) {
			if renderErr.Generation == "" {
				renderErr.Generation = gen.Name
			}
			return err
		}
		return &studytypes.RenderError{Generation: gen.Name, Template: gen.TemplateName, Path: gen.TemplatePath, Err: err}
	}

	if err := b.store.WriteFile(job.Script, []byte(text)); err != nil {
		return err
	}
	b.logger.Debug("Script written", "generation", gen.Name, "path", job.Script, "depth", job.Depth)
	return nil
}

// identifier matches the context keys templates accept as plain variables.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Bindings is the template context of a job: the parameters as a Python dict
// literal, the dependencies mapping and every dependency whose name is an
// identifier as its own variable. Other names are only reachable through
// dependencies, e.g. dependencies["collider-file"]. Dependency paths climb from
// the job's directory back to the study root.
func Bindings(cfg *config.Config, job Job) map[string]interface{} {
	dependencies := make(map[string]interface{}, len(cfg.Dependencies))
	bindings := make(map[string]interface{}, len(cfg.Dependencies)+2)
	for _, dep := range cfg.Dependencies {
		rel := dependencyPath(job.Depth, dep.Source)
		dependencies[dep.Name] = rel
		if identifier.MatchString(dep.Name) {
			bindings[dep.Name] = rel
		}
	}
	bindings[config.BindingParameters] = job.Combination.ParametersLiteral()
	bindings[config.BindingDependencies] = dependencies
	return bindings
}
