package study

import (
	"errors"

	"studyda/internal/config"
	"studyda/internal/scan"
	"studyda/pkg/studytypes"
)

// Job is one script of the study: a generation rendered with one combination
// under one parent path.
type Job struct {
	Generation  string
	Parent      string
	Child       string
	Script      string
	Depth       int
	Combination scan.Combination
}

// GenerationPlan holds the jobs of one generation, in the order they are written.
type GenerationPlan struct {
	Name         string
	TemplatePath string
	TemplateName string

	// Parameters are the scanned parameters, in declared order.
	Parameters []string

	// Combinations is the number of combinations expanded under each parent path.
	Combinations int

	Jobs []Job
}

// Plan is everything a build produces, computed without touching the filesystem.
type Plan struct {
	Study       string
	Root        string
	Generations []GenerationPlan
	Tree        *studytypes.TreeNode
}

// Scripts returns the number of scripts the plan writes.
func (p *Plan) Scripts() int {
	total := 0
	for _, gen := range p.Generations {
		total += len(gen.Jobs)
	}
	return total
}

// Plan computes the study cfg describes: every child path, binding and tree
// entry of every generation. It fails with a ConfigurationError on anything Build
// would reject, before a single file is written.
func (b *Builder) Plan(cfg *config.Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{
		Study: cfg.Name,
		Root:  rootPath(cfg.Name),
		Tree:  studytypes.NewTree(),
	}

	active := []string{plan.Root}
	for _, gen := range cfg.Generations {
		var specs []config.ScanSpec
		if gen.HasScans {
			specs = gen.Scans
		}
		combinations, err := scan.Expand(gen.Name, specs)
		if err != nil {
			return nil, err
		}

		genPlan := GenerationPlan{
			Name:         gen.Name,
			TemplatePath: b.templatePath(cfg, gen),
			TemplateName: gen.Executable.Name,
			Combinations: len(combinations),
		}
		for _, spec := range specs {
			genPlan.Parameters = append(genPlan.Parameters, spec.Parameter)
		}

		seen := make(map[string]string)
		var next []string
		for _, parent := range active {
			for _, combination := range combinations {
				child := childPath(parent, combination.Suffix)
				if segment, bad := invalidSegment(child); bad {
					return nil, studytypes.NewConfigurationError(
						"combination %s maps to %s, which has the directory %q", combination.Suffix, child, segment,
					).WithGeneration(gen.Name)
				}
				if previous, dup := seen[child]; dup {
					return nil, studytypes.NewConfigurationError(
						"combinations %s and %s both map to %s", previous, combination.Suffix, child,
					).WithGeneration(gen.Name)
				}
				seen[child] = combination.Suffix

				job := Job{
					Generation:  gen.Name,
					Parent:      parent,
					Child:       child,
					Script:      scriptPath(child, gen.Name),
					Depth:       depth(child),
					Combination: combination,
				}
				if err := plan.Tree.Insert(treeKeys(child, gen.Name), job.Script); err != nil {
					var cfgErr *studytypes.ConfigurationError
					if errors.As(err, &cfgErr) {
						return nil, cfgErr.WithGeneration(gen.Name)
					}
					return nil, err
				}

				genPlan.Jobs = append(genPlan.Jobs, job)
				next = append(next, child)
			}
		}

		plan.Generations = append(plan.Generations, genPlan)
		active = next
	}

	return plan, nil
}

// templatePath selects where a generation's template is read from: the
// executable's own path, then the builder's template directory, then the
// templates embedded in the binary.
func (b *Builder) templatePath(cfg *config.Config, gen *config.Generation) string {
	if gen.Executable.Path != "" {
		return cfg.ResolvePath(gen.Executable.Path)
	}
	return b.templateDir
}
