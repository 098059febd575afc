package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studyda/internal/config"
	"studyda/internal/data/embedded"
	"studyda/internal/golden"
	"studyda/internal/output"
	"studyda/internal/study"
	"studyda/pkg/studytypes"
)

// addCreateCommand adds the create command to the root command
func (app *App) addCreateCommand(rootCmd *cobra.Command) {
	var noTree, force bool

	cmd := &cobra.Command{
		Use:   "create <config>",
		Short: "Create a study from a configuration file",
		Long: `Expand every generation of the configuration and write one script per parameter
combination below the output directory. With --force an existing study directory
is removed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			tree, err := app.newBuilder(app.Settings.OutputDir).Build(cmd.Context(), cfg, !noTree, force)
			if err != nil {
				return err
			}

			scripts := len(tree.Leaves())
			if scripts == 0 {
				app.Printer.Warning(fmt.Sprintf("Study %s has no scripts: a scan produced no values", cfg.Name))
			}
			app.Printer.Success(fmt.Sprintf("Study %s created with %d scripts", cfg.Name, scripts))
			if !noTree {
				app.Printer.Info("Tree written to " + filepath.Join(app.Settings.OutputDir, cfg.Name, study.TreeFileName))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTree, "no-tree", false, "Do not write "+study.TreeFileName)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove an existing study directory first")
	rootCmd.AddCommand(cmd)
}

// addPlanCommand adds the plan command to the root command
func (app *App) addPlanCommand(rootCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "plan <config>",
		Short: "Show the scripts a study would create without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			plan, err := app.newBuilder(app.Settings.OutputDir).Plan(cfg)
			if err != nil {
				return err
			}

			app.Printer.Bold(plan.Root)
			app.Printer.Println("")
			for _, gen := range plan.Generations {
				app.Printer.Generation(gen.Name)
				app.Printer.Printf(" (%s, %d scripts)\n", gen.TemplateName, len(gen.Jobs))
				for _, job := range gen.Jobs {
					app.Printer.Print("  ")
					app.Printer.Path(job.Script)
					app.Printer.Print(" ")
					app.Printer.Parameter(job.Combination.ParametersLiteral())
					app.Printer.Println("")
				}
			}
			app.Printer.Info(fmt.Sprintf("%d scripts in %d generations", plan.Scripts(), len(plan.Generations)))
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

// addSummaryCommand adds the summary command to the root command
func (app *App) addSummaryCommand(rootCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "summary <config>",
		Short: "Summarize the generations and scans of a study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			plan, err := app.newBuilder(app.Settings.OutputDir).Plan(cfg)
			if err != nil {
				return err
			}
			return app.Printer.Markdown(SummaryMarkdown(cfg, plan))
		},
	}
	rootCmd.AddCommand(cmd)
}

// SummaryMarkdown describes a planned study as a markdown document.
func SummaryMarkdown(cfg *config.Config, plan *study.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Study %s\n\n", cfg.Name)
	sb.WriteString("| generation | template | parameters | combinations | scripts |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, gen := range plan.Generations {
		parameters := "-"
		if len(gen.Parameters) > 0 {
			parameters = strings.Join(gen.Parameters, ", ")
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %d | %d |\n", gen.Name, gen.TemplateName, parameters, gen.Combinations, len(gen.Jobs))
	}
	fmt.Fprintf(&sb, "\nTotal: %d scripts\n", plan.Scripts())

	for _, gen := range plan.Generations {
		if gen.TemplatePath == "" {
			sb.WriteString("\n## Built-in templates\n\n")
			for _, name := range embedded.TemplateNames() {
				fmt.Fprintf(&sb, "- %s\n", name)
			}
			break
		}
	}

	if len(cfg.Dependencies) > 0 {
		sb.WriteString("\n## Dependencies\n\n")
		for _, dep := range cfg.Dependencies {
			fmt.Fprintf(&sb, "- %s: %s\n", dep.Name, dep.Source)
		}
	}
	return sb.String()
}

// addTreeCommand adds the tree command to the root command
func (app *App) addTreeCommand(rootCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tree <tree.yaml>",
		Short: "Print a study tree document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return &studytypes.IOError{Op: "read", Path: args[0], Err: err}
			}

			tree, err := study.DecodeTree(data)
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}

			view, err := output.TreeView(filepath.Base(filepath.Dir(absPath)), tree)
			if err != nil {
				return err
			}
			app.Printer.Block(view)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

// addCheckCommand adds the check command to the root command
func (app *App) addCheckCommand(rootCmd *cobra.Command) {
	var noTree bool

	cmd := &cobra.Command{
		Use:   "check <config>",
		Short: "Verify an existing study matches its configuration",
		Long: `Regenerate the study in a temporary directory and compare every file with the
study found in the output directory. Any difference fails the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			tmpDir, err := os.MkdirTemp("", "studyda-check-")
			if err != nil {
				return &studytypes.IOError{Op: "create temporary directory", Path: os.TempDir(), Err: err}
			}
			defer func() { _ = os.RemoveAll(tmpDir) }()

			if _, err := app.newBuilder(tmpDir).Build(cmd.Context(), cfg, !noTree, false); err != nil {
				return err
			}

			existing := filepath.Join(app.Settings.OutputDir, cfg.Name)
			if _, err := os.Stat(existing); err != nil {
				return &studytypes.IOError{Op: "stat", Path: existing, Err: err}
			}

			diffs, err := golden.CompareDirs(filepath.Join(tmpDir, cfg.Name), existing)
			if err != nil {
				return err
			}
			if len(diffs) == 0 {
				app.Printer.Success(fmt.Sprintf("Study %s is up to date", cfg.Name))
				return nil
			}

			golden.NewDiffer(app.Printer.Writer()).Report(diffs)
			app.Printer.Error(fmt.Sprintf("Study %s differs: %s", cfg.Name, golden.Summary(diffs)))
			return fmt.Errorf("study %s differs from its configuration: %s", cfg.Name, golden.Summary(diffs))
		},
	}

	cmd.Flags().BoolVar(&noTree, "no-tree", false, "The study was created without "+study.TreeFileName)
	rootCmd.AddCommand(cmd)
}
