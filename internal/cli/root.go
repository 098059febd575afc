// Package cli provides the command-line interface of studyda.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"studyda/internal/logger"
	"studyda/internal/output"
	"studyda/internal/settings"
	"studyda/internal/study"
	"studyda/pkg/studytypes"
)

// App represents the studyda CLI application
type App struct {
	Viper    *viper.Viper
	Settings *settings.Settings
	Printer  *output.Printer

	settingsFile string
	envFile      string
	jsonOutput   bool
	quiet        bool
}

// NewApp creates a new studyda CLI application
func NewApp() *App {
	return &App{
		Viper: settings.New(),
	}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studyda",
		Short: "Generate parametric simulation study trees",
		Long: `studyda expands the parametric scans of a study configuration into a tree of
directories holding one rendered script per generation and parameter combination.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.initialize,
	}

	flags := rootCmd.PersistentFlags()
	flags.String(settings.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(settings.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Bool(settings.KeyTestMode, false, "Run in deterministic test mode")
	flags.String(settings.KeyOutputDir, ".", "Directory the study is created in")
	flags.String(settings.KeyTemplateDir, "", "Template directory for executables without a path [default: built-in templates]")
	flags.Int(settings.KeyWorkers, 1, "Scripts rendered concurrently within a generation")
	flags.StringVar(&app.settingsFile, "settings", "", "Settings file [default: ./.studyda.yaml]")
	flags.StringVar(&app.envFile, "env-file", ".env", "Dotenv file with STUDYDA_* settings")
	flags.BoolVar(&app.jsonOutput, "json", false, "Print messages as JSON objects")
	flags.BoolVarP(&app.quiet, "quiet", "q", false, "Print nothing on success")

	for _, key := range []string{
		settings.KeyLogLevel,
		settings.KeyLogFile,
		settings.KeyTestMode,
		settings.KeyOutputDir,
		settings.KeyTemplateDir,
		settings.KeyWorkers,
	} {
		// Lookup cannot fail for flags registered above.
		_ = app.Viper.BindPFlag(key, flags.Lookup(key))
	}

	app.addCreateCommand(rootCmd)
	app.addPlanCommand(rootCmd)
	app.addSummaryCommand(rootCmd)
	app.addTreeCommand(rootCmd)
	app.addCheckCommand(rootCmd)
	app.addVersionCommand(rootCmd)

	return rootCmd
}

// initialize resolves settings and sets up logging and output before any command runs.
func (app *App) initialize(cmd *cobra.Command, _ []string) error {
	if err := settings.LoadDotEnv(app.Viper, app.envFile); err != nil {
		return err
	}
	if err := settings.ReadConfigFile(app.Viper, app.settingsFile); err != nil {
		return err
	}

	resolved, err := settings.Resolve(app.Viper)
	if err != nil {
		return err
	}
	app.Settings = resolved

	if err := logger.Configure(resolved.LogLevel, resolved.LogFile, resolved.TestMode); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	options := []output.Option{output.WithWriter(cmd.OutOrStdout())}
	switch {
	case app.jsonOutput:
		options = append(options, output.JSON())
	case resolved.TestMode:
		options = append(options, output.TestMode())
	default:
		options = append(options, output.WithStyles(output.DetectStyleProvider(cmd.OutOrStdout())))
	}
	if app.quiet {
		options = append(options, output.Silent())
	}
	app.Printer = output.NewPrinter(options...)

	logger.Debug("Settings resolved", "output-dir", resolved.OutputDir, "workers", resolved.Workers, "template-dir", resolved.TemplateDir)
	return nil
}

// newBuilder creates a builder writing below root with the resolved settings.
func (app *App) newBuilder(root string) *study.Builder {
	return study.NewBuilder(
		study.WithStore(study.NewDiskStore(root)),
		study.WithWorkers(app.Settings.Workers),
		study.WithTemplateDir(app.Settings.TemplateDir),
	)
}

// Exit codes returned by the studyda binary.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *studytypes.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitConfiguration
	}
	return ExitFailure
}
