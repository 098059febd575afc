package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyda/internal/config"
	"studyda/internal/study"
	"studyda/internal/testutils"
	"studyda/pkg/studytypes"
)

// execute runs the root command in test mode and returns everything written to
// stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := NewApp()
	rootCmd := app.CreateRootCommand()

	buffer := &bytes.Buffer{}
	rootCmd.SetOut(buffer)
	rootCmd.SetErr(buffer)
	rootCmd.SetArgs(append([]string{"--test-mode", "--env-file", filepath.Join(t.TempDir(), ".env")}, args...))

	err := rootCmd.Execute()
	return buffer.String(), err
}

func TestCreateCommand(t *testing.T) {
	fixture := testutils.StudyFixture(t)
	out := t.TempDir()

	stdout, err := execute(t, "create", filepath.Join(fixture, "config.yaml"), "--output-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Study study created with 3 scripts")

	files := testutils.NewFileHelpers().Snapshot(t, out)
	assert.Equal(t, "params = {}\nconfig = 'config.yaml'\n", files["study/base.py"])
	assert.Equal(t, "params = {'x' : 1, }\nost = '../custom_ost.py'\n", files["study/x_1_/scan1.py"])
	assert.Equal(t, "params = {'x' : 2, }\nost = '../custom_ost.py'\n", files["study/x_2_/scan1.py"])
	assert.Equal(t, "def ost():\n    return 0\n", files["study/custom_ost.py"])
	assert.Contains(t, files, "study/config.yaml")
	assert.Equal(t, "base:\n  file: study/base.py\nx_1_:\n  scan1:\n    file: study/x_1_/scan1.py\nx_2_:\n  scan1:\n    file: study/x_2_/scan1.py\n", files["study/tree.yaml"])
}

func TestCreateCommand_NoTreeAndForce(t *testing.T) {
	fixture := testutils.StudyFixture(t)
	out := t.TempDir()
	assertions := testutils.NewAssertionHelpers(t)

	stale := filepath.Join(out, "study", "stale.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old\n"), 0o644))

	_, err := execute(t, "create", filepath.Join(fixture, "config.yaml"), "--output-dir", out, "--no-tree", "--force")
	require.NoError(t, err)

	assertions.AssertNotExists(stale)
	assertions.AssertNotExists(filepath.Join(out, "study", "tree.yaml"))
	assertions.AssertFileEquals(filepath.Join(out, "study", "base.py"), "params = {}\nconfig = 'config.yaml'\n")
}

func TestCreateCommand_ConfigurationError(t *testing.T) {
	dir := testutils.NewFileHelpers().CreateTempDir(t, map[string]string{
		"config.yaml": `
			name: study
			structure:
			  base:
			    executable: {name: base.py}
			    scans:
			      x: {list: [1]}
		`,
	})
	out := t.TempDir()

	_, err := execute(t, "create", filepath.Join(dir, "config.yaml"), "--output-dir", out)
	require.Error(t, err)

	var cfgErr *studytypes.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ExitConfiguration, ExitCode(err))
	assert.Empty(t, testutils.NewFileHelpers().Snapshot(t, out))
}

func TestCreateCommand_RequiresConfig(t *testing.T) {
	_, err := execute(t, "create")
	assert.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestPlanCommand(t *testing.T) {
	fixture := testutils.StudyFixture(t)
	out := t.TempDir()

	stdout, err := execute(t, "plan", filepath.Join(fixture, "config.yaml"), "--output-dir", out)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"study/",
		"base (base.py, 1 scripts)",
		"  study/base.py {}",
		"scan1 (scan1.py, 2 scripts)",
		"  study/x_1_/scan1.py {'x' : 1, }",
		"  study/x_2_/scan1.py {'x' : 2, }",
		"ℹ 3 scripts in 2 generations",
		"",
	}, "\n")
	assert.Equal(t, expected, stdout)
	assert.Empty(t, testutils.NewFileHelpers().Snapshot(t, out))
}

func TestSummaryCommand(t *testing.T) {
	fixture := testutils.StudyFixture(t)

	stdout, err := execute(t, "summary", filepath.Join(fixture, "config.yaml"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Study study")
	assert.Contains(t, stdout, "scan1")
	assert.Contains(t, stdout, "custom_ost")
}

func TestSummaryMarkdown(t *testing.T) {
	fixture := testutils.StudyFixture(t)

	cfg, err := config.Load(filepath.Join(fixture, "config.yaml"))
	require.NoError(t, err)
	plan, err := study.NewBuilder().Plan(cfg)
	require.NoError(t, err)

	markdown := SummaryMarkdown(cfg, plan)

	assert.Contains(t, markdown, "# Study study\n")
	assert.Contains(t, markdown, "| base | base.py | - | 1 | 1 |\n")
	assert.Contains(t, markdown, "| scan1 | scan1.py | x | 2 | 2 |\n")
	assert.Contains(t, markdown, "Total: 3 scripts\n")
	assert.Contains(t, markdown, "- custom_ost: custom_files/custom_ost.py\n")
	assert.NotContains(t, markdown, "Built-in templates")

	dir := testutils.NewFileHelpers().CreateTempDir(t, map[string]string{
		"config.yaml": `
			name: builtin
			structure:
			  base:
			    executable: {name: generation_1.py}
		`,
	})
	cfg, err = config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	plan, err = study.NewBuilder().Plan(cfg)
	require.NoError(t, err)

	markdown = SummaryMarkdown(cfg, plan)
	assert.Contains(t, markdown, "## Built-in templates\n\n- generation_1.py\n- generation_2.py\n")
}

func TestTreeCommand(t *testing.T) {
	fixture := testutils.StudyFixture(t)
	out := t.TempDir()

	_, err := execute(t, "create", filepath.Join(fixture, "config.yaml"), "--output-dir", out)
	require.NoError(t, err)

	stdout, err := execute(t, "tree", filepath.Join(out, "study", "tree.yaml"))
	require.NoError(t, err)

	expected := strings.Join([]string{
		"study",
		"├── base (study/base.py)",
		"├── x_1_",
		"│   └── scan1 (study/x_1_/scan1.py)",
		"└── x_2_",
		"    └── scan1 (study/x_2_/scan1.py)",
		"",
	}, "\n")
	assert.Equal(t, expected, stdout)
}

func TestTreeCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "tree", filepath.Join(t.TempDir(), "tree.yaml"))

	var ioErr *studytypes.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
}

func TestCheckCommand(t *testing.T) {
	fixture := testutils.StudyFixture(t)
	configPath := filepath.Join(fixture, "config.yaml")
	out := t.TempDir()

	_, err := execute(t, "create", configPath, "--output-dir", out)
	require.NoError(t, err)

	stdout, err := execute(t, "check", configPath, "--output-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Study study is up to date")

	require.NoError(t, os.WriteFile(filepath.Join(out, "study", "base.py"), []byte("params = {}\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(out, "study", "x_2_", "scan1.py")))

	stdout, err = execute(t, "check", configPath, "--output-dir", out)
	require.Error(t, err)
	assert.Contains(t, stdout, "=== base.py ===")
	assert.Contains(t, stdout, "missing: x_2_/scan1.py")
	assert.Contains(t, err.Error(), "1 changed, 1 missing")
}

func TestCheckCommand_NoStudy(t *testing.T) {
	fixture := testutils.StudyFixture(t)

	_, err := execute(t, "check", filepath.Join(fixture, "config.yaml"), "--output-dir", t.TempDir())

	var ioErr *studytypes.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "stat", ioErr.Op)
}

func TestJSONOutput(t *testing.T) {
	fixture := testutils.StudyFixture(t)

	stdout, err := execute(t, "create", filepath.Join(fixture, "config.yaml"), "--output-dir", t.TempDir(), "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)

	var message map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &message))
	assert.Equal(t, "success", message["type"])
	assert.Equal(t, "Study study created with 3 scripts", message["message"])
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "studyda v"))

	stdout, err = execute(t, "version", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Go Version:")
	assert.Contains(t, stdout, "Platform:")
}

func TestSettingsFromEnvironment(t *testing.T) {
	t.Setenv("STUDYDA_WORKERS", "0")

	_, err := execute(t, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
}

func TestCreateCommand_Quiet(t *testing.T) {
	fixture := testutils.StudyFixture(t)
	out := t.TempDir()

	stdout, err := execute(t, "create", filepath.Join(fixture, "config.yaml"), "--output-dir", out, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.FileExists(t, filepath.Join(out, "study", "base.py"))
}

func TestCreateCommand_WarnsWithoutScripts(t *testing.T) {
	dir := testutils.NewFileHelpers().CreateTempDir(t, map[string]string{
		"config.yaml": `
			name: empty
			structure:
			  scan1:
			    executable: {name: generation_1.py}
			    scans:
			      d: {path_list: ["p/____", 2, 2]}
		`,
	})

	stdout, err := execute(t, "create", filepath.Join(dir, "config.yaml"), "--output-dir", t.TempDir(), "--no-tree")
	require.NoError(t, err)
	assert.Contains(t, stdout, "⚠ Study empty has no scripts: a scan produced no values\n")
	assert.Contains(t, stdout, "✓ Study empty created with 0 scripts\n")
}
