package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyda/pkg/studytypes"
)

func TestPrinterBasicOutput(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Print("hello")
	printer.Println(" world")
	printer.Printf("scripts: %d", 42)

	assert.Equal(t, "hello world\nscripts: 42", buffer.String())
}

func TestPrinterSemanticOutput(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Info("information")
	printer.Success("completed")
	printer.Warning("careful")
	printer.Error("failed")

	assert.Equal(t, []string{
		"ℹ information",
		"✓ completed",
		"⚠ careful",
		"✗ failed",
	}, buffer.Lines())
}

func TestPrinterWithStyleProvider(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), WithStyles(&tagStyles{}))

	printer.Generation("scan1")
	printer.Path("study/x_1_/")
	printer.Success("done")

	assert.Equal(t, "[generation]scan1[/generation][path]study/x_1_/[/path][success]done[/success]\n", buffer.String())
}

func TestPrinterWithUnavailableStyleProvider(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), WithStyles(&tagStyles{unavailable: true}))
	printer.Info("test message")

	assert.Equal(t, "ℹ test message\n", buffer.String())
	assert.False(t, printer.IsStylable())
}

func TestPrinterPlainMode(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), WithStyles(&tagStyles{}), PlainText())

	printer.Info("test message")
	printer.Success("success message")

	assert.Equal(t, "ℹ test message\n✓ success message\n", buffer.String())
	assert.NotContains(t, buffer.String(), "[info]")
}

func TestPrinterJSONMode(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), JSON())

	printer.Info("created")
	printer.Block("\x1b[1mstudy\x1b[0m\n└── base")

	lines := buffer.Lines()
	require.Len(t, lines, 2)

	var first map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, map[string]string{"type": "info", "message": "created"}, first)

	var second map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "study\n└── base", second["message"])
}

func TestPrinterSilentMode(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), Silent())

	printer.Info("hidden")
	printer.Block("hidden")

	assert.Equal(t, 0, buffer.Len())
}

func TestPrinterBlockStripsStylingWhenPlain(t *testing.T) {
	buffer := &captureBuffer{}
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Block("\x1b[38;5;39mstudy/base.py\x1b[0m")
	assert.Equal(t, "study/base.py\n", buffer.String())
}

func TestCapture(t *testing.T) {
	out := capture(func(p *Printer) {
		p.Success("Study created")
	})
	assert.Equal(t, "✓ Study created\n", out)
}

func TestDetectStyleProvider(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Nil(t, DetectStyleProvider(&bytes.Buffer{}))
}

func TestTerminalStyleProvider(t *testing.T) {
	provider := NewTerminalStyleProvider()
	assert.True(t, provider.IsAvailable())

	// Unknown semantics fall back to the plain style.
	assert.Equal(t, "text", strings.TrimSpace(provider.GetStyle("unknown").Render("text")))
}

func TestTreeView(t *testing.T) {
	tree := studytypes.NewTree()
	require.NoError(t, tree.Insert([]string{"base"}, "study/base.py"))
	require.NoError(t, tree.Insert([]string{"x_1_", "scan1"}, "study/x_1_/scan1.py"))
	require.NoError(t, tree.Insert([]string{"x_2_", "scan1"}, "study/x_2_/scan1.py"))

	view, err := TreeView("study", tree)
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
	assert.Equal(t, expected, view)
}

func TestRenderMarkdownPlain(t *testing.T) {
	rendered, err := RenderMarkdown("# Study\n\n| generation | scripts |\n|---|---|\n| base | 1 |\n", false)
	require.NoError(t, err)

	assert.Contains(t, rendered, "Study")
	assert.Contains(t, rendered, "base")

	_, err = RenderMarkdown("   ", false)
	assert.Error(t, err)
}

func BenchmarkPrinterPlainOutput(b *testing.B) {
	printer := NewPrinter(WithWriter(&bytes.Buffer{}), TestMode())
	for i := 0; i < b.N; i++ {
		printer.Info("benchmark message")
	}
}
