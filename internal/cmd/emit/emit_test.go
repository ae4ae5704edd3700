package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wdtaxa/internal/appcontext"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

var rows = []quickstatements.Row{
	{"qid", "Den", "#"},
	{"Q1", `"""x"""`, "add en descriptions"},
}

func newCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func TestWriteFileAndTable(t *testing.T) {
	dir := t.TempDir()
	app := &appcontext.Mock{Format: "table", Dir: dir, MetricsPath: filepath.Join(dir, "wdtaxa.prom")}
	app.Metrics().Run(reconcile.OpDescribeTaxa, nil)
	cmd, stdout, stderr := newCmd()

	s := &reconcile.Summary{Operation: reconcile.OpDescribeTaxa, Found: 3, Resolved: 1, Ambiguous: 2, Rows: 1, RunID: "run-1"}
	require.NoError(t, Write(cmd, app, s, rows, "", "add_Den_Q1_species.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "add_Den_Q1_species.csv"))
	require.NoError(t, err)
	assert.Equal(t, "qid,Den,#\nQ1,\"\"\"x\"\"\",add en descriptions\n", string(data))

	assert.Contains(t, stdout.String(), "Ambiguous")
	assert.NotContains(t, stdout.String(), "Lookup failed")
	assert.Contains(t, stdout.String(), "run-1")
	assert.Empty(t, stderr.String())

	prom, err := os.ReadFile(app.MetricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "wdtaxa_runs_total")
}

func TestWriteStdout(t *testing.T) {
	app := &appcontext.Mock{Format: "yaml"}
	cmd, stdout, stderr := newCmd()

	s := &reconcile.Summary{Operation: reconcile.OpDescribeArticles, Found: 1, Resolved: 1, Rows: 1}
	require.NoError(t, Write(cmd, app, s, rows, "-", "ignored.csv"))

	assert.Equal(t, "qid,Den,#\nQ1,\"\"\"x\"\"\",add en descriptions\n", stdout.String())
	assert.Contains(t, stderr.String(), "operation: describe-articles")
	assert.NotContains(t, stderr.String(), "file:")
}
