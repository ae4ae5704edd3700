// Package emit writes a pipeline's QuickStatements rows and reports its
// summary.
package emit

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/wdtaxa/internal/appcontext"
	"github.com/agentstation/wdtaxa/internal/cmd/output"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

// Result is what a pipeline command reports.
type Result struct {
	reconcile.Summary `yaml:",inline"`
	File              string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Write saves rows to out (or, when out is empty, to name under the
// app's output directory), exports metrics if configured, and prints the
// summary. With out "-" the rows go to stdout and the summary to stderr.
func Write(cmd *cobra.Command, app appcontext.Interface, s *reconcile.Summary, rows []quickstatements.Row, out, name string) error {
	var summaryOut io.Writer = cmd.OutOrStdout()
	res := Result{Summary: *s}

	switch out {
	case "-":
		if err := quickstatements.WriteAll(quickstatements.NewCSVWriter(cmd.OutOrStdout()), rows); err != nil {
			return err
		}
		summaryOut = cmd.ErrOrStderr()
	default:
		if out == "" {
			out = filepath.Join(app.OutputDir(), name)
		}
		if err := quickstatements.WriteFile(out, rows); err != nil {
			return err
		}
		res.File = out
		app.Logger().Info().Str("file", out).Int("rows", s.Rows).Msg("QuickStatements written")
	}

	if path := app.MetricsFile(); path != "" {
		if err := app.Metrics().WriteTextfile(path); err != nil {
			app.Logger().Warn().Err(err).Str("file", path).Msg("Failed to write metrics")
		}
	}

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable {
		return output.NewFormatter(format).Format(summaryOut, res.table())
	}
	return output.NewFormatter(format).Format(summaryOut, res)
}

func (r Result) table() output.Data {
	s := r.Summary
	d := output.Data{Headers: []string{"Outcome", "Items"}}
	add := func(label string, n int) {
		d.Rows = append(d.Rows, []string{label, strconv.Itoa(n)})
	}
	add("Found", s.Found)
	add("Resolved", s.Resolved)
	if s.RowErrors > 0 {
		add("Malformed rows", s.RowErrors)
	}
	if s.MissingKey > 0 {
		add("Missing key", s.MissingKey)
	}
	if s.Ambiguous > 0 {
		add("Ambiguous", s.Ambiguous)
	}
	if s.Unmatched > 0 {
		add("No unique match", s.Unmatched)
	}
	if s.Unparseable > 0 {
		add("Unparseable citation", s.Unparseable)
	}
	if s.Unresolved > 0 {
		add("Unresolved author", s.Unresolved)
	}
	if s.Failed > 0 {
		add("Lookup failed", s.Failed)
	}
	d.Rows = append(d.Rows, []string{"Run", s.RunID})
	if r.File != "" {
		d.Rows = append(d.Rows, []string{"File", r.File})
	}
	return d
}
