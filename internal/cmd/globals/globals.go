// Package globals provides flags shared by the pipeline commands.
package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// Flags holds the flags every pipeline command accepts.
type Flags struct {
	// Rank of the taxa to select below the higher taxon.
	Rank string
	// Out is the QuickStatements file; "-" writes to stdout and an empty
	// value derives the name from the request.
	Out string
}

// AddFlags registers the shared flags on cmd. withRank is false for
// commands that do not select taxa.
func AddFlags(cmd *cobra.Command, withRank bool) *Flags {
	flags := &Flags{}
	if withRank {
		cmd.Flags().StringVarP(&flags.Rank, "rank", "r", "species",
			"rank of taxa to select: species, genus, family")
		_ = cmd.RegisterFlagCompletionFunc("rank", completeRank)
	}
	cmd.Flags().StringVar(&flags.Out, "out", "",
		`QuickStatements output file ("-" for stdout; default derived from the request)`)
	return flags
}

func completeRank(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ranks := make([]string, 0, len(wdqs.Ranks))
	for name := range wdqs.Ranks {
		ranks = append(ranks, name)
	}
	return ranks, cobra.ShellCompDirectiveNoFileComp
}
