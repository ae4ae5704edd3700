// Package cite implements the cite command, which adds taxon author
// qualifiers parsed from Index Fungorum citations.
package cite

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wdtaxa/internal/appcontext"
	"github.com/agentstation/wdtaxa/internal/cmd/emit"
	"github.com/agentstation/wdtaxa/internal/cmd/globals"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

// NewCommand creates the cite command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cite <higher-taxon-qid>",
		Short: "Add taxon authors from Index Fungorum citations",
		Long: `Find fungal taxa below a higher taxon that have an Index Fungorum ID but
no taxon author, parse the author citation of each record, and resolve
every author abbreviation to the Wikidata item carrying it (P428).

Citations outside the supported botanical style are skipped, never guessed.`,
		Args:    cobra.ExactArgs(1),
		Example: `  wdtaxa cite Q1140213 --rank species`,
	}
	flags := globals.AddFlags(cmd, true)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rc, err := app.Reconciler()
		if err != nil {
			return err
		}
		s, rows, err := rc.TaxaMissingAuthors(cmd.Context(), reconcile.AuthorsRequest{
			HigherTaxon: args[0],
			Rank:        flags.Rank,
		})
		if err != nil {
			return err
		}
		name := quickstatements.Filename("add_"+constants.PropTaxonAuthor, args[0], flags.Rank)
		return emit.Write(cmd, app, s, rows, flags.Out, name)
	}
	return cmd
}
