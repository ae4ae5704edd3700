// Package identify implements the identify command, which adds authority
// identifiers to taxa that lack one.
package identify

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/wdtaxa/internal/appcontext"
	"github.com/agentstation/wdtaxa/internal/cmd/emit"
	"github.com/agentstation/wdtaxa/internal/cmd/globals"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

// NewCommand creates the identify command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "identify <higher-taxon-qid>",
		Short: "Add authority identifiers to taxa that lack one",
		Long: `Find taxa below a higher taxon without an identifier from the chosen
authority, look each uniquely named taxon up, and keep a match only when
exactly one record has the same name and the same parent taxon (or, for
Index Fungorum, the same rank).`,
		Args: cobra.ExactArgs(1),
		Example: `  wdtaxa identify Q25314 --authority ipni
  wdtaxa identify Q764 --authority indexfungorum --rank genus`,
	}
	flags := globals.AddFlags(cmd, true)
	cmd.Flags().StringVarP(&source, "authority", "a", authority.IPNI.String(),
		"authority: ipni, gbif, indexfungorum")
	_ = cmd.RegisterFlagCompletionFunc("authority", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{authority.IPNI.String(), authority.GBIF.String(), authority.IndexFungorum.String()}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rc, err := app.Reconciler()
		if err != nil {
			return err
		}
		auth, err := rc.Authorities().Get(source)
		if err != nil {
			return err
		}
		s, rows, err := rc.TaxaMissingIdentifier(cmd.Context(), reconcile.IdentifyRequest{
			HigherTaxon: args[0],
			Rank:        flags.Rank,
			Authority:   strings.ToLower(source),
		})
		if err != nil {
			return err
		}
		name := quickstatements.Filename("add_"+auth.Property, args[0], flags.Rank)
		return emit.Write(cmd, app, s, rows, flags.Out, name)
	}
	return cmd
}
