// Package describe implements the describe command, which adds a
// description to taxa or scholarly articles that lack one.
package describe

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/wdtaxa/internal/appcontext"
	"github.com/agentstation/wdtaxa/internal/cmd/emit"
	"github.com/agentstation/wdtaxa/internal/cmd/globals"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

// NewCommand creates the describe command and its subcommands.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Add descriptions to items that lack one in a language",
	}
	cmd.AddCommand(newTaxaCommand(app), newArticlesCommand(app))
	return cmd
}

func newTaxaCommand(app appcontext.Interface) *cobra.Command {
	var lang, description string
	cmd := &cobra.Command{
		Use:   "taxa <higher-taxon-qid>",
		Short: "Describe taxa below a higher taxon",
		Args:  cobra.ExactArgs(1),
		Example: `  wdtaxa describe taxa Q1390 --lang fr --description "espèce de ciliés"
  wdtaxa describe taxa Q1390 --rank genus --lang de --description "Gattung der Wimpertierchen" --out -`,
	}
	flags := globals.AddFlags(cmd, true)
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "description language code")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description text to add")
	_ = cmd.MarkFlagRequired("description")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rc, err := app.Reconciler()
		if err != nil {
			return err
		}
		s, rows, err := rc.TaxaMissingDescriptions(cmd.Context(), reconcile.DescribeTaxaRequest{
			HigherTaxon: args[0],
			Rank:        flags.Rank,
			Lang:        lang,
			Description: description,
		})
		if err != nil {
			return err
		}
		name := quickstatements.Filename("add_D"+lang, args[0], flags.Rank)
		return emit.Write(cmd, app, s, rows, flags.Out, name)
	}
	return cmd
}

func newArticlesCommand(app appcontext.Interface) *cobra.Command {
	var lang, prefix, suffix string
	cmd := &cobra.Command{
		Use:   "articles <periodical-qid>",
		Short: "Describe scholarly articles published in a periodical",
		Args:  cobra.ExactArgs(1),
		Example: `  wdtaxa describe articles Q2000010 --lang en
  wdtaxa describe articles Q2000010 --lang en --prefix "article published in " --suffix " in Mycologia"`,
	}
	flags := globals.AddFlags(cmd, false)
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "description language code")
	cmd.Flags().StringVar(&prefix, "prefix", reconcile.DefaultArticlePrefix, "text before the publication year")
	cmd.Flags().StringVar(&suffix, "suffix", "", "text after the publication year")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rc, err := app.Reconciler()
		if err != nil {
			return err
		}
		s, rows, err := rc.ArticlesMissingDescriptions(cmd.Context(), reconcile.DescribeArticlesRequest{
			Periodical: args[0],
			Lang:       lang,
			Prefix:     prefix,
			Suffix:     suffix,
		})
		if err != nil {
			return err
		}
		name := quickstatements.Filename("add_D"+lang, args[0], "articles")
		return emit.Write(cmd, app, s, rows, flags.Out, name)
	}
	return cmd
}
