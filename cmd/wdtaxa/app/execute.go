package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/wdtaxa/internal/cmd/output"
	"github.com/agentstation/wdtaxa/pkg/logging"
)

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "wdtaxa",
		Short:   "Reconcile Wikidata taxa against taxonomic authorities",
		Version: a.version,
		Long: `wdtaxa finds Wikidata taxon and article items that lack a description,
an authority identifier, or a taxon author, and writes QuickStatements v2
(CSV) batches that add them.

Identifiers are matched against IPNI, GBIF, or Index Fungorum and accepted
only when exactly one authority record agrees on name and higher taxon.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.wdtaxa.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "summary format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("output-dir", a.config.OutputDir, "directory for QuickStatements files")

	root.SetVersionTemplate("wdtaxa {{.Version}}\n")
	a.registerCommands(root)
	return root
}

// setupCommand applies flags and rebuilds the logger before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		loaded, err := LoadConfig(mustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		a.config = loaded
	}
	if cmd.Flags().Changed("output-dir") {
		a.config.OutputDir = mustGetString(cmd, "output-dir")
	}

	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
