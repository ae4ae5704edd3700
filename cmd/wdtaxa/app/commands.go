package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/wdtaxa/cmd/wdtaxa/cmd/cite"
	"github.com/agentstation/wdtaxa/cmd/wdtaxa/cmd/describe"
	"github.com/agentstation/wdtaxa/cmd/wdtaxa/cmd/identify"
)

func (a *App) registerCommands(root *cobra.Command) {
	for _, cmd := range []*cobra.Command{
		describe.NewCommand(a),
		identify.NewCommand(a),
		cite.NewCommand(a),
	} {
		cmd.GroupID = "core"
		root.AddCommand(cmd)
	}
	root.AddCommand(a.newVersionCommand())
	root.AddCommand(newManCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "wdtaxa version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "WDTAXA",
				Section: "1",
				Source:  "wdtaxa",
				Manual:  "wdtaxa Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
