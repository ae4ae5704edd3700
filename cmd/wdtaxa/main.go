// Package main provides the entry point for the wdtaxa CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/wdtaxa/cmd/wdtaxa/app"
	"github.com/agentstation/wdtaxa/pkg/constants"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancelTimeout()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
