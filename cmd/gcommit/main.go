// Package main is the entry point for the gcommit application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chmouel/gcommit/internal/bootstrap"
	"github.com/chmouel/gcommit/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date)
	buildinfo.Enrich()

	if err := bootstrap.New().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
