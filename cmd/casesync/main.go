// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command casesync keeps case objects and their remote counterparts in sync.
//
// Subcommands:
//
//	run <handler>   run one pass of a handler and print its report
//	serve           serve the HTTP trigger API and run scheduled passes
//	flatten <file>  resolve every $ref of a JSON schema file
//	migrate         apply the object store migrations
//	version         print build information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-case-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	root := NewRootCommand(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
