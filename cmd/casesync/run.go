// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/report"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/spf13/cobra"
)

var errCandidatesFailed = errors.New("candidates failed")

type runOptions struct {
	limit        uint64
	asJSON       bool
	handlersFile string
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <handler>",
		Short: "Run one pass of a handler",
		Long: `Run one pass of the named handler and print a report of every candidate.
The command fails when at least one candidate failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHandler(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().Uint64Var(&opts.limit, "limit", 0, "Maximum number of candidates (0 means no limit)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the pass report as JSON")
	cmd.Flags().StringVar(&opts.handlersFile, "handlers-file", "", "Resource registry path, overrides --resources")

	return cmd
}

func runHandler(cmd *cobra.Command, root *rootOptions, opts *runOptions, name string) error {
	ctx := cmd.Context()

	env, err := root.environment(cmd, "casesync-run")
	if err != nil {
		return err
	}
	if opts.handlersFile != "" {
		env.cfg.ResourcesPath = opts.handlersFile
	}

	ctx = env.log.WithContext(ctx)

	en, err := env.engine(ctx)
	if err != nil {
		return err
	}
	defer en.close(ctx)

	service.SubscribeConsumers(ctx, en.bus, en.services.SyncService)

	passOpts := service.PassOptions{Limit: opts.limit}
	if !opts.asJSON {
		passOpts.Observer = report.NewConsole(cmd.OutOrStdout()).Observe
	}

	rep, err := en.services.SyncService.RunPass(ctx, name, passOpts)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err = enc.Encode(rep); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
	}

	if failed := rep.Count(models.OutcomeFailed); failed > 0 {
		return fmt.Errorf("%w: %d of %d", errCandidatesFailed, failed, len(rep.Outcomes))
	}

	return nil
}
