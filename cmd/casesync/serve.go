// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/app"
	"github.com/MKhiriev/go-case-sync/internal/handler"
	"github.com/MKhiriev/go-case-sync/internal/server"
	"github.com/MKhiriev/go-case-sync/internal/workers"
	"github.com/spf13/cobra"
)

const defaultHTTPAddress = "localhost:8080"

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger API and run scheduled passes",
		Long: `Serve the HTTP trigger API and run the handlers listed in --handlers every
--sync-interval. Inline handlers consume their bus topics while serving.
The command returns after SIGINT or SIGTERM once queued messages are
delivered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := root.environment(cmd, "casesync-serve")
			if err != nil {
				return err
			}
			if env.cfg.Server.HTTPAddress == "" {
				env.cfg.Server.HTTPAddress = defaultHTTPAddress
			}

			en, err := env.engine(ctx)
			if err != nil {
				return err
			}
			// App.Run drains the bus itself, closing it again is a no-op.
			defer en.close(ctx)

			handlers, err := handler.NewHandlers(en.services, env.cfg.Server, env.log)
			if err != nil {
				return fmt.Errorf("error creating handlers: %w", err)
			}

			srv, err := server.NewServer(handlers, env.cfg.Server, env.log)
			if err != nil {
				return fmt.Errorf("error creating server: %w", err)
			}

			ws, err := workers.NewWorkers(en.services.SyncService, env.cfg.Workers, nil, env.log)
			if err != nil {
				return fmt.Errorf("error creating workers: %w", err)
			}

			a, err := app.NewApp(en.services, en.bus, srv, ws, env.log)
			if err != nil {
				return err
			}

			return a.Run(ctx)
		},
	}
}
