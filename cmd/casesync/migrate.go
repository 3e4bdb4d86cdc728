// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/spf13/cobra"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the object store migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.environment(cmd, "casesync-migrate")
			if err != nil {
				return err
			}

			db, err := store.NewConnect(cmd.Context(), env.cfg.Storage.DB, env.log)
			if err != nil {
				return fmt.Errorf("%s connection error: %w", env.cfg.Storage.DB.Dialect, err)
			}
			defer db.Close()

			if err = db.Migrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", db.Dialect())
			return nil
		},
	}
}
