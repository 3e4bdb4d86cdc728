// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MKhiriev/go-case-sync/internal/schema"
	"github.com/spf13/cobra"
)

type flattenOptions struct {
	basePath string
}

func newFlattenCommand(_ *rootOptions) *cobra.Command {
	opts := &flattenOptions{}

	cmd := &cobra.Command{
		Use:   "flatten <schema.json>",
		Short: "Resolve every $ref of a JSON schema",
		Long: `Read a JSON schema, replace every local $ref with the definition it points
to and print the result. With --base, references resolve against another
document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment, err := readJSONObject(args[0])
			if err != nil {
				return err
			}

			base := fragment
			if opts.basePath != "" {
				if base, err = readJSONObject(opts.basePath); err != nil {
					return err
				}
			}

			flattened, err := schema.FlattenWithBase(fragment, base)
			if err != nil {
				return fmt.Errorf("error flattening %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(flattened)
		},
	}

	cmd.Flags().StringVar(&opts.basePath, "base", "", "Document the references resolve against")

	return cmd
}

func readJSONObject(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var obj map[string]any
	if err = json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%s does not hold a JSON object", path)
	}

	return obj, nil
}
