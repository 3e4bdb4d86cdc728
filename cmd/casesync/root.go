// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/bus"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/internal/validators"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/spf13/cobra"
)

const (
	defaultVersion  = "dev"
	busDrainTimeout = 30 * time.Second
)

// rootOptions is shared by every subcommand: the parsed configuration flags
// and the build metadata linked into the binary.
type rootOptions struct {
	flags *config.FlagSet
	build models.AppBuildInfo
}

// NewRootCommand builds the casesync command tree.
func NewRootCommand(build models.AppBuildInfo) *cobra.Command {
	opts := &rootOptions{build: build}

	cmd := &cobra.Command{
		Use:   "casesync",
		Short: "Synchronize case objects with remote systems",
		Long: `casesync keeps case objects in a local object store in sync with remote
systems. Handlers declared in the resource registry pull remote items into
the store, push local cases out, or hand them over a bus to inline handlers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.flags = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newRunCommand(opts),
		newServeCommand(opts),
		newFlattenCommand(opts),
		newMigrateCommand(opts),
		newVersionCommand(opts),
	)

	return cmd
}

func (o *rootOptions) version() string {
	return o.build.Or(defaultVersion).BuildVersion()
}

// environment holds what a command needs before touching the store.
type environment struct {
	cfg *config.StructuredConfig
	log *logger.Logger
}

// environment loads the configuration and builds a logger writing to the
// command's error stream, so that stdout stays free for command output.
func (o *rootOptions) environment(cmd *cobra.Command, role string) (*environment, error) {
	cfg, err := config.GetStructuredConfig(o.flags)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = o.version()
	}

	log := logger.NewFileLogger(role, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Level:      cfg.Log.Level,
		Console:    cmd.ErrOrStderr(),
	})
	log.Debug().Any("config", cfg).Msg("received configs")

	return &environment{cfg: cfg, log: log}, nil
}

// resources loads and validates the resource registry.
func (e *environment) resources(ctx context.Context) (*models.Resources, error) {
	resources, err := config.LoadResources(e.cfg.ResourcesPath)
	if err != nil {
		return nil, err
	}

	if err = validators.NewResourceValidator().Validate(ctx, resources); err != nil {
		return nil, fmt.Errorf("invalid resource registry %s: %w", e.cfg.ResourcesPath, err)
	}

	e.log.Info().
		Str("path", e.cfg.ResourcesPath).
		Int("handlers", len(resources.Handlers)).
		Msg("resource registry loaded")

	return resources, nil
}

// engine is the wired synchronization stack.
type engine struct {
	storages *store.Storages
	bus      bus.Bus
	services *service.Services

	log *logger.Logger
}

func (e *environment) engine(ctx context.Context) (*engine, error) {
	resources, err := e.resources(ctx)
	if err != nil {
		return nil, err
	}

	storages, err := store.NewStorages(ctx, e.cfg.Storage.DB, e.log)
	if err != nil {
		return nil, fmt.Errorf("error creating storages: %w", err)
	}

	b := bus.NewMemoryBus(bus.Options{MaxAttempts: e.cfg.Engine.BusMaxAttempts}, e.log)
	caller := adapter.NewHTTPCaller(e.cfg.Adapter, e.log)

	services, err := service.NewServices(storages, resources, caller, b, *e.cfg, e.log)
	if err != nil {
		_ = b.Close(ctx)
		_ = storages.Close()
		return nil, fmt.Errorf("error creating services: %w", err)
	}

	return &engine{storages: storages, bus: b, services: services, log: e.log}, nil
}

// close drains the bus, then closes the store. Draining survives the
// cancellation of ctx for at most busDrainTimeout.
func (en *engine) close(ctx context.Context) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), busDrainTimeout)
	defer cancel()

	if err := en.bus.Close(drainCtx); err != nil {
		en.log.Err(err).Str("func", "engine.close").Msg("bus was not drained")
	}
	if err := en.storages.Close(); err != nil {
		en.log.Err(err).Str("func", "engine.close").Msg("error closing storages")
	}
}
