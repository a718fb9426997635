// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/store"
)

// defaultPaths is where each backend lives when no path is given.
var defaultPaths = map[string]string{
	config.BackendJSON:   "db.json",
	config.BackendBadger: "db.badger",
	config.BackendSQLite: "db.sqlite",
}

type storeFlags struct {
	backend string
	path    string
}

// resolve fills unset fields from the server configuration.
func (f storeFlags) resolve() (config.StoreConfig, error) {
	if f.backend != "" && f.path != "" {
		return config.StoreConfig{Backend: f.backend, Path: f.path}, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return config.StoreConfig{}, err
	}
	out := cfg.Store
	if f.backend != "" {
		out.Backend = f.backend
		out.Path = defaultPaths[f.backend]
	}
	if f.path != "" {
		out.Path = f.path
	}
	return out, nil
}

func newRootCmd() *cobra.Command {
	var flags storeFlags

	root := &cobra.Command{
		Use:          "shelfctl",
		Short:        "Mediashelf store maintenance",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "store backend: json, badger or sqlite")
	root.PersistentFlags().StringVar(&flags.path, "path", "", "store location")

	root.AddCommand(newStatsCmd(&flags))
	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newMigrateCmd())
	return root
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store at %s: %w", cfg.Backend, cfg.Path, err)
	}
	return st, nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing store")
	}
}

func newStatsCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of records per collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "store:  %s (%s)\n", cfg.Path, cfg.Backend)
			fmt.Fprintf(out, "games:  %d\n", stats.Games)
			fmt.Fprintf(out, "songs:  %d\n", stats.Songs)
			fmt.Fprintf(out, "clips:  %d\n", stats.Clips)
			return nil
		},
	}
}

func newExportCmd(flags *storeFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalog as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snap, err := store.Dump(cmd.Context(), st)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				if err := writeExport(cmd.OutOrStdout(), snap); err != nil {
					return err
				}
			} else {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				if err := writeExportFile(f, snap); err != nil {
					return fmt.Errorf("%s: %w", output, err)
				}
			}
			logging.Info().Int("records", snap.Stats().Total()).Str("output", output).Msg("Catalog exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func writeExport(w io.Writer, snap store.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// writeExportFile encodes snap into f and closes it, returning the close
// error.
func writeExportFile(f io.WriteCloser, snap store.Snapshot) error {
	if err := writeExport(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	var from, to storeFlags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every record into another backend, keeping ids and order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from.path == "" {
				from.path = defaultPaths[from.backend]
			}
			if to.path == "" {
				to.path = defaultPaths[to.backend]
			}
			if from.backend == to.backend && from.path == to.path {
				return fmt.Errorf("source and destination are the same store")
			}

			ctx := cmd.Context()
			src, err := openStore(ctx, config.StoreConfig{Backend: from.backend, Path: from.path})
			if err != nil {
				return err
			}
			defer closeStore(src)

			dst, err := openStore(ctx, config.StoreConfig{Backend: to.backend, Path: to.path})
			if err != nil {
				return err
			}
			defer closeStore(dst)

			stats, err := store.Copy(ctx, dst, src)
			if err != nil {
				return fmt.Errorf("migrate %s to %s: %w", from.backend, to.backend, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d games, %d songs, %d clips from %s to %s (%s)\n",
				stats.Games, stats.Songs, stats.Clips, from.path, to.path, to.backend)
			return nil
		},
	}
	cmd.Flags().StringVar(&from.backend, "from", "", "source backend: json, badger or sqlite")
	cmd.Flags().StringVar(&to.backend, "to", "", "destination backend: json, badger or sqlite")
	cmd.Flags().StringVar(&from.path, "from-path", "", "source location (default depends on backend)")
	cmd.Flags().StringVar(&to.path, "to-path", "", "destination location (default depends on backend)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
