// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/fintrack/internal/backup"
)

// runWithApp opens the app for the duration of fn.
func runWithApp(opts *globalOptions, fn func(a *app) error) (err error) {
	a, err := newApp(opts.cfg)
	if err != nil {
		return err
	}
	defer a.closeInto(&err)
	return fn(a)
}

// runOneShot runs a single orchestrator operation with SIGINT cancellation
// and prints its result.
func runOneShot(cmd *cobra.Command, opts *globalOptions, stderr io.Writer, start startFunc) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return runWithApp(opts, func(a *app) error {
		e, err := runOperation(ctx, a, stderr, start)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), e.Result)
		return nil
	})
}

func printResult(out io.Writer, r *backup.OperationResult) {
	if r == nil {
		return
	}
	if r.Import != nil {
		fmt.Fprintf(out, "transactions_imported=%d categories_imported=%d categories_skipped=%d\n",
			r.Import.TransactionsImported, r.Import.CategoriesImported, r.Import.CategoriesSkipped)
		return
	}
	fmt.Fprintln(out, r.Path)
}

func newExportCmd(opts *globalOptions, stderr io.Writer) *cobra.Command {
	var shared bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of all transactions and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOneShot(cmd, opts, stderr, func(o *backup.Orchestrator) (string, bool) {
				if shared {
					return o.StartExportExternal()
				}
				return o.StartExportInternal()
			})
		},
	}
	cmd.Flags().BoolVar(&shared, "shared", false, "Write to the shared location instead of the private directory")
	return cmd
}

func newImportCmd(opts *globalOptions, stderr io.Writer) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Restore a snapshot file into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(cmd, opts, stderr, func(o *backup.Orchestrator) (string, bool) {
				return o.StartImport(args[0], replace)
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite categories that already exist by name")
	return cmd
}

func newImportHandleCmd(opts *globalOptions, stderr io.Writer) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import-handle <uri>",
		Short: "Restore a snapshot from a content handle (shared://name or file://path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return runWithApp(opts, func(a *app) error {
				h, err := a.files.OpenHandle(args[0])
				if err != nil {
					return err
				}
				e, err := runOperation(ctx, a, stderr, func(o *backup.Orchestrator) (string, bool) {
					return o.StartImportHandle(h, replace)
				})
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), e.Result)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite categories that already exist by name")
	return cmd
}

func newListCmd(opts *globalOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List private snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			files, err := backup.NewStore(opts.cfg.Storage.PrivateDir, nil).PrivateBackups()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, humanize.Bytes(uint64(f.Size)), f.ModTime.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newHistoryCmd(opts *globalOptions, stdout io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded backup and restore outcomes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return errors.New("--limit must be >= 0")
			}
			return runWithApp(opts, func(a *app) error {
				records, err := a.orchestrator.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "FINISHED\tKIND\tOUTCOME\tDURATION\tDETAIL")
				for i := range records {
					r := &records[i]
					detail := r.Path
					if r.ErrorMessage != "" {
						detail = r.ErrorMessage
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						r.FinishedAt.Format(time.RFC3339), r.Kind, r.Outcome, r.Duration().Round(time.Millisecond), detail)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records (0 shows all)")
	return cmd
}

func newPruneCmd(opts *globalOptions, stdout io.Writer) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest N private snapshots",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if keep <= 0 {
				return errors.New("--keep must be > 0")
			}
			deleted, err := backup.NewStore(opts.cfg.Storage.PrivateDir, nil).PrunePrivate(keep)
			if err != nil {
				return err
			}
			for _, path := range deleted {
				fmt.Fprintln(stdout, "deleted", path)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "Number of snapshots to keep")
	return cmd
}
