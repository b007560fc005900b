// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/fintrack/internal/config"
	"github.com/tomtom215/fintrack/internal/logging"
)

// globalOptions holds values shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "fintrack",
		Short:         "Back up and restore the personal finance ledger",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newExportCmd(opts, stderr))
	cmd.AddCommand(newImportCmd(opts, stderr))
	cmd.AddCommand(newImportHandleCmd(opts, stderr))
	cmd.AddCommand(newListCmd(opts, stdout))
	cmd.AddCommand(newHistoryCmd(opts, stdout))
	cmd.AddCommand(newPruneCmd(opts, stdout))

	return cmd
}

// load reads the configuration and initializes logging. Logs go to stderr
// so stdout stays parseable.
func (o *globalOptions) load(stderr io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})
	o.cfg = cfg
	return nil
}
