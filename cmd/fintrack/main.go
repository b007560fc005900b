// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package main is the fintrack command.
//
// fintrack backs up and restores the personal finance ledger. One-shot
// commands run a single operation in the foreground:
//
//	fintrack export [--shared]
//	fintrack import <path> [--replace]
//	fintrack import-handle <uri> [--replace]
//	fintrack list
//	fintrack history [--limit N]
//	fintrack prune --keep N
//
// serve runs the HTTP API and the websocket progress stream under a
// supervisor tree until SIGINT or SIGTERM.
//
// # Configuration
//
// Configuration is loaded via koanf from defaults, an optional YAML file
// (--config or FINTRACK_CONFIG_PATH) and FINTRACK_* environment variables.
//
// # Exit Codes
//
//	0  operation completed
//	1  operation failed, was refused or bad usage
//	130 operation cancelled (SIGINT)
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, errCancelled) {
			return 130
		}
		return 1
	}
	return 0
}
