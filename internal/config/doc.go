// Fintrack - Personal Finance Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fintrack

// Package config loads Fintrack configuration with koanf.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Built-in defaults (structs provider)
//  2. YAML config file (FINTRACK_CONFIG, ./fintrack.yaml, /etc/fintrack/config.yaml)
//  3. Environment variables (FINTRACK_* names, see envMappings)
//
// Example config file:
//
//	storage:
//	  private_dir: /var/lib/fintrack/backups
//	  shared_dir: /home/me/Downloads
//	  shared_access: auto
//	  keep_private: 10
//	database:
//	  path: /var/lib/fintrack/db
//	server:
//	  port: 8087
//	logging:
//	  level: debug
//	  format: console
package config
