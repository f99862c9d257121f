// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-language/internal/version"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "ocms-lang",
		Short: "Language management for oCMS installations",
		Long: `ocms-lang edits the languages of an installation.

Environment Variables:
  OCMS_DB_DRIVER             sqlite or mysql (default: sqlite)
  OCMS_DB_PATH               SQLite database path (default: ./data/ocms.db)
  OCMS_DB_DSN                MySQL DSN (required for mysql)
  OCMS_INSTALL_DIR           Installation directory (default: ./wcf)
  OCMS_LANGUAGE_FILE_FORMAT  Compiled file format: php or json (default: php)
  OCMS_ADMIN_TOKEN           Bearer token of the admin API
  OCMS_REDIS_URL             Redis URL for the shared cache (optional)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Load .env files if present (development)
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("loading %s: %w", envFile, err)
				}
				return nil
			}
			_ = godotenv.Load()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "environment file to load (default: ./.env if present)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newImportCmd(),
		newExportCmd(),
		newSearchCmd(),
		newRebuildCmd(),
		newResetCmd(),
		newPermissionsCmd(),
		newHooksCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}
}
