// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-language/internal/language"
	"github.com/olegiv/ocms-language/internal/util"
)

func newImportCmd() *cobra.Command {
	var packageID int64

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a language file, creating the language when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			doc, err := language.ParseDocument(f)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			editor, result, err := a.languages.ImportFromXML(cmd.Context(), doc, packageID)
			if err != nil {
				return err
			}

			lang := editor.Language()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d item(s) in %d categorie(s) into %s (id %d), %d new categorie(s)\n",
				result.Items, result.Categories, lang.LanguageCode, lang.ID, result.CreatedCategories)
			return nil
		},
	}

	cmd.Flags().Int64Var(&packageID, "package", 0, "package that owns the imported items (0 for none)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		packages string
		custom   bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export LANGUAGE_CODE",
		Short: "Export a language as a language file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packageIDs, err := util.ParseInt64List(packages)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			editor, err := a.languageByCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return editor.Export(cmd.Context(), cmd.OutOrStdout(), packageIDs, custom)
			}

			var buf bytes.Buffer
			if err := editor.Export(cmd.Context(), &buf, packageIDs, custom); err != nil {
				return err
			}
			return util.WriteFileAtomic(output, buf.Bytes(), 0o644)
		},
	}

	cmd.Flags().StringVar(&packages, "package", "", "comma separated package ids to export (default: all)")
	cmd.Flags().BoolVar(&custom, "custom", false, "export custom values where they are in use")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	return cmd
}
