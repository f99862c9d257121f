// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-language/internal/language"
)

func newSearchCmd() *cobra.Command {
	var (
		opts     language.SearchOptions
		replace  string
		langCode string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search language items and optionally replace matches",
		Long: `Search language items by value (system or custom) or, with --names, by name.
Matching is case-insensitive. With --replace every match is rewritten and
stored as the custom value of the item.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			opts.Query = args[0]
			if cmd.Flags().Changed("replace") {
				opts.Replace = &replace
			}
			if langCode != "" {
				editor, err := a.languageByCode(cmd.Context(), langCode)
				if err != nil {
					return err
				}
				opts.LanguageID = editor.Language().ID
			}

			results, err := a.languages.Search(cmd.Context(), opts)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "LANGUAGE\tITEM\tVALUE\tREPLACED")
			for _, r := range results {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%q\t%d\n", r.LanguageID, r.Name, r.EffectiveValue(), r.Matches)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d item(s)\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&replace, "replace", "", "replacement for every match")
	cmd.Flags().StringVar(&langCode, "language", "", "restrict the search to one language code")
	cmd.Flags().BoolVar(&opts.UseRegex, "regex", false, "treat QUERY as a regular expression")
	cmd.Flags().BoolVar(&opts.SearchNames, "names", false, "match item names instead of values")
	return cmd
}
