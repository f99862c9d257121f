// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-language/internal/category"
	"github.com/olegiv/ocms-language/internal/language"
	"github.com/olegiv/ocms-language/internal/util"
)

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [LANGUAGE_CODE]",
		Short: "Compile the language files of one or every language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var editors []*language.Editor
			if len(args) == 1 {
				editor, err := a.languageByCode(ctx, args[0])
				if err != nil {
					return err
				}
				editors = append(editors, editor)
			} else {
				languages, err := a.languages.Languages(ctx)
				if err != nil {
					return err
				}
				for _, lang := range languages {
					editors = append(editors, a.languages.Editor(lang))
				}
			}

			for _, editor := range editors {
				written, err := editor.WriteAllLanguageFiles(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d file(s)\n", editor.Language().LanguageCode, written)
			}
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every compiled language file and clear the caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.languages.UpdateAll(cmd.Context()); err != nil {
				return err
			}
			if err := a.cache.ClearAll(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "compiled language files removed")
			return nil
		},
	}
}

func newPermissionsCmd() *cobra.Command {
	var (
		userID int64
		groups string
	)

	cmd := &cobra.Command{
		Use:   "permissions CATEGORY_ID",
		Short: "Show the options a user has in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID := util.ParseNullInt64Positive(args[0])
			if !categoryID.Valid {
				return fmt.Errorf("invalid category id %q", args[0])
			}
			groupIDs, err := util.ParseInt64List(groups)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			perms, err := a.permissions.GetPermissions(cmd.Context(), categoryID.Int64, category.User{ID: userID, GroupIDs: groupIDs})
			if err != nil {
				return err
			}
			for _, name := range slices.Sorted(maps.Keys(perms)) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%t\n", name, perms[name])
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id (0 for a guest)")
	cmd.Flags().StringVar(&groups, "groups", "", "comma separated group ids")
	return cmd
}

func newHooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List the hooks and the handlers subscribed to them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			for _, info := range a.languages.Hooks().List() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", info.Name, strings.Join(info.Handlers, ", "))
			}
			return nil
		},
	}
}
