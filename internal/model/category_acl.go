// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds types shared between the cache builders and their
// consumers.
package model

// OptionValues maps an ACL option name to its value.
type OptionValues map[string]bool

// CategoryACL holds the ACL options of one category.
type CategoryACL struct {
	Group map[int64]OptionValues `json:"group,omitempty"` // groupID -> options
	User  map[int64]OptionValues `json:"user,omitempty"`  // userID -> options
}

// CategoryACLOptions is the precomputed permission cache:
// categoryID -> {group, user} -> options.
type CategoryACLOptions map[int64]CategoryACL

// Set records an option for a group or, when isUser is set, a user.
func (o CategoryACLOptions) Set(categoryID, subjectID int64, isUser bool, option string, value bool) {
	acl := o[categoryID]
	target := &acl.Group
	if isUser {
		target = &acl.User
	}
	if *target == nil {
		*target = make(map[int64]OptionValues)
	}
	if (*target)[subjectID] == nil {
		(*target)[subjectID] = make(OptionValues)
	}
	(*target)[subjectID][option] = value
	o[categoryID] = acl
}
