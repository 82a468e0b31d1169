// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package tdop

import (
	"slices"
	"strings"
)

// Label classifies what a symbol grammatically is (operator, function,
// constructor, literal, axis, ...). A Label holds one or more role
// strings: multi-role symbols (e.g. a name serving both as function and
// constructor) carry all their roles in declaration order. The set is
// immutable after construction.
type Label struct {
	roles []string
}

// NewLabel returns a label over the given role strings.
func NewLabel(roles ...string) Label {
	return Label{roles: slices.Clone(roles)}
}

// Roles returns a copy of the constituent role strings.
func (l Label) Roles() []string {
	return slices.Clone(l.roles)
}

// String returns the canonical joined form: the constituents joined by
// a double underscore, with inner spaces mapped to underscores.
func (l Label) String() string {
	parts := make([]string, len(l.roles))
	for i, r := range l.roles {
		parts[i] = strings.ReplaceAll(r, " ", "_")
	}
	return strings.Join(parts, "__")
}

// Matches reports whether s equals one of the constituent roles or the
// canonical joined form. It never matches an unrelated string.
func (l Label) Matches(s string) bool {
	return slices.Contains(l.roles, s) || s == l.String()
}

// Contains reports whether sub occurs inside any constituent role.
func (l Label) Contains(sub string) bool {
	for _, r := range l.roles {
		if strings.Contains(r, sub) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether any constituent role starts with prefix.
func (l Label) HasPrefix(prefix string) bool {
	for _, r := range l.roles {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

// HasSuffix reports whether any constituent role ends with suffix.
func (l Label) HasSuffix(suffix string) bool {
	for _, r := range l.roles {
		if strings.HasSuffix(r, suffix) {
			return true
		}
	}
	return false
}

// IsMulti reports whether the label carries more than one role.
func (l Label) IsMulti() bool {
	return len(l.roles) > 1
}
