// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"strings"
)

// EnumFlag implements the pflag.Value interface to provide enumerated
// command line parameter values.
type EnumFlag struct {
	defaultValue string
	value        string
	isSet        bool
	vs           []string
}

// NewEnumFlag returns a new EnumFlag that has a defaultValue and vs
// enumerated values.
func NewEnumFlag(defaultValue string, vs []string) *EnumFlag {
	return &EnumFlag{
		defaultValue: defaultValue,
		vs:           vs,
	}
}

// Type returns the valid enumeration values.
func (f *EnumFlag) Type() string {
	return "{" + strings.Join(f.vs, ",") + "}"
}

// String returns the EnumValue's value as string.
func (f *EnumFlag) String() string {
	if !f.isSet {
		return f.defaultValue
	}
	return f.value
}

// IsSet will return true if the EnumFlag has been set.
func (f *EnumFlag) IsSet() bool {
	return f.isSet
}

// Set sets the enum value. If the value is not a valid enumeration an
// error is returned.
func (f *EnumFlag) Set(s string) error {
	for _, v := range f.vs {
		if v == s {
			f.value = s
			f.isSet = true
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", f.Type())
}
