// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/pflag"

	"github.com/cclauss/elementpath/util"
)

// setOutputFormat standardizes the --format flag across commands.
func setOutputFormat(fs *pflag.FlagSet, f *util.EnumFlag) {
	fs.VarP(f, "format", "f", "set output format")
}
