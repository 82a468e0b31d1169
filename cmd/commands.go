// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"path"

	"github.com/spf13/cobra"
)

// RootCommand is the base CLI command that all subcommands are added to.
var RootCommand = &cobra.Command{
	Use:   path.Base(os.Args[0]),
	Short: "ElementPath",
	Long:  "A path expression engine for XML, JSON and YAML documents.",
}
