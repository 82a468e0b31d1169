// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cclauss/elementpath/version"
)

func init() {

	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print the version of the engine",
		Run: func(_ *cobra.Command, _ []string) {
			generateCmdOutput(os.Stdout)
		},
	}

	RootCommand.AddCommand(versionCommand)
}

func generateCmdOutput(out io.Writer) {
	fmt.Fprintln(out, "Version: "+version.Version)
	fmt.Fprintln(out, "Build Commit: "+version.Vcs)
	fmt.Fprintln(out, "Build Timestamp: "+version.Timestamp)
	fmt.Fprintln(out, "Build Hostname: "+version.Hostname)
	fmt.Fprintln(out, "Go Version: "+version.GoVersion)
	fmt.Fprintln(out, "Platform: "+version.Platform)
}
