// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/cclauss/elementpath/cmd"
)

func main() {
	if err := cmd.RootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
