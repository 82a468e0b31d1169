// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cclauss/elementpath/tdop"
	"github.com/cclauss/elementpath/xpath"
)

func init() {

	parseCommand := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse a path expression and print its token tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return parseExpression(os.Stdout, args[0])
		},
	}

	RootCommand.AddCommand(parseCommand)
}

func parseExpression(w io.Writer, expr string) error {
	tok, err := xpath.Parse(expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, tok.Source())
	dumpToken(w, tok, 0)
	return nil
}

func dumpToken(w io.Writer, t *tdop.Token, depth int) {
	indent := strings.Repeat("  ", depth)
	if t.Value != nil {
		fmt.Fprintf(w, "%s%s [%v]\n", indent, t, t.Value)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, t)
	}
	for _, child := range t.Children() {
		dumpToken(w, child, depth+1)
	}
}
