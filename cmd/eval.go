// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cclauss/elementpath/etree"
	"github.com/cclauss/elementpath/metrics"
	"github.com/cclauss/elementpath/util"
	"github.com/cclauss/elementpath/xpath"
)

type evalCommandParams struct {
	dataPath     string
	vars         []string
	outputFormat *util.EnumFlag
	metrics      bool
	schema       bool
}

func init() {

	params := evalCommandParams{
		outputFormat: util.NewEnumFlag("pretty", []string{"pretty", "json"}),
	}

	evalCommand := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a path expression against a document",
		Long: `Evaluate a path expression against a document.

The document format is taken from the file extension: .json and
.yaml/.yml are decoded into a generic tree, anything else is parsed as
XML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return evalExpression(os.Stdout, params, args[0])
		},
	}

	evalCommand.Flags().StringVarP(&params.dataPath, "data", "d", "", "document to evaluate against")
	evalCommand.Flags().StringArrayVar(&params.vars, "var", nil, "set a variable binding (name=value)")
	setOutputFormat(evalCommand.Flags(), params.outputFormat)
	evalCommand.Flags().BoolVar(&params.metrics, "metrics", false, "report query performance metrics")
	evalCommand.Flags().BoolVar(&params.schema, "schema", false, "evaluate at schema level")
	RootCommand.AddCommand(evalCommand)
}

func evalExpression(w io.Writer, params evalCommandParams, expr string) error {
	m := metrics.New()

	m.Timer(metrics.ParsePath).Start()
	tok, err := xpath.Parse(expr)
	m.Timer(metrics.ParsePath).Stop()
	if err != nil {
		return err
	}

	var ctx any
	if params.dataPath != "" {
		m.Timer(metrics.LoadDoc).Start()
		root, err := loadDocument(params.dataPath)
		m.Timer(metrics.LoadDoc).Stop()
		if err != nil {
			return err
		}
		vars, err := parseVarFlags(params.vars)
		if err != nil {
			return err
		}
		if params.schema {
			sc := etree.NewSchemaContext(root)
			for k, v := range vars {
				sc.Values[k] = v
			}
			ctx = sc
		} else {
			c := etree.NewContext(root)
			for k, v := range vars {
				c.Values[k] = v
			}
			ctx = c
		}
	}

	m.Timer(metrics.EvalPath).Start()
	v, err := tok.Evaluate(ctx)
	m.Timer(metrics.EvalPath).Stop()
	if err != nil {
		return err
	}

	if err := printValue(w, params.outputFormat.String(), v); err != nil {
		return err
	}
	if params.metrics {
		fmt.Fprintf(w, "metrics: %v\n", m)
	}
	return nil
}

func printValue(w io.Writer, format string, v any) error {
	if ns, ok := v.([]*etree.Element); ok {
		if format == "json" {
			tags := make([]string, len(ns))
			for i, el := range ns {
				tags[i] = el.Tag
			}
			return printJSON(w, tags)
		}
		for _, el := range ns {
			fmt.Fprintf(w, "%s\t%s\n", el.Tag, el.Text)
		}
		return nil
	}
	if format == "json" {
		return printJSON(w, v)
	}
	fmt.Fprintf(w, "%v\n", v)
	return nil
}

func printJSON(w io.Writer, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(buf))
	return nil
}
