// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

// Package repl implements a Read-Eval-Print-Loop (REPL) for running
// path expressions against a loaded document.
//
// The REPL is typically used from the command line, however, it can
// also be used as a library.
package repl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"

	"github.com/cclauss/elementpath/etree"
	"github.com/cclauss/elementpath/logging"
	"github.com/cclauss/elementpath/metrics"
	"github.com/cclauss/elementpath/tdop"
	"github.com/cclauss/elementpath/xpath"
)

// REPL represents an instance of the interactive shell.
type REPL struct {
	output io.Writer
	parser *tdop.Parser
	ctx    *etree.Context

	docPath      string
	outputFormat string
	historyPath  string
	initPrompt   string
	banner       string

	metrics metrics.Metrics
	logger  logging.Logger
}

// New returns a new instance of the REPL.
func New(output io.Writer, historyPath string, outputFormat string, banner string) (*REPL, error) {
	parser, err := xpath.NewParser()
	if err != nil {
		return nil, err
	}
	return &REPL{
		output:       output,
		parser:       parser,
		outputFormat: outputFormat,
		historyPath:  historyPath,
		initPrompt:   "> ",
		banner:       banner,
		metrics:      metrics.New(),
		logger:       logging.NewNoOpLogger(),
	}, nil
}

// WithLogger sets the logger the REPL reports loads and errors to.
func (r *REPL) WithLogger(logger logging.Logger) *REPL {
	r.logger = logger
	return r
}

// WithMetrics sets the metrics collection the REPL feeds.
func (r *REPL) WithMetrics(m metrics.Metrics) *REPL {
	r.metrics = m
	return r
}

// Document returns the root of the loaded document, or nil.
func (r *REPL) Document() *etree.Element {
	if r.ctx == nil {
		return nil
	}
	return r.ctx.Root
}

// Loop will run until the user enters "exit", Ctrl+C, Ctrl+D, or an
// unexpected error occurs.
func (r *REPL) Loop() {

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	r.loadHistory(line)

	if len(r.banner) > 0 {
		fmt.Fprintln(r.output, r.banner)
	}

	line.SetCompleter(r.complete)

	for {
		input, err := line.Prompt(r.initPrompt)

		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.output, "Exiting")
			break
		}
		if err != nil {
			fmt.Fprintln(r.output, "error (fatal):", err)
			os.Exit(1)
		}

		if err := r.OneShot(input); err != nil {
			if _, ok := err.(stop); ok {
				break
			}
			fmt.Fprintln(r.output, "error:", err)
		}

		line.AppendHistory(input)
	}

	r.saveHistory(line)
}

// OneShot evaluates the line and prints the result. If an error occurs
// it is returned for the caller to display.
func (r *REPL) OneShot(line string) error {
	r.metrics.Counter(metrics.ReplInput).Incr()

	if cmd := newCommand(line); cmd != nil {
		switch cmd.op {
		case "load":
			return r.cmdLoad(cmd.args)
		case "json":
			return r.cmdFormat("json")
		case "pretty":
			return r.cmdFormat("pretty")
		case "symbols":
			return r.cmdSymbols()
		case "metrics":
			return r.cmdMetrics()
		case "set":
			return r.cmdSet(cmd.args)
		case "unset":
			return r.cmdUnset(cmd.args)
		case "help":
			return r.cmdHelp()
		case "exit":
			return r.cmdExit()
		}
	}

	if strings.TrimSpace(line) == "" {
		return nil
	}
	return r.evalExpression(line)
}

func (r *REPL) evalExpression(line string) error {
	r.metrics.Timer(metrics.ParsePath).Start()
	tok, err := r.parser.Parse(line)
	r.metrics.Timer(metrics.ParsePath).Stop()
	if err != nil {
		return err
	}

	r.metrics.Timer(metrics.EvalPath).Start()
	v, err := tok.Evaluate(r.evalContext())
	r.metrics.Timer(metrics.EvalPath).Stop()
	if err != nil {
		return err
	}

	r.printResult(v)
	return nil
}

// evalContext hands out a copy so iteration state never leaks between
// inputs.
func (r *REPL) evalContext() any {
	if r.ctx == nil {
		return nil
	}
	return r.ctx.Copy()
}

func (r *REPL) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <path>")
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	r.metrics.Timer(metrics.LoadDoc).Start()
	defer r.metrics.Timer(metrics.LoadDoc).Stop()

	var root *etree.Element
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		root, err = etree.FromJSON(data)
	case ".yaml", ".yml":
		root, err = etree.FromYAML(data)
	default:
		root, err = etree.ParseXML(strings.NewReader(string(data)))
	}
	if err != nil {
		return err
	}

	r.ctx = etree.NewContext(root)
	r.docPath = path
	r.logger.Info("loaded document %v rooted at <%v>", path, root.Tag)
	fmt.Fprintf(r.output, "loaded %v (root <%v>)\n", path, root.Tag)
	return nil
}

func (r *REPL) cmdFormat(s string) error {
	r.outputFormat = s
	return nil
}

func (r *REPL) cmdSymbols() error {
	table := tablewriter.NewWriter(r.output)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"symbol", "lbp", "label"})
	for _, s := range r.parser.Table().Symbols() {
		table.Append([]string{s.Name, fmt.Sprintf("%d", s.LBP), s.Label.String()})
	}
	table.Render()
	return nil
}

func (r *REPL) cmdMetrics() error {
	for _, line := range strings.Split(fmt.Sprintf("%v", r.metrics), " ") {
		fmt.Fprintln(r.output, line)
	}
	return nil
}

func (r *REPL) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <name> <expression>")
	}
	if r.ctx == nil {
		return fmt.Errorf("no document loaded")
	}
	tok, err := r.parser.Parse(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	v, err := tok.Evaluate(r.ctx.Copy())
	if err != nil {
		return err
	}
	r.ctx.Values[args[0]] = v
	return nil
}

func (r *REPL) cmdUnset(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: unset <name>")
	}
	if r.ctx != nil {
		delete(r.ctx.Values, args[0])
	}
	return nil
}

func (r *REPL) cmdExit() error {
	return stop{}
}

type stop struct{}

func (stop) Error() string {
	return "exit"
}

func (r *REPL) printResult(v any) {
	switch r.outputFormat {
	case "json":
		r.printJSON(resultValue(v))
	default:
		r.printPretty(v)
	}
}

func (r *REPL) printJSON(x any) {
	buf, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		fmt.Fprintln(r.output, err)
		return
	}
	fmt.Fprintln(r.output, string(buf))
}

func (r *REPL) printPretty(v any) {
	ns, ok := v.([]*etree.Element)
	if !ok {
		fmt.Fprintf(r.output, "%v\n", resultValue(v))
		return
	}
	if len(ns) == 0 {
		fmt.Fprintln(r.output, "no matching nodes")
		return
	}
	table := tablewriter.NewWriter(r.output)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"#", "node", "text"})
	for i, el := range ns {
		table.Append([]string{fmt.Sprintf("%d", i+1), el.Tag, el.Text})
	}
	table.Render()
}

// resultValue maps evaluation results to printable values: elements
// render as their tags.
func resultValue(v any) any {
	if ns, ok := v.([]*etree.Element); ok {
		tags := make([]string, len(ns))
		for i, el := range ns {
			tags[i] = el.Tag
		}
		return tags
	}
	return v
}

func (r *REPL) complete(line string) (c []string) {
	for _, cmd := range builtin {
		if strings.HasPrefix(cmd.name, line) {
			c = append(c, cmd.name)
		}
	}
	for _, s := range r.parser.Table().Symbols() {
		if !strings.HasPrefix(s.Name, "(") && strings.HasPrefix(s.Name, line) {
			c = append(c, s.Name)
		}
	}
	return c
}

func (r *REPL) loadHistory(prompt *liner.State) {
	if f, err := os.Open(r.historyPath); err == nil {
		prompt.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory(prompt *liner.State) {
	if f, err := os.Create(r.historyPath); err == nil {
		prompt.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) cmdHelp() error {
	fmt.Fprintln(r.output, "")
	fmt.Fprintln(r.output, "Commands")
	fmt.Fprintln(r.output, "========")
	fmt.Fprintln(r.output, "")

	maxLength := 0
	for _, c := range builtin {
		if length := len(c.syntax()); length > maxLength {
			maxLength = length
		}
	}
	f := fmt.Sprintf("%%%dv : %%v\n", maxLength)
	for _, c := range builtin {
		fmt.Fprintf(r.output, f, c.syntax(), c.help)
	}
	fmt.Fprintln(r.output, "")
	fmt.Fprintln(r.output, "Any other input is parsed and evaluated as a path expression.")
	return nil
}

type commandDesc struct {
	name string
	args []string
	help string
}

func (c commandDesc) syntax() string {
	if len(c.args) > 0 {
		return fmt.Sprintf("%v %v", c.name, strings.Join(c.args, " "))
	}
	return c.name
}

var builtin = [...]commandDesc{
	{"load", []string{"<path>"}, "load an XML, JSON or YAML document"},
	{"symbols", nil, "show the dialect's symbol table"},
	{"metrics", nil, "show session metrics"},
	{"set", []string{"<name>", "<expr>"}, "bind a variable to an evaluated expression"},
	{"unset", []string{"<name>"}, "remove a variable binding"},
	{"json", nil, "set output format to JSON"},
	{"pretty", nil, "set output format to pretty"},
	{"help", nil, "print this message"},
	{"exit", nil, "exit out of shell (or ctrl+d)"},
}

type command struct {
	op   string
	args []string
}

func newCommand(line string) *command {
	p := strings.Fields(strings.TrimSpace(line))
	if len(p) == 0 {
		return nil
	}
	for _, c := range builtin {
		if c.name == strings.ToLower(p[0]) {
			return &command{
				op:   c.name,
				args: p[1:],
			}
		}
	}
	return nil
}
