// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

// Package xpath implements an XPath 1.0 flavored path language on top
// of the tdop engine. The dialect's vocabulary is declared and
// registered on a shared symbol table; parsed expressions evaluate
// against an etree.Context.
//
// Values flow through evaluation as Go types: numbers are float64 (or
// int for integer literals), strings and bools are themselves, element
// selections are []*etree.Element and attribute selections []string.
package xpath

import (
	"sync"

	"github.com/cclauss/elementpath/etree"
	"github.com/cclauss/elementpath/tdop"
)

// Extension hooks into table construction before Finalize, so a
// dialect variant can Unregister and re-register symbols with
// different roles.
type Extension func(*tdop.SymbolTable) error

// NewTable builds and finalizes a fresh dialect table, applying any
// extensions between registration and Finalize.
func NewTable(extensions ...Extension) (*tdop.SymbolTable, error) {
	st := tdop.NewSymbolTable()
	steps := []Extension{registerCore, registerFunctions, registerConstructors}
	for _, step := range append(steps, extensions...) {
		if err := step(st); err != nil {
			return nil, err
		}
	}
	if err := st.Finalize(); err != nil {
		return nil, err
	}
	return st, nil
}

var defaultTable = sync.OnceValues(func() (*tdop.SymbolTable, error) {
	return NewTable()
})

// Table returns the shared default dialect table.
func Table() (*tdop.SymbolTable, error) {
	return defaultTable()
}

// NewParser returns a parser over the shared dialect table. Parsers
// are single-goroutine; callers needing concurrency create one each.
func NewParser() (*tdop.Parser, error) {
	st, err := Table()
	if err != nil {
		return nil, err
	}
	return tdop.NewParser(st)
}

// Parse parses a path expression and returns its root token.
func Parse(path string) (*tdop.Token, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(path)
}

// Select parses path and evaluates it against a fresh context rooted
// at root, with the given variable bindings.
func Select(root *etree.Element, path string, vars map[string]any) (any, error) {
	ctx := etree.NewContext(root)
	for k, v := range vars {
		ctx.Values[k] = v
	}
	return Eval(ctx, path)
}

// Eval parses path and evaluates it against an existing context. The
// context may be a *etree.Context or a *etree.SchemaContext; schema
// contexts get type names instead of values out of constructors.
func Eval(ctx any, path string) (any, error) {
	tok, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return tok.Evaluate(ctx)
}
