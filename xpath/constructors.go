// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"time"

	"github.com/cclauss/elementpath/tdop"
)

// constructor registers a multi-role callable. With one argument it acts
// as a value constructor; with a second timezone argument it acts as an
// ordinary function interpreting the value in that zone. The effective
// role is fixed from the argument shape while the call is parsed, and
// the evaluator branches on the resolved label. Against a schema context
// the constructor yields its type name instead of a value.
func constructor(st *tdop.SymbolTable, name, typeName, layout string) error {
	if err := st.Declare(name); err != nil {
		return err
	}
	_, err := st.Register(name,
		tdop.BP(bpSymbol),
		tdop.Role("constructor function", "function"),
		tdop.Pattern(tdop.FunctionPattern(name)),
		tdop.Nud(func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			if err := parseArguments(p, t); err != nil {
				return nil, err
			}
			switch t.Len() {
			case 1:
				t.ResolveLabel("constructor function")
			case 2:
				t.ResolveLabel("function")
			default:
				return nil, t.WrongArity("XPST0017", t.Len())
			}
			return t, nil
		}),
		tdop.Eval(func(t *tdop.Token, ctx any) (any, error) {
			if schemaMode(ctx) {
				return typeName, nil
			}
			v, err := t.Child(0).Evaluate(ctx)
			if err != nil {
				return nil, err
			}
			s := str(v)
			loc := time.UTC
			if t.Label().Matches("function") {
				tz, err := t.Child(1).Evaluate(ctx)
				if err != nil {
					return nil, err
				}
				if loc, err = time.LoadLocation(str(tz)); err != nil {
					return nil, t.Errorf(tdop.InvalidArgumentErr, "FORG0001",
						"invalid timezone '%s' for '%s'", str(tz), name)
				}
			}
			value, err := time.ParseInLocation(layout, s, loc)
			if err != nil {
				return nil, t.Errorf(tdop.InvalidArgumentErr, "FORG0001",
					"invalid value '%s' for constructor '%s'", s, name)
			}
			return value, nil
		}))
	return err
}

func registerConstructors(st *tdop.SymbolTable) error {
	if err := constructor(st, "date", "xs:date", "2006-01-02"); err != nil {
		return err
	}
	return constructor(st, "time", "xs:time", "15:04:05")
}
