// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"strings"

	"github.com/cclauss/elementpath/tdop"
)

// parseArguments parses a parenthesized, comma-separated argument list
// and appends each argument as a child of the call token. A comma
// commits the call to another argument, so a trailing comma is a
// syntax error of its own rather than a generic unexpected ')'.
func parseArguments(p *tdop.Parser, t *tdop.Token) error {
	if err := p.Advance("("); err != nil {
		return err
	}
	if p.NextToken().Symbol() != ")" {
		for {
			arg, err := p.Expression(0)
			if err != nil {
				return err
			}
			t.Append(arg)
			if p.NextToken().Symbol() != "," {
				break
			}
			if err := p.Advance(","); err != nil {
				return err
			}
			if p.NextToken().Symbol() == ")" {
				return p.NextToken().Errorf(tdop.UnexpectedTokenErr, "XPST0003",
					"expected an argument after ','")
			}
		}
	}
	return p.Advance(")")
}

// nudCall builds the prefix behavior of a callable symbol: parse the
// argument list, resolve the role and check the arity. A negative
// maxArgs means variadic.
func nudCall(minArgs, maxArgs int, role string) tdop.NudFunc {
	return func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
		t.ResolveLabel(role)
		if err := parseArguments(p, t); err != nil {
			return nil, err
		}
		if t.Len() < minArgs || (maxArgs >= 0 && t.Len() > maxArgs) {
			return nil, t.WrongArity("XPST0017", t.Len())
		}
		return t, nil
	}
}

// function registers one entry of the function catalog. The tokenizer
// pattern requires the call opener, so the same word stays usable as a
// plain name.
func function(st *tdop.SymbolTable, name string, minArgs, maxArgs int, eval tdop.EvalFunc) error {
	if err := st.Declare(name); err != nil {
		return err
	}
	_, err := st.Register(name,
		tdop.BP(bpSymbol),
		tdop.Role("function"),
		tdop.Pattern(tdop.FunctionPattern(name)),
		tdop.Nud(nudCall(minArgs, maxArgs, "function")),
		tdop.Eval(eval))
	return err
}

func registerFunctions(st *tdop.SymbolTable) error {
	type entry struct {
		name             string
		minArgs, maxArgs int
		eval             tdop.EvalFunc
	}
	catalog := []entry{
		{"position", 0, 0, evalPosition},
		{"last", 0, 0, evalLast},
		{"count", 1, 1, evalCount},
		{"name", 0, 1, evalName},
		{"string", 0, 1, evalString},
		{"number", 0, 1, evalNumber},
		{"concat", 2, -1, evalConcat},
		{"not", 1, 1, evalNot},
		{"true", 0, 0, evalTrue},
		{"false", 0, 0, evalFalse},
	}
	for _, e := range catalog {
		if err := function(st, e.name, e.minArgs, e.maxArgs, e.eval); err != nil {
			return err
		}
	}
	return nil
}

func evalPosition(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	return float64(c.Position), nil
}

func evalLast(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	return float64(c.Size), nil
}

func evalCount(t *tdop.Token, ctx any) (any, error) {
	v, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case []string:
		return float64(len(x)), nil
	default:
		ns, ok := toNodeSet(v)
		if !ok {
			return nil, t.WrongType("XPTY0004", "count requires a node set argument")
		}
		return float64(len(ns)), nil
	}
}

func evalName(t *tdop.Token, ctx any) (any, error) {
	if t.Len() == 0 {
		c := evalCtx(ctx)
		if c == nil {
			return nil, missingContext(t)
		}
		if c.Node == nil {
			return "", nil
		}
		return c.Node.Tag, nil
	}
	v, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	ns, ok := toNodeSet(v)
	if !ok {
		return nil, t.WrongType("XPTY0004", "name requires a node set argument")
	}
	if len(ns) == 0 {
		return "", nil
	}
	return ns[0].Tag, nil
}

func evalString(t *tdop.Token, ctx any) (any, error) {
	if t.Len() == 0 {
		self, err := evalSelf(t, ctx)
		if err != nil {
			return nil, err
		}
		return str(self), nil
	}
	v, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return str(v), nil
}

func evalNumber(t *tdop.Token, ctx any) (any, error) {
	if t.Len() == 0 {
		self, err := evalSelf(t, ctx)
		if err != nil {
			return nil, err
		}
		return number(self), nil
	}
	v, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return number(v), nil
}

func evalConcat(t *tdop.Token, ctx any) (any, error) {
	var b strings.Builder
	for _, arg := range t.Children() {
		v, err := arg.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		b.WriteString(str(v))
	}
	return b.String(), nil
}

func evalNot(t *tdop.Token, ctx any) (any, error) {
	v, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return !boolean(v), nil
}

func evalTrue(_ *tdop.Token, _ any) (any, error) {
	return true, nil
}

func evalFalse(_ *tdop.Token, _ any) (any, error) {
	return false, nil
}
