// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"math"

	"github.com/cclauss/elementpath/etree"
	"github.com/cclauss/elementpath/tdop"
)

// Binding powers of the dialect, loosest to tightest. Paths bind
// tighter than any operator so that -a/b negates the whole path.
const (
	bpOr         = 20
	bpAnd        = 25
	bpComparison = 30
	bpAdditive   = 40
	bpMultiplic  = 45
	bpUnion      = 50
	bpUnary      = 70
	bpPath       = 75
	bpPredicate  = 80
	bpSymbol     = 90
)

// registerCore declares and registers the pseudo symbols, operators
// and path steps of the dialect.
func registerCore(st *tdop.SymbolTable) error {
	err := st.Declare(
		tdop.EndSymbol, tdop.NameSymbol, tdop.IntegerSymbol, tdop.DecimalSymbol,
		tdop.StringSymbol, tdop.UnknownSymbol, tdop.InvalidSymbol,
		"(", ")", "[", "]", ",", "$", "@", ".", "..", "/", "//", "*", "|",
		"+", "-", "=", "!=", "<", "<=", ">", ">=", "and", "or", "div", "mod",
	)
	if err != nil {
		return err
	}

	st.MustRegister(tdop.EndSymbol)
	st.MustRegister(tdop.UnknownSymbol)
	st.MustRegister(tdop.InvalidSymbol)
	for _, name := range []string{tdop.IntegerSymbol, tdop.DecimalSymbol, tdop.StringSymbol} {
		if _, err := st.Literal(name); err != nil {
			return err
		}
	}

	// A name is a child-axis step: it selects the matching children of
	// the context node. Without a context it evaluates to itself.
	st.MustRegister(tdop.NameSymbol, tdop.Role("name"),
		tdop.Nud(func(_ *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			return t, nil
		}),
		tdop.Eval(func(t *tdop.Token, ctx any) (any, error) {
			c := evalCtx(ctx)
			if c == nil {
				return t.Value, nil
			}
			return selectChildren(c, t.Value.(string)), nil
		}))

	// Delimiters carry no behavior of their own.
	st.MustRegister(")")
	st.MustRegister("]")
	st.MustRegister(",")

	st.MustRegister("(",
		tdop.Nud(func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			inner, err := p.Expression(0)
			if err != nil {
				return nil, err
			}
			if err := p.Advance(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}))

	st.MustRegister("$", tdop.BP(bpSymbol), tdop.Role("operator"),
		tdop.Nud(func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			if err := p.Advance(tdop.NameSymbol); err != nil {
				return nil, err
			}
			t.Append(p.Token())
			return t, nil
		}),
		tdop.Eval(evalVariable))

	st.MustRegister("@", tdop.BP(bpSymbol), tdop.Role("operator"),
		tdop.Nud(func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			operand, err := p.Expression(bpSymbol)
			if err != nil {
				return nil, err
			}
			if e := operand.Unexpected(tdop.NameSymbol, "*"); e != nil {
				return nil, e
			}
			t.Append(operand)
			return t, nil
		}),
		tdop.Eval(evalAttribute))

	st.MustRegister(".", tdop.Role("operator"),
		tdop.Nud(func(_ *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			return t, nil
		}),
		tdop.Eval(evalSelf))

	st.MustRegister("..", tdop.Role("operator"),
		tdop.Nud(func(_ *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			return t, nil
		}),
		tdop.Eval(evalParent))

	for _, name := range []string{"/", "//"} {
		st.MustRegister(name, tdop.BP(bpPath), tdop.Role("operator"),
			tdop.Nud(func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
				step, err := p.Expression(bpPath)
				if err != nil {
					return nil, err
				}
				t.Append(step)
				return t, nil
			}),
			tdop.Led(func(p *tdop.Parser, t *tdop.Token, left *tdop.Token) (*tdop.Token, error) {
				step, err := p.Expression(bpPath)
				if err != nil {
					return nil, err
				}
				t.Append(left, step)
				return t, nil
			}),
			tdop.Eval(pathEval(name)))
	}

	st.MustRegister("[", tdop.BP(bpPredicate), tdop.Role("operator"),
		tdop.Led(func(p *tdop.Parser, t *tdop.Token, left *tdop.Token) (*tdop.Token, error) {
			pred, err := p.Expression(0)
			if err != nil {
				return nil, err
			}
			t.Append(left, pred)
			return t, p.Advance("]")
		}),
		tdop.Eval(evalPredicate))

	// '*' is both the multiplication operator and the wildcard step;
	// the role is fixed by how it is reached during the parse.
	st.MustRegister("*", tdop.BP(bpMultiplic), tdop.Role("operator", "wildcard"),
		tdop.Nud(func(_ *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			t.ResolveLabel("wildcard")
			return t, nil
		}),
		tdop.Led(func(p *tdop.Parser, t *tdop.Token, left *tdop.Token) (*tdop.Token, error) {
			t.ResolveLabel("operator")
			right, err := p.Expression(bpMultiplic)
			if err != nil {
				return nil, err
			}
			t.Append(left, right)
			return t, nil
		}),
		tdop.Eval(func(t *tdop.Token, ctx any) (any, error) {
			if t.Len() == 2 {
				return evalArithmetic(t, ctx, "*")
			}
			c := evalCtx(ctx)
			if c == nil {
				return "*", nil
			}
			return selectChildren(c, "*"), nil
		}))

	if _, err := st.Infix("|", bpUnion, tdop.Eval(evalUnion)); err != nil {
		return err
	}

	// '-' doubles as the unary negation.
	st.MustRegister("-", tdop.BP(bpAdditive), tdop.Role("operator"),
		tdop.Nud(func(p *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
			operand, err := p.Expression(bpUnary)
			if err != nil {
				return nil, err
			}
			t.Append(operand)
			return t, nil
		}),
		tdop.Led(func(p *tdop.Parser, t *tdop.Token, left *tdop.Token) (*tdop.Token, error) {
			right, err := p.Expression(bpAdditive)
			if err != nil {
				return nil, err
			}
			t.Append(left, right)
			return t, nil
		}),
		tdop.Eval(func(t *tdop.Token, ctx any) (any, error) {
			if t.Len() == 1 {
				v, err := t.Child(0).Evaluate(ctx)
				if err != nil {
					return nil, err
				}
				return -number(v), nil
			}
			return evalArithmetic(t, ctx, "-")
		}))

	if _, err := st.Infix("+", bpAdditive, tdop.Eval(arithmeticEval("+"))); err != nil {
		return err
	}
	for _, op := range []string{"div", "mod"} {
		if _, err := st.Infix(op, bpMultiplic, tdop.Eval(arithmeticEval(op)),
			tdop.Nud(wordOperatorNud(st))); err != nil {
			return err
		}
	}

	for _, op := range []string{"=", "!=", "<", "<=", ">", ">="} {
		if _, err := st.Infix(op, bpComparison, tdop.Eval(comparisonEval(op))); err != nil {
			return err
		}
	}

	if _, err := st.Infix("and", bpAnd, tdop.Eval(logicalEval(true)),
		tdop.Nud(wordOperatorNud(st))); err != nil {
		return err
	}
	if _, err := st.Infix("or", bpOr, tdop.Eval(logicalEval(false)),
		tdop.Nud(wordOperatorNud(st))); err != nil {
		return err
	}
	return nil
}

// wordOperatorNud handles a word operator found in operand position:
// there it is a name test, not an operator ('string(div)' selects the
// div children).
func wordOperatorNud(st *tdop.SymbolTable) tdop.NudFunc {
	return func(_ *tdop.Parser, t *tdop.Token) (*tdop.Token, error) {
		return tdop.NewToken(st.Symbol(tdop.NameSymbol), t.Symbol()), nil
	}
}

// selectChildren selects the children of the context node matching
// name, the root element when the context focuses the document.
func selectChildren(c *etree.Context, name string) []*etree.Element {
	out := []*etree.Element{}
	sub := c.Copy()
	for s := range sub.IterChildren() {
		if name == "*" || s.Node.Tag == name {
			out = append(out, s.Node)
		}
	}
	return out
}

func missingContext(t *tdop.Token) error {
	return t.Errorf(tdop.InvalidArgumentErr, "XPDY0002", "missing dynamic context")
}

func evalVariable(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	name := t.Child(0).Value.(string)
	v, ok := c.Values[name]
	if !ok {
		return nil, t.Errorf(tdop.InvalidArgumentErr, "XPST0008", "unknown variable '$%s'", name)
	}
	return v, nil
}

func evalAttribute(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	if c.Node == nil {
		return []string{}, nil
	}
	arg := t.Child(0)
	if arg.Symbol() == "*" {
		out := []string{}
		for _, v := range c.Node.Attrib {
			out = append(out, v)
		}
		return out, nil
	}
	name := arg.Value.(string)
	if v, ok := c.Node.Attrib[name]; ok {
		return []string{v}, nil
	}
	return []string{}, nil
}

func evalSelf(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	node := c.Node
	if node == nil {
		node = c.Root
	}
	return []*etree.Element{node}, nil
}

func evalParent(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	if c.Node == nil {
		return []*etree.Element{}, nil
	}
	if parent, ok := c.ParentMap()[c.Node]; ok {
		return []*etree.Element{parent}, nil
	}
	return []*etree.Element{}, nil
}

// pathEval evaluates '/' and '//'. With a single child the step is
// absolute and starts from the document; with two it applies the right
// step to every node selected by the left operand. A node-test step
// yields a deduplicated node set; an attribute step yields the selected
// attribute values, which have no node identity and are kept as is.
func pathEval(op string) tdop.EvalFunc {
	return func(t *tdop.Token, ctx any) (any, error) {
		c := evalCtx(ctx)
		if c == nil {
			return nil, missingContext(t)
		}
		step := t.Child(t.Len() - 1)

		var bases []*etree.Element
		if t.Len() == 1 {
			bases = []*etree.Element{nil} // the document
		} else {
			left, err := t.Child(0).Evaluate(ctx)
			if err != nil {
				return nil, err
			}
			ns, ok := toNodeSet(left)
			if !ok {
				return nil, t.Errorf(tdop.InvalidArgumentErr, "XPTY0019",
					"the left operand of %s is not a node set", t)
			}
			bases = ns
		}

		nodes := []*etree.Element{}
		values := []string{}
		attributeStep := false
		for _, base := range bases {
			if op == "//" {
				ns, vs, sawValues, err := descendantSelect(step, ctx, base)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, ns...)
				values = append(values, vs...)
				attributeStep = attributeStep || sawValues
				continue
			}
			v, err := step.Evaluate(subContext(ctx, base))
			if err != nil {
				return nil, err
			}
			switch x := v.(type) {
			case []string:
				attributeStep = true
				values = append(values, x...)
			default:
				ns, ok := toNodeSet(x)
				if !ok {
					return nil, t.Errorf(tdop.InvalidArgumentErr, "XPTY0019",
						"step %s does not select nodes", step)
				}
				nodes = append(nodes, ns...)
			}
		}
		if attributeStep {
			return values, nil
		}
		return dedupe(nodes), nil
	}
}

// descendantSelect applies step beneath every descendant-or-self node
// of base, giving the '//' axis. Attribute steps are reported through
// sawValues even when every selection comes back empty.
func descendantSelect(step *tdop.Token, ctx any, base *etree.Element) (nodes []*etree.Element, values []string, sawValues bool, err error) {
	sub := subContext(ctx, base)
	c := evalCtx(sub)
	nodes = []*etree.Element{}
	for range c.IterDescendants() {
		v, err := step.Evaluate(sub)
		if err != nil {
			return nil, nil, false, err
		}
		switch x := v.(type) {
		case []string:
			sawValues = true
			values = append(values, x...)
		default:
			if ns, ok := toNodeSet(x); ok {
				nodes = append(nodes, ns...)
			}
		}
	}
	return nodes, values, sawValues, nil
}

func evalPredicate(t *tdop.Token, ctx any) (any, error) {
	c := evalCtx(ctx)
	if c == nil {
		return nil, missingContext(t)
	}
	left, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	ns, ok := toNodeSet(left)
	if !ok {
		return nil, t.Errorf(tdop.InvalidArgumentErr, "XPTY0019",
			"predicates apply to node sets only")
	}
	pred := t.Child(1)
	out := []*etree.Element{}
	for i, node := range ns {
		sub := subContext(ctx, node)
		sc := evalCtx(sub)
		sc.Position = i + 1
		sc.Size = len(ns)
		v, err := pred.Evaluate(sub)
		if err != nil {
			return nil, err
		}
		switch x := v.(type) {
		case int:
			if i+1 == x {
				out = append(out, node)
			}
		case float64:
			if float64(i+1) == x {
				out = append(out, node)
			}
		default:
			if boolean(v) {
				out = append(out, node)
			}
		}
	}
	return out, nil
}

func evalUnion(t *tdop.Token, ctx any) (any, error) {
	left, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	right, err := t.Child(1).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	lns, lok := toNodeSet(left)
	rns, rok := toNodeSet(right)
	if !lok || !rok {
		return nil, t.Errorf(tdop.InvalidArgumentErr, "XPTY0004",
			"union requires node set operands")
	}
	return dedupe(append(append([]*etree.Element{}, lns...), rns...)), nil
}

func arithmeticEval(op string) tdop.EvalFunc {
	return func(t *tdop.Token, ctx any) (any, error) {
		return evalArithmetic(t, ctx, op)
	}
}

func evalArithmetic(t *tdop.Token, ctx any, op string) (any, error) {
	left, err := t.Child(0).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	right, err := t.Child(1).Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	a, b := number(left), number(right)
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "div":
		return a / b, nil
	case "mod":
		return math.Mod(a, b), nil
	}
	return nil, t.Errorf(tdop.InvalidArgumentErr, "", "unsupported operator '%s'", op)
}

func comparisonEval(op string) tdop.EvalFunc {
	return func(t *tdop.Token, ctx any) (any, error) {
		left, err := t.Child(0).Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		right, err := t.Child(1).Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return compare(op, left, right), nil
	}
}

// logicalEval short-circuits on the left operand's effective boolean
// value.
func logicalEval(conjunction bool) tdop.EvalFunc {
	return func(t *tdop.Token, ctx any) (any, error) {
		left, err := t.Child(0).Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		if boolean(left) != conjunction {
			return !conjunction, nil
		}
		right, err := t.Child(1).Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return boolean(right), nil
	}
}
