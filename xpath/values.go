// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cclauss/elementpath/etree"
)

// evalCtx unwraps the opaque evaluation context handed to EvalFuncs.
func evalCtx(ctx any) *etree.Context {
	switch c := ctx.(type) {
	case *etree.Context:
		return c
	case *etree.SchemaContext:
		return c.Context
	}
	return nil
}

func schemaMode(ctx any) bool {
	sa, ok := ctx.(etree.SchemaAware)
	return ok && sa.SchemaMode()
}

// subContext snapshots ctx focused on node, preserving a schema
// wrapper when one is present. A nil node focuses the document.
func subContext(ctx any, node *etree.Element) any {
	switch c := ctx.(type) {
	case *etree.SchemaContext:
		cp := c.Copy()
		cp.Node = node
		return cp
	case *etree.Context:
		cp := c.Copy()
		cp.Node = node
		return cp
	}
	return nil
}

// stringValue is the concatenated text of an element subtree.
func stringValue(el *etree.Element) string {
	var b strings.Builder
	for e := range el.Iter() {
		b.WriteString(e.Text)
	}
	return b.String()
}

func toNodeSet(v any) ([]*etree.Element, bool) {
	ns, ok := v.([]*etree.Element)
	return ns, ok
}

func dedupe(ns []*etree.Element) []*etree.Element {
	seen := make(map[*etree.Element]struct{}, len(ns))
	out := ns[:0]
	for _, n := range ns {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// str converts a value to its string form.
func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		if x.Year() == 0 {
			return x.Format("15:04:05")
		}
		return x.Format("2006-01-02")
	case []*etree.Element:
		if len(x) == 0 {
			return ""
		}
		return stringValue(x[0])
	case []string:
		if len(x) == 0 {
			return ""
		}
		return x[0]
	}
	return ""
}

// number converts a value to a float64, yielding NaN for values with
// no numeric form.
func number(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case []*etree.Element, []string:
		if s := str(x); s != "" {
			return number(s)
		}
	}
	return math.NaN()
}

// boolean is the effective boolean value.
func boolean(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	case []*etree.Element:
		return len(x) > 0
	case []string:
		return len(x) > 0
	}
	return true
}

// atoms flattens a value into comparable scalars. Elements compare by
// their string-value.
func atoms(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []*etree.Element:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = stringValue(el)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	}
	return []any{v}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, float64:
		return true
	}
	return false
}

// compare applies an existential comparison: it holds when any pair of
// atoms from the two operands satisfies the operator.
func compare(op string, l, r any) bool {
	for _, a := range atoms(l) {
		for _, b := range atoms(r) {
			if compareAtoms(op, a, b) {
				return true
			}
		}
	}
	return false
}

func compareAtoms(op string, a, b any) bool {
	switch op {
	case "=", "!=":
		eq := equalAtoms(a, b)
		if op == "!=" {
			return !eq
		}
		return eq
	}
	na, nb := number(a), number(b)
	switch op {
	case "<":
		return na < nb
	case "<=":
		return na <= nb
	case ">":
		return na > nb
	case ">=":
		return na >= nb
	}
	return false
}

func equalAtoms(a, b any) bool {
	if ba, ok := a.(bool); ok {
		return ba == boolean(b)
	}
	if bb, ok := b.(bool); ok {
		return boolean(a) == bb
	}
	if isNumeric(a) || isNumeric(b) {
		return number(a) == number(b)
	}
	return str(a) == str(b)
}
