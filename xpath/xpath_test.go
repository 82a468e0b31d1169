// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package xpath

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/cclauss/elementpath/etree"
	"github.com/cclauss/elementpath/tdop"
)

const catalogXML = `<catalog>
  <book id="b1"><title>Go</title><price>30</price><published>2015-11-18</published></book>
  <book id="b2"><title>XPath</title><price>45</price><published>1999-11-16</published></book>
  <magazine id="m1"><title>Monthly</title></magazine>
</catalog>`

func catalogRoot(t *testing.T) *etree.Element {
	t.Helper()
	root, err := etree.ParseXML(strings.NewReader(catalogXML))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return root
}

func selectValue(t *testing.T, path string) any {
	t.Helper()
	v, err := Select(catalogRoot(t), path, nil)
	if err != nil {
		t.Fatalf("Unexpected error for %q: %v", path, err)
	}
	return v
}

func tags(v any) []string {
	ns, ok := v.([]*etree.Element)
	if !ok {
		return nil
	}
	out := make([]string, len(ns))
	for i, el := range ns {
		out[i] = el.Tag
	}
	return out
}

func TestSelectPaths(t *testing.T) {
	tests := []struct {
		path string
		exp  []string
	}{
		{"book", []string{"book", "book"}},
		{"*", []string{"book", "book", "magazine"}},
		{"/catalog/book", []string{"book", "book"}},
		{"//title", []string{"title", "title", "title"}},
		{".//title", []string{"title", "title", "title"}},
		{"book/title", []string{"title", "title"}},
		{"book/..", []string{"catalog"}},
		{"book/../magazine", []string{"magazine"}},
		{".", []string{"catalog"}},
		{"missing", []string{}},
		{"book | magazine", []string{"book", "book", "magazine"}},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got := tags(selectValue(t, tc.path))
			if len(got) != len(tc.exp) {
				t.Fatalf("Expected %v but got %v", tc.exp, got)
			}
			for i := range got {
				if got[i] != tc.exp[i] {
					t.Fatalf("Expected %v but got %v", tc.exp, got)
				}
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	v := selectValue(t, "book[1]/title")
	ns := v.([]*etree.Element)
	if len(ns) != 1 || ns[0].Text != "Go" {
		t.Fatalf("Expected the first title but got %v", v)
	}

	v = selectValue(t, "book[@id='b2']/title")
	ns = v.([]*etree.Element)
	if len(ns) != 1 || ns[0].Text != "XPath" {
		t.Fatalf("Expected the second title but got %v", v)
	}

	v = selectValue(t, "book[price > 40]/title")
	ns = v.([]*etree.Element)
	if len(ns) != 1 || ns[0].Text != "XPath" {
		t.Fatalf("Expected the expensive title but got %v", v)
	}

	v = selectValue(t, "book[position()=2]/@id")
	ids := v.([]string)
	if len(ids) != 1 || ids[0] != "b2" {
		t.Fatalf("Expected [b2] but got %v", v)
	}

	v = selectValue(t, "book[position()=last()]/@id")
	ids = v.([]string)
	if len(ids) != 1 || ids[0] != "b2" {
		t.Fatalf("Expected the last book but got %v", v)
	}
}

func TestAttributeSteps(t *testing.T) {
	tests := []struct {
		path string
		exp  []string
	}{
		{"book[1]/@id", []string{"b1"}},
		{"book/@id", []string{"b1", "b2"}},
		{"/catalog/book/@id", []string{"b1", "b2"}},
		{"//@id", []string{"b1", "b2", "m1"}},
		{"book//@id", []string{"b1", "b2"}},
		{"magazine/@missing", []string{}},
		{"//@missing", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			v := selectValue(t, tc.path)
			got, ok := v.([]string)
			if !ok {
				t.Fatalf("Expected attribute values but got %T", v)
			}
			if !slices.Equal(got, tc.exp) {
				t.Fatalf("Expected %v but got %v", tc.exp, got)
			}
		})
	}
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		path string
		exp  any
	}{
		{"count(//book)", 2.0},
		{"count(book[1]/@*)", 1.0},
		{"name(..)", ""},
		{"name(book[2])", "book"},
		{"string(book[2]/title)", "XPath"},
		{"string(3 = 3)", "true"},
		{"number(book[1]/price)", 30.0},
		{"concat(book[1]/title, ' costs ', book[1]/price)", "Go costs 30"},
		{"not(book[3])", true},
		{"not(book)", false},
		{"true()", true},
		{"false()", false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := selectValue(t, tc.path); got != tc.exp {
				t.Fatalf("Expected %v but got %v", tc.exp, got)
			}
		})
	}
}

func TestFunctionArity(t *testing.T) {
	_, err := Parse("count()")
	if !tdop.IsError(tdop.WrongArityErr, err) {
		t.Fatalf("Expected a wrong arity error but got %v", err)
	}
	if err.(*tdop.Error).Diagnostic != "XPST0017" {
		t.Fatalf("Expected diagnostic XPST0017 but got %v", err)
	}

	if _, err := Parse("concat('a')"); !tdop.IsError(tdop.WrongArityErr, err) {
		t.Fatalf("Expected a wrong arity error but got %v", err)
	}
	if _, err := Parse("concat('a', 'b', 'c')"); err != nil {
		t.Fatalf("Unexpected error for a variadic call: %v", err)
	}
}

func TestTrailingCommaInArguments(t *testing.T) {
	_, err := Parse("date('2002-02-02',)")
	if !tdop.IsError(tdop.UnexpectedTokenErr, err) {
		t.Fatalf("Expected an unexpected token error but got %v", err)
	}
	e := err.(*tdop.Error)
	if e.Message != "expected an argument after ','" {
		t.Fatalf("Expected the trailing comma message but got %q", e.Message)
	}
	if e.Diagnostic != "XPST0003" {
		t.Fatalf("Expected diagnostic XPST0003 but got %v", e.Diagnostic)
	}

	if _, err := Parse("concat('a', 'b',)"); !tdop.IsError(tdop.UnexpectedTokenErr, err) {
		t.Fatalf("Expected an unexpected token error but got %v", err)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		path string
		exp  any
	}{
		{"2 + 3", 5.0},
		{"2 - 3", -1.0},
		{"2 * 3", 6.0},
		{"10 div 4", 2.5},
		{"17 mod 5", 2.0},
		{"-book[1]/price", -30.0},
		{"book[1]/price * 2 + 1", 61.0},
		{"book[1]/price < book[2]/price", true},
		{"book/price > 40", true},
		{"book/price > 50", false},
		{"book[1]/title = 'Go'", true},
		{"book[1]/title != 'Go'", false},
		{"1 < 2 and 2 < 3", true},
		{"1 > 2 or 2 > 3", false},
		{"count(book | magazine | book)", 3.0},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := selectValue(t, tc.path); got != tc.exp {
				t.Fatalf("Expected %v but got %v", tc.exp, got)
			}
		})
	}
}

func TestVariables(t *testing.T) {
	v, err := Select(catalogRoot(t), "$x + 1", map[string]any{"x": 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != 3.0 {
		t.Fatalf("Expected 3 but got %v", v)
	}

	_, err = Select(catalogRoot(t), "$missing", nil)
	if !tdop.IsError(tdop.InvalidArgumentErr, err) {
		t.Fatalf("Expected an unknown variable error but got %v", err)
	}
	if err.(*tdop.Error).Diagnostic != "XPST0008" {
		t.Fatalf("Expected diagnostic XPST0008 but got %v", err)
	}
}

func TestMissingContext(t *testing.T) {
	tok, err := Parse("position()")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, err = tok.Evaluate(nil)
	if !tdop.IsError(tdop.InvalidArgumentErr, err) {
		t.Fatalf("Expected a missing context error but got %v", err)
	}
	if err.(*tdop.Error).Diagnostic != "XPDY0002" {
		t.Fatalf("Expected diagnostic XPDY0002 but got %v", err)
	}

	tok, err = Parse("name")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	v, err := tok.Evaluate(nil)
	if err != nil || v != "name" {
		t.Fatalf("Expected the bare name but got %v, %v", v, err)
	}
}

func TestConstructors(t *testing.T) {
	v := selectValue(t, "date(book[1]/published)")
	d, ok := v.(time.Time)
	if !ok || d.Format("2006-01-02") != "2015-11-18" {
		t.Fatalf("Expected a date value but got %v", v)
	}

	v = selectValue(t, "string(date('1999-11-16'))")
	if v != "1999-11-16" {
		t.Fatalf("Expected '1999-11-16' but got %v", v)
	}

	v = selectValue(t, "string(time('10:30:00'))")
	if v != "10:30:00" {
		t.Fatalf("Expected '10:30:00' but got %v", v)
	}

	_, err := Select(catalogRoot(t), "date('2020-02-30')", nil)
	if !tdop.IsError(tdop.InvalidArgumentErr, err) {
		t.Fatalf("Expected an invalid value error but got %v", err)
	}
	if err.(*tdop.Error).Diagnostic != "FORG0001" {
		t.Fatalf("Expected diagnostic FORG0001 but got %v", err)
	}

	v = selectValue(t, "string(date('1999-11-16', 'UTC'))")
	if v != "1999-11-16" {
		t.Fatalf("Expected '1999-11-16' but got %v", v)
	}

	_, err = Select(catalogRoot(t), "date('1999-11-16', 'Atlantis/Nowhere')", nil)
	if !tdop.IsError(tdop.InvalidArgumentErr, err) {
		t.Fatalf("Expected an invalid timezone error but got %v", err)
	}
	if err.(*tdop.Error).Diagnostic != "FORG0001" {
		t.Fatalf("Expected diagnostic FORG0001 but got %v", err)
	}

	if _, err := Parse("date('a', 'b', 'c')"); !tdop.IsError(tdop.WrongArityErr, err) {
		t.Fatalf("Expected a wrong arity error but got %v", err)
	}
}

func TestConstructorRoles(t *testing.T) {
	st, err := Table()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	label := st.Symbol("date").Label
	if !label.IsMulti() {
		t.Fatalf("Expected a multi-role label but got %v", label)
	}
	if !label.Matches("function") || !label.Matches("constructor function") {
		t.Fatalf("Expected the label to match both roles but got %v", label)
	}

	tok, err := Parse("date('2002-02-02')")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tok.Label().String() != "constructor_function" {
		t.Fatalf("Expected the resolved role but got %v", tok.Label())
	}

	tok, err = Parse("date('2002-02-02', 'UTC')")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tok.Label().String() != "function" {
		t.Fatalf("Expected the function role but got %v", tok.Label())
	}
}

func TestSchemaContext(t *testing.T) {
	ctx := etree.NewSchemaContext(catalogRoot(t))

	v, err := Eval(ctx, "date('2020-02-30')")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != "xs:date" {
		t.Fatalf("Expected the type name but got %v", v)
	}

	v, err = Eval(ctx, "book")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(v.([]*etree.Element)) != 2 {
		t.Fatalf("Expected ordinary selection to keep working but got %v", v)
	}
}

func TestDialectExtension(t *testing.T) {
	st, err := NewTable(func(st *tdop.SymbolTable) error {
		if err := st.Unregister("date"); err != nil {
			return err
		}
		_, err := st.Register("date",
			tdop.BP(bpSymbol),
			tdop.Role("function"),
			tdop.Pattern(tdop.FunctionPattern("date")),
			tdop.Nud(nudCall(0, 1, "function")),
			tdop.Eval(func(_ *tdop.Token, _ any) (any, error) {
				return "today", nil
			}))
		return err
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	p, err := tdop.NewParser(st)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tok, err := p.Parse("date()")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tok.Label().String() != "function" {
		t.Fatalf("Expected a plain function role but got %v", tok.Label())
	}
	v, err := tok.Evaluate(nil)
	if err != nil || v != "today" {
		t.Fatalf("Expected 'today' but got %v, %v", v, err)
	}
}

func TestWordOperatorsAsNames(t *testing.T) {
	doc := `<root><div>block</div><mod>1</mod></root>`
	root, err := etree.ParseXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	v, err := Select(root, "string(div)", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != "block" {
		t.Fatalf("Expected 'block' but got %v", v)
	}
}
