// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package tdop

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// Tokenizer group fragments. The synthesized pattern is the strict
// priority union literals | symbols | function calls | names | unknown,
// with a whitespace-skip alternative at the end. The function-call group
// matches a bare name, optionally followed by an inline (: ... :)
// comment, that is immediately before an opening parenthesis not itself
// beginning a comment; it exists so a dialect can tell a call apart from
// a bare name before either is fully consumed.
const (
	literalsPattern = `'[^']*'|"[^"]*"|(?:\d+|\.\d+)(?:\.\d*)?(?:[Ee][+-]?\d+)?`
	namePattern     = `[A-Za-z0-9_]+`
	funcCallAhead   = `(?=\s*(?:\(\:.*\:\))?\s*\((?!\:))`

	// neverMatch keeps the symbol group's position in the pattern when a
	// table registers no concrete symbols.
	neverMatch = `\b\B`
)

// Tokenizer group indexes, corresponding to the capture groups of the
// synthesized pattern. A match where no group participates and the text
// is not whitespace signals a matcher that does not belong to the
// parser's symbol table.
const (
	groupLiteral = iota + 1
	groupSymbol
	groupFuncName
	groupName
	groupUnknown
)

// Matcher is a compiled tokenizer for one finalized symbol table.
//
// The combined pattern needs lookahead for the function-call group,
// which Go's RE2 engine cannot express, so matchers compile with the
// backtracking regexp2 engine.
type Matcher struct {
	re      *regexp2.Regexp
	pattern string
}

// NewMatcher compiles a custom tokenizer pattern. The pattern must use
// the same capture group layout as synthesized matchers.
func NewMatcher(pattern string) (*Matcher, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, NewError(TokenizerBuildErr, nil, "tokenizer pattern does not compile: %v", err)
	}
	return &Matcher{re: re, pattern: pattern}, nil
}

// buildMatcher synthesizes the combined tokenizer for a symbol table.
// Symbol fragments are ordered longest first so that symbols that are
// textual prefixes of other symbols cannot shadow them.
func buildMatcher(st *SymbolTable) (*Matcher, error) {
	var fragments []string
	guarded := map[string]bool{}
	for _, s := range st.sorted() {
		if isPseudo(s.Name) {
			continue
		}
		frag := s.Pattern
		if frag == "" {
			frag = escapeSymbol(s.Name)
			// Word operators like 'div' must not shadow the prefix of a
			// longer name, so name-like symbols get a boundary guard.
			if r := []rune(s.Name); isWordRune(r[len(r)-1]) {
				guarded[frag] = true
			}
		}
		fragments = append(fragments, frag)
	}
	slices.SortFunc(fragments, func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	for i, frag := range fragments {
		if guarded[frag] {
			fragments[i] = frag + `(?![A-Za-z0-9_])`
		}
	}

	symbolGroup := strings.Join(fragments, "|")
	if symbolGroup == "" {
		symbolGroup = neverMatch
	}

	pattern := fmt.Sprintf(`(%s)|(%s)|(%s%s)|(%s)|(\S)|\s+`,
		literalsPattern, symbolGroup, namePattern, funcCallAhead, namePattern)
	return NewMatcher(pattern)
}

// Pattern returns the combined pattern source.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// FindAll returns the capture group texts of every match in source,
// whitespace matches included. It is intended for diagnostics and
// conformance tests; the engine iterates matches incrementally.
func (m *Matcher) FindAll(source string) ([][]string, error) {
	return m.FindAllFrom(source, 0)
}

// FindAllFrom is FindAll starting from a rune offset.
func (m *Matcher) FindAllFrom(source string, start int) ([][]string, error) {
	var out [][]string
	match, err := m.re.FindStringMatchStartingAt(source, start)
	for ; match != nil && err == nil; match, err = m.re.FindNextMatch(match) {
		groups := match.Groups()
		row := make([]string, 0, len(groups)-1)
		for _, g := range groups[1:] {
			if len(g.Captures) > 0 {
				row = append(row, g.String())
			} else {
				row = append(row, "")
			}
		}
		out = append(out, row)
	}
	if err != nil {
		return nil, NewError(TokenizerBuildErr, nil, "tokenizer failed: %v", err)
	}
	return out, nil
}

// iterator walks the matches of one source string.
type matchIterator struct {
	m      *Matcher
	source string
	cur    *regexp2.Match
	done   bool
}

func (m *Matcher) iter(source string) *matchIterator {
	return &matchIterator{m: m, source: source}
}

// next returns the following match, or nil at end of source.
func (it *matchIterator) next() (*regexp2.Match, error) {
	if it.done {
		return nil, nil
	}
	var match *regexp2.Match
	var err error
	if it.cur == nil {
		match, err = it.m.re.FindStringMatch(it.source)
	} else {
		match, err = it.m.re.FindNextMatch(it.cur)
	}
	if err != nil {
		return nil, NewError(TokenizerBuildErr, nil, "tokenizer failed: %v", err)
	}
	if match == nil {
		it.done = true
		return nil, nil
	}
	it.cur = match
	return match, nil
}

// groupText returns the text of the first participating capture group
// and its index, or 0 if none participated.
func groupText(match *regexp2.Match) (int, string) {
	groups := match.Groups()
	for i, g := range groups[1:] {
		if len(g.Captures) > 0 {
			return i + 1, g.String()
		}
	}
	return 0, ""
}

// escapeSymbol converts a literal symbol name into a pattern fragment.
// Single-character symbols become character classes (so '+' turns into
// '[+]'); longer names are escaped character by character. Clark
// notation names keep their braces escaped so they cannot corrupt the
// combined pattern.
func escapeSymbol(name string) string {
	runes := []rune(name)
	if len(runes) == 1 {
		c := runes[0]
		switch c {
		case ']', '\\', '^':
			return `[\` + string(c) + `]`
		default:
			if isRegexSpecial(c) {
				return `[` + string(c) + `]`
			}
			return string(c)
		}
	}
	var b strings.Builder
	for _, c := range runes {
		if isRegexSpecial(c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FunctionPattern returns the tokenizer fragment for a name-like symbol
// that must only match when followed by an argument list opener. Without
// the lookahead a registered function name would shadow the same word
// used as a plain name.
func FunctionPattern(name string) string {
	return escapeSymbol(name) + funcCallAhead
}

func isWordRune(c rune) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isRegexSpecial(c rune) bool {
	switch c {
	case '.', '^', '$', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|', '\\', '#', '-':
		return true
	}
	return false
}
