// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package tdop

import (
	"fmt"
	"strings"
)

// Error codes returned during table building, tokenization, parsing and
// evaluation.
const (
	// MalformedSymbolErr indicates a symbol registration with an invalid
	// pattern (e.g. embedded whitespace) or an undeclared name.
	MalformedSymbolErr string = "malformed_symbol_error"

	// IncompleteTableErr indicates Finalize was called while declared
	// symbols are still unregistered.
	IncompleteTableErr string = "incomplete_table_error"

	// TokenizerBuildErr indicates the synthesized tokenizer pattern did
	// not compile.
	TokenizerBuildErr string = "tokenizer_build_error"

	// IncompatibleTokenizerErr indicates the parser's matcher produced a
	// match that does not correspond to any symbol table group.
	IncompatibleTokenizerErr string = "incompatible_tokenizer_error"

	// UnexpectedTokenErr indicates an advance found a token other than
	// the expected one.
	UnexpectedTokenErr string = "unexpected_token_error"

	// UnexpectedLiteralErr indicates a literal token was found in a
	// position that requires an operator or name.
	UnexpectedLiteralErr string = "unexpected_literal_error"

	// UnexpectedNameErr indicates a name token was found in a position
	// where it cannot start or continue an expression.
	UnexpectedNameErr string = "unexpected_name_error"

	// UnknownSymbolErr indicates input matched only the tokenizer's
	// fallback group or a symbol absent from the finalized table.
	UnknownSymbolErr string = "unknown_symbol_error"

	// UnexpectedEOFErr indicates the input was exhausted before the
	// parse could complete.
	UnexpectedEOFErr string = "unexpected_eof_error"

	// InvalidArgumentErr indicates a parser primitive was misused by a
	// dialect behavior.
	InvalidArgumentErr string = "invalid_argument_error"

	// WrongArityErr indicates a call with an argument count outside the
	// symbol's accepted range.
	WrongArityErr string = "wrong_arity_error"

	// InvalidSourceTypeErr indicates parse was invoked on a non-text
	// input.
	InvalidSourceTypeErr string = "invalid_source_type_error"

	// StructuralIntegrityErr indicates the document graph reachable from
	// a context root is not a tree.
	StructuralIntegrityErr string = "structural_integrity_error"
)

// Error is the error type returned by table building, parsing and
// evaluation when an operation fails. Dialect code can attach a
// conformance-style diagnostic code (e.g. "XPST0003") for downstream
// reporting; the engine itself leaves Diagnostic empty.
type Error struct {
	Code       string    `json:"code"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	Message    string    `json:"message"`
	Location   *Location `json:"location,omitempty"`
	Token      *Token    `json:"-"`
	Hint       string    `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Diagnostic != "" {
		msg = fmt.Sprintf("%v: %v", e.Diagnostic, msg)
	}
	if e.Location != nil {
		msg = e.Location.String() + ": " + msg
	}
	return msg
}

// IsError returns true if err is an engine error with the given code.
func IsError(code string, err error) bool {
	if err, ok := err.(*Error); ok {
		return err.Code == code
	}
	return false
}

// NewError returns a new Error with a formatted message.
func NewError(code string, loc *Location, f string, a ...any) *Error {
	return &Error{
		Code:     code,
		Location: loc,
		Message:  fmt.Sprintf(f, a...),
	}
}

// Errors represents a series of errors encountered during parsing or
// evaluation.
type Errors []*Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no error(s)"
	}
	if len(e) == 1 {
		return fmt.Sprintf("1 error occurred: %v", e[0].Error())
	}
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return fmt.Sprintf("%d errors occurred:\n%s", len(e), strings.Join(s, "\n"))
}
