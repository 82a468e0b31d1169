// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package tdop

import "fmt"

// Location records a position in expression source text.
type Location struct {
	Text []byte `json:"-"` // The original text fragment from the source.
	File string // The name of the source file (which may be empty).
	Row  int    // The line in the source.
	Col  int    // The column in the row.
}

// NewLocation returns a new Location object.
func NewLocation(text []byte, file string, row int, col int) *Location {
	return &Location{Text: text, File: file, Row: row, Col: col}
}

func (loc *Location) String() string {
	if len(loc.File) > 0 {
		return fmt.Sprintf("%v:%v", loc.File, loc.Row)
	}
	return fmt.Sprintf("%v:%v", loc.Row, loc.Col)
}

// Errorf returns a new error value with a message formatted to include
// the location info.
func (loc *Location) Errorf(f string, a ...any) error {
	return fmt.Errorf("%v: %v", loc.String(), fmt.Sprintf(f, a...))
}

// Format returns a formatted string prefixed with the location information.
func (loc *Location) Format(f string, a ...any) string {
	return fmt.Sprintf("%v: %v", loc.String(), fmt.Sprintf(f, a...))
}
