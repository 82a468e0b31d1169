// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cclauss/elementpath/tdop"
)

const testXML = `<shelf>
  <book id="b1"><title>Go</title></book>
  <book id="b2"><title>XPath</title></book>
</shelf>`

func newTestREPL(t *testing.T, buf *bytes.Buffer) *REPL {
	t.Helper()
	r, err := New(buf, filepath.Join(t.TempDir(), "history"), "pretty", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return r
}

func loadTestDoc(t *testing.T, r *REPL) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelf.xml")
	if err := os.WriteFile(path, []byte(testXML), 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := r.OneShot("load " + path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestLoadAndEval(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(t, &buf)
	loadTestDoc(t, r)

	if !strings.Contains(buf.String(), "root <shelf>") {
		t.Fatalf("Unexpected load output: %q", buf.String())
	}
	if r.Document() == nil || r.Document().Tag != "shelf" {
		t.Fatalf("Expected the loaded document but got %v", r.Document())
	}

	buf.Reset()
	if err := r.OneShot("book"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "book") {
		t.Fatalf("Expected node rows but got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(t, &buf)
	loadTestDoc(t, r)
	buf.Reset()

	if err := r.OneShot("json"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := r.OneShot("count(//book)"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "2" {
		t.Fatalf("Expected 2 but got %q", buf.String())
	}

	buf.Reset()
	if err := r.OneShot("book"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"book"`) {
		t.Fatalf("Expected JSON tags but got %q", buf.String())
	}
}

func TestSetUnset(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(t, &buf)
	loadTestDoc(t, r)
	buf.Reset()

	if err := r.OneShot("set limit 1 + 1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := r.OneShot("json"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := r.OneShot("$limit"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "2" {
		t.Fatalf("Expected 2 but got %q", buf.String())
	}

	if err := r.OneShot("unset limit"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	err := r.OneShot("$limit")
	if !tdop.IsError(tdop.InvalidArgumentErr, err) {
		t.Fatalf("Expected an unknown variable error but got %v", err)
	}
}

func TestEvalErrorsReturned(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(t, &buf)
	loadTestDoc(t, r)

	err := r.OneShot("5 5")
	if !tdop.IsError(tdop.UnexpectedLiteralErr, err) {
		t.Fatalf("Expected a syntax error but got %v", err)
	}
}

func TestCommands(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(t, &buf)

	if err := r.OneShot("symbols"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "concat") {
		t.Fatalf("Expected the symbol table but got %q", buf.String())
	}

	buf.Reset()
	if err := r.OneShot("help"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Commands") {
		t.Fatalf("Expected help output but got %q", buf.String())
	}

	buf.Reset()
	if err := r.OneShot("metrics"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "counter_repl_input") {
		t.Fatalf("Expected metrics output but got %q", buf.String())
	}

	if err := r.OneShot("exit"); err == nil {
		t.Fatal("Expected the stop sentinel")
	} else if _, ok := err.(stop); !ok {
		t.Fatalf("Expected the stop sentinel but got %v", err)
	}
}

func TestComplete(t *testing.T) {
	var buf bytes.Buffer
	r := newTestREPL(t, &buf)

	found := false
	for _, c := range r.complete("con") {
		if c == "concat" {
			found = true
		}
	}
	if !found {
		t.Fatal("Expected 'concat' in the completions")
	}
}
