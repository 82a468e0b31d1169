// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cclauss/elementpath/util"
)

func writeTestDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return path
}

func newEvalParams(format string) evalCommandParams {
	return evalCommandParams{
		outputFormat: util.NewEnumFlag(format, []string{"pretty", "json"}),
	}
}

func TestEvalXML(t *testing.T) {
	path := writeTestDoc(t, "doc.xml", `<a><b>1</b><b>2</b></a>`)

	var buf bytes.Buffer
	params := newEvalParams("json")
	params.dataPath = path
	if err := evalExpression(&buf, params, "count(b)"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "2" {
		t.Fatalf("Expected 2 but got %q", buf.String())
	}
}

func TestEvalJSONDocument(t *testing.T) {
	path := writeTestDoc(t, "doc.json", `{"items": [{"n": 1}, {"n": 2}, {"n": 3}]}`)

	var buf bytes.Buffer
	params := newEvalParams("json")
	params.dataPath = path
	if err := evalExpression(&buf, params, "count(items)"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "3" {
		t.Fatalf("Expected 3 but got %q", buf.String())
	}
}

func TestEvalYAMLDocument(t *testing.T) {
	path := writeTestDoc(t, "doc.yaml", "items:\n  - n: 1\n  - n: 2\n")

	var buf bytes.Buffer
	params := newEvalParams("pretty")
	params.dataPath = path
	if err := evalExpression(&buf, params, "items/n"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "n\t1") {
		t.Fatalf("Unexpected output: %q", buf.String())
	}
}

func TestEvalVars(t *testing.T) {
	path := writeTestDoc(t, "doc.xml", `<a><b>x</b></a>`)

	var buf bytes.Buffer
	params := newEvalParams("json")
	params.dataPath = path
	params.vars = []string{"want=x"}
	if err := evalExpression(&buf, params, "b = $want"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "true" {
		t.Fatalf("Expected true but got %q", buf.String())
	}

	params.vars = []string{"invalid"}
	if err := evalExpression(&buf, params, "b"); err == nil {
		t.Fatal("Expected an error for a malformed binding")
	}
}

func TestEvalMetricsOutput(t *testing.T) {
	path := writeTestDoc(t, "doc.xml", `<a/>`)

	var buf bytes.Buffer
	params := newEvalParams("pretty")
	params.dataPath = path
	params.metrics = true
	if err := evalExpression(&buf, params, "1 + 1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "timer_tdop_parse_ns") {
		t.Fatalf("Expected metrics output but got %q", buf.String())
	}
}

func TestParseCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := parseExpression(&buf, "1 + 2 * 3"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "1 + 2 * 3\n") {
		t.Fatalf("Expected the normalized source first, got %q", out)
	}
	if !strings.Contains(out, "'+' operator") {
		t.Fatalf("Expected the operator token in the dump, got %q", out)
	}
}
