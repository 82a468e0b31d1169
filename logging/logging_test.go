// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithFields(t *testing.T) {
	logger := New().WithFields(map[string]any{"context": "contextvalue"})

	fieldvalue, ok := logger.(*StandardLogger).fields["context"]
	if !ok {
		t.Fatal("Logger did not contain configured field")
	}
	if fieldvalue.(string) != "contextvalue" {
		t.Fatal("Logger did not contain configured field value")
	}
}

func TestWithFieldsOverrides(t *testing.T) {
	logger := New().
		WithFields(map[string]any{"context": "contextvalue"}).
		WithFields(map[string]any{"context": "changedcontextvalue"})

	fieldvalue, ok := logger.(*StandardLogger).fields["context"]
	if !ok {
		t.Fatal("Logger did not contain configured field")
	}
	if fieldvalue.(string) != "changedcontextvalue" {
		t.Fatal("Logger did not contain overridden field value")
	}
}

func TestLevels(t *testing.T) {
	logger := New()
	logger.SetLevel(Debug)
	if logger.GetLevel() != Debug {
		t.Fatalf("Expected debug level but got %v", logger.GetLevel())
	}
	logger.SetLevel(Error)
	if logger.GetLevel() != Error {
		t.Fatalf("Expected error level but got %v", logger.GetLevel())
	}
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.WithFields(map[string]any{"path": "a/b"}).Info("parsed")

	out := buf.String()
	if !strings.Contains(out, `"path":"a/b"`) || !strings.Contains(out, "parsed") {
		t.Fatalf("Unexpected log output: %q", out)
	}
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	logger.Info("dropped")
	if logger.WithFields(map[string]any{"k": "v"}) != Logger(logger) {
		t.Fatal("Expected the no-op logger to return itself")
	}
	logger.SetLevel(Debug)
	if logger.GetLevel() != Debug {
		t.Fatalf("Expected debug level but got %v", logger.GetLevel())
	}
}
