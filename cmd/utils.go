// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cclauss/elementpath/etree"
)

// loadDocument reads an XML, JSON or YAML document, picking the codec
// from the file extension.
func loadDocument(path string) (*etree.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return etree.FromJSON(data)
	case ".yaml", ".yml":
		return etree.FromYAML(data)
	default:
		return etree.ParseXML(strings.NewReader(string(data)))
	}
}

// parseVarFlags parses repeated name=value variable bindings.
func parseVarFlags(vars []string) (map[string]any, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(vars))
	for _, kv := range vars {
		name, value, found := strings.Cut(kv, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid variable binding %q, expected name=value", kv)
		}
		out[name] = value
	}
	return out, nil
}
