// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

// Package etree provides the element-tree document model that parsed
// path expressions evaluate against, and the evaluation context that
// drives the traversal.
package etree

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Element is one node of a document tree. Tag names of namespaced
// documents use Clark notation ({uri}local).
type Element struct {
	Tag      string
	Text     string
	Attrib   map[string]string
	Children []*Element
}

// NewElement returns a childless element.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, Attrib: map[string]string{}}
}

// Append adds child elements, in order.
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// Attr returns the value of an attribute, or "".
func (e *Element) Attr(name string) string {
	return e.Attrib[name]
}

func (e *Element) String() string {
	return fmt.Sprintf("<%s>", e.Tag)
}

// Iter walks the subtree in document order (pre-order, the element
// before its children). The walk assumes the subtree is acyclic; trees
// mutated into a cycle are unsupported.
func (e *Element) Iter() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		e.walk(yield)
	}
}

func (e *Element) walk(yield func(*Element) bool) bool {
	if !yield(e) {
		return false
	}
	for _, child := range e.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// ParseXML decodes an XML document into an element tree, mapping
// namespaced names to Clark notation.
func ParseXML(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(clarkName(t.Name))
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.Attrib[clarkName(a.Name)] = a.Value
			}
			if len(stack) == 0 {
				root = el
			} else {
				stack[len(stack)-1].Append(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += strings.TrimSpace(string(t))
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("invalid XML document: no root element")
	}
	return root, nil
}

func clarkName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return fmt.Sprintf("{%s}%s", name.Space, name.Local)
}

// FromJSON decodes a JSON document into an element tree rooted at a
// synthetic "root" element, so path expressions address JSON and XML
// input uniformly.
func FromJSON(data []byte) (*Element, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	return fromValue("root", v), nil
}

// FromYAML decodes a YAML document the same way FromJSON does; YAML
// input feeds through the identical tree shape.
func FromYAML(data []byte) (*Element, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML document: %w", err)
	}
	return fromValue("root", v), nil
}

func fromValue(tag string, v any) *Element {
	el := NewElement(tag)
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendValue(el, k, x[k])
		}
	case []any:
		for _, item := range x {
			appendValue(el, tag, item)
		}
	default:
		el.Text = scalarText(x)
	}
	return el
}

func appendValue(parent *Element, tag string, v any) {
	if items, ok := v.([]any); ok {
		for _, item := range items {
			parent.Append(fromValue(tag, item))
		}
		return
	}
	parent.Append(fromValue(tag, v))
}

func scalarText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
