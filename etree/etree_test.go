// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package etree

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseXML(t *testing.T) {
	doc := `<catalog xmlns:ds="http://www.w3.org/2000/09/xmldsig#">
	  <book id="b1"><title>Go</title></book>
	  <ds:Signature ds:algo="rsa">sig</ds:Signature>
	</catalog>`

	root, err := ParseXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if root.Tag != "catalog" {
		t.Fatalf("Expected tag 'catalog' but got %q", root.Tag)
	}
	if len(root.Children) != 2 {
		t.Fatalf("Expected 2 children but got %d", len(root.Children))
	}

	book := root.Children[0]
	if book.Attr("id") != "b1" {
		t.Fatalf("Expected id 'b1' but got %q", book.Attr("id"))
	}
	if book.Children[0].Text != "Go" {
		t.Fatalf("Expected text 'Go' but got %q", book.Children[0].Text)
	}

	sig := root.Children[1]
	if sig.Tag != "{http://www.w3.org/2000/09/xmldsig#}Signature" {
		t.Fatalf("Expected a Clark-notation tag but got %q", sig.Tag)
	}
	if sig.Attr("{http://www.w3.org/2000/09/xmldsig#}algo") != "rsa" {
		t.Fatalf("Expected a Clark-notation attribute but got %v", sig.Attrib)
	}
}

func TestParseXMLErrors(t *testing.T) {
	if _, err := ParseXML(strings.NewReader("")); err == nil {
		t.Fatal("Expected an error for an empty document")
	}
	if _, err := ParseXML(strings.NewReader("<a><b></a>")); err == nil {
		t.Fatal("Expected an error for mismatched tags")
	}
}

func TestFromJSON(t *testing.T) {
	root, err := FromJSON([]byte(`{"books": [{"title": "Go"}, {"title": "XPath"}], "count": 2}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if root.Tag != "root" {
		t.Fatalf("Expected tag 'root' but got %q", root.Tag)
	}

	var tags []string
	for el := range root.Iter() {
		tags = append(tags, el.Tag)
	}
	exp := []string{"root", "books", "title", "books", "title", "count"}
	if !reflect.DeepEqual(tags, exp) {
		t.Fatalf("Expected %v but got %v", exp, tags)
	}
	if root.Children[2].Text != "2" {
		t.Fatalf("Expected count text '2' but got %q", root.Children[2].Text)
	}

	if _, err := FromJSON([]byte("{")); err == nil {
		t.Fatal("Expected an error for malformed JSON")
	}
}

func TestFromYAML(t *testing.T) {
	root, err := FromYAML([]byte("books:\n  - title: Go\n  - title: XPath\ncount: 2\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var tags []string
	for el := range root.Iter() {
		tags = append(tags, el.Tag)
	}
	exp := []string{"root", "books", "title", "books", "title", "count"}
	if !reflect.DeepEqual(tags, exp) {
		t.Fatalf("Expected %v but got %v", exp, tags)
	}

	if _, err := FromYAML([]byte("a: [1,")); err == nil {
		t.Fatal("Expected an error for malformed YAML")
	}
}

func TestIterEarlyStop(t *testing.T) {
	root := testTree()
	var tags []string
	for el := range root.Iter() {
		tags = append(tags, el.Tag)
		if el.Tag == "a" {
			break
		}
	}
	if !reflect.DeepEqual(tags, []string{"root", "a"}) {
		t.Fatalf("Expected [root a] but got %v", tags)
	}
}
