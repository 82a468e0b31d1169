// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package etree

import (
	"fmt"
	"regexp"
	"strings"
)

// Namespace URIs used by the standard function and constructor
// catalogs.
const (
	XMLNamespace          = "http://www.w3.org/XML/1998/namespace"
	XSDNamespace          = "http://www.w3.org/2001/XMLSchema"
	XSINamespace          = "http://www.w3.org/2001/XMLSchema-instance"
	XPathFunctionsNS      = "http://www.w3.org/2005/xpath-functions"
	XQTErrorsNamespace    = "http://www.w3.org/2005/xqt-errors"
	XSLTXQuerySerialNS    = "http://www.w3.org/2010/xslt-xquery-serialization"
	XMLDSignatureNS       = "http://www.w3.org/2000/09/xmldsig#"
	XMLEncryptionNS       = "http://www.w3.org/2001/04/xmlenc#"
	XMLIDNamespace        = "http://www.w3.org/2005/xml-id"
	FunctionsMathNS       = "http://www.w3.org/2005/xpath-functions/math"
	XPathMapFunctionsNS   = "http://www.w3.org/2005/xpath-functions/map"
	XPathArrayFunctionsNS = "http://www.w3.org/2005/xpath-functions/array"
)

var namespacePattern = regexp.MustCompile(`^{([^}]*)}`)

// Namespace extracts the URI part of a Clark-notation name, or ""
// when the name carries no namespace.
func Namespace(name string) string {
	if m := namespacePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// LocalName strips the namespace part from a Clark-notation or
// prefixed name.
func LocalName(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if m := namespacePattern.FindString(name); m != "" {
		return name[len(m):], nil
	}
	if strings.HasPrefix(name, "{") {
		return "", fmt.Errorf("invalid name format: %q", name)
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		local := name[i+1:]
		if local == "" || strings.ContainsRune(local, ':') {
			return "", fmt.Errorf("invalid name format: %q", name)
		}
		return local, nil
	}
	return name, nil
}

// ExpandedName converts a prefixed QName to Clark notation using the
// given prefix-to-URI map. Unprefixed names pick up the default
// namespace only when one is declared.
func ExpandedName(qname string, namespaces map[string]string) (string, error) {
	if qname == "" || strings.HasPrefix(qname, "{") {
		return qname, nil
	}
	prefix, local, found := strings.Cut(qname, ":")
	if !found {
		if uri := namespaces[""]; uri != "" {
			return fmt.Sprintf("{%s}%s", uri, qname), nil
		}
		return qname, nil
	}
	if prefix == "" || local == "" || strings.ContainsRune(local, ':') {
		return "", fmt.Errorf("invalid name format: %q", qname)
	}
	uri, ok := namespaces[prefix]
	if !ok {
		return "", fmt.Errorf("prefix %q not found in namespace map", prefix)
	}
	return fmt.Sprintf("{%s}%s", uri, local), nil
}

// PrefixedName converts a Clark-notation name back to prefix:local
// form, picking the first prefix in the map bound to the name's URI.
func PrefixedName(name string, namespaces map[string]string) (string, error) {
	uri := Namespace(name)
	if uri == "" {
		return name, nil
	}
	local, err := LocalName(name)
	if err != nil {
		return "", err
	}
	for prefix, u := range namespaces {
		if u == uri && prefix != "" {
			return fmt.Sprintf("%s:%s", prefix, local), nil
		}
	}
	return "", fmt.Errorf("no prefix found for namespace %q", uri)
}
