// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package etree

import (
	"iter"
	"maps"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cclauss/elementpath/tdop"
)

// parentMaps memoizes the parent index per document root, so repeated
// evaluations against the same tree do not rebuild it.
var parentMaps *lru.Cache[*Element, map[*Element]*Element]

func init() {
	parentMaps, _ = lru.New[*Element, map[*Element]*Element](128)
}

// Context carries the dynamic state of one evaluation: the document
// root, the current node, its 1-based position inside the collection
// being iterated, the size of that collection, and a bag of variable
// bindings. Traversal methods mutate the context in place; callers
// that need a stable snapshot must Copy first.
type Context struct {
	Root     *Element
	Node     *Element
	Position int
	Size     int
	Values   map[string]any
}

// NewContext returns a context focused on the document root. Position
// and Size start at 1: the root is the only member of its collection.
func NewContext(root *Element) *Context {
	return &Context{
		Root:     root,
		Node:     root,
		Position: 1,
		Size:     1,
		Values:   map[string]any{},
	}
}

// NewDocumentContext returns a context whose current node is unset,
// for expressions that start from the document rather than the root
// element. Position is 0 until a traversal step selects a node.
func NewDocumentContext(root *Element) *Context {
	return &Context{Root: root, Size: 1, Values: map[string]any{}}
}

// Copy returns a snapshot that shares the tree but not the iteration
// state. Variable bindings are cloned one level deep.
func (c *Context) Copy() *Context {
	cp := *c
	cp.Values = maps.Clone(c.Values)
	return &cp
}

// IterChildren yields the context once per child of the current node,
// updating Node, Position and Size at each step. When the current node
// is unset the root element is yielded as a collection of one. The
// same *Context is yielded every time.
func (c *Context) IterChildren() iter.Seq[*Context] {
	return func(yield func(*Context) bool) {
		if c.Node == nil {
			c.Size, c.Position, c.Node = 1, 1, c.Root
			yield(c)
			return
		}
		elem := c.Node
		for i, child := range elem.Children {
			c.Size = len(elem.Children)
			c.Position = i + 1
			c.Node = child
			if !yield(c) {
				return
			}
		}
	}
}

// IterDescendants yields the context for the current node and every
// node beneath it, in document order. A context with no current node
// first yields the document step itself, then continues from the root
// element. The same *Context is yielded every time.
func (c *Context) IterDescendants() iter.Seq[*Context] {
	return func(yield func(*Context) bool) {
		if c.Node == nil {
			c.Size, c.Position = 1, 0
			if !yield(c) {
				return
			}
			c.Node = c.Root
		}
		c.iterDescendants(yield)
	}
}

func (c *Context) iterDescendants(yield func(*Context) bool) bool {
	if !yield(c) {
		return false
	}
	elem := c.Node
	for i, child := range elem.Children {
		c.Size = len(elem.Children)
		c.Position = i + 1
		c.Node = child
		if !c.iterDescendants(yield) {
			return false
		}
	}
	return true
}

// ParentMap returns the child-to-parent index for the context's root,
// building and caching it on first use.
func (c *Context) ParentMap() map[*Element]*Element {
	if pm, ok := parentMaps.Get(c.Root); ok {
		return pm
	}
	pm := map[*Element]*Element{}
	for el := range c.Root.Iter() {
		for _, child := range el.Children {
			pm[child] = el
		}
	}
	parentMaps.Add(c.Root, pm)
	return pm
}

// Ancestors returns the chain of ancestors of elem, nearest first,
// ending at the root. A parent index that loops back on itself means
// the document is not a tree; that raises an error instead of hanging
// the traversal.
func (c *Context) Ancestors(elem *Element) ([]*Element, error) {
	pm := c.ParentMap()
	seen := map[*Element]struct{}{elem: {}}
	var chain []*Element
	cur := elem
	for {
		parent, ok := pm[cur]
		if !ok {
			return chain, nil
		}
		if _, dup := seen[parent]; dup {
			return nil, tdop.NewError(tdop.StructuralIntegrityErr, nil,
				"context root is not a tree, circularity found at node '%s'", parent.Tag)
		}
		seen[parent] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}
}

// SchemaAware is implemented by contexts that evaluate against a
// schema instead of an instance document. Constructor and function
// tokens consult it to return type descriptions rather than values.
type SchemaAware interface {
	SchemaMode() bool
}

// SchemaContext wraps a Context for schema-level evaluation.
type SchemaContext struct {
	*Context
}

// NewSchemaContext returns a schema-level context over root.
func NewSchemaContext(root *Element) *SchemaContext {
	return &SchemaContext{Context: NewContext(root)}
}

// SchemaMode reports that evaluation is schema-level.
func (s *SchemaContext) SchemaMode() bool { return true }

// Copy snapshots the wrapped context.
func (s *SchemaContext) Copy() *SchemaContext {
	return &SchemaContext{Context: s.Context.Copy()}
}
