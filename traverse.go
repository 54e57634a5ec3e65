package docpack

import "reflect"

// Document is one decoded source document node: an untyped nested record.
// The required "key" field carries the compound store key; embedded fields
// hold child nodes per the schema registry.
type Document map[string]any

// visitFunc is invoked on a node before any of its descendants. It receives
// the context returned by the visit of the node's parent and returns the
// context to thread into the node's children.
type visitFunc[C any] func(node Document, collection string, ctx C) (C, error)

// traverseDocument walks doc depth-first, pre-order, according to the schema
// registry. Sequence elements are visited in source order. An absent or empty
// sequence field simply yields no recursive calls; a singleton field is
// descended into only when present and non-null. Nodes that are not objects
// are skipped: only objects become independent entries.
//
// Node identity is tracked so that an aliased or (misconfigured) cyclic
// document graph terminates instead of recursing forever.
func traverseDocument[C any](scm *Schema, doc Document, collection string, ctx C, visit visitFunc[C]) error {
	t := &traversal[C]{scm: scm, visit: visit, seen: make(map[uintptr]struct{})}
	return t.walk(doc, collection, ctx)
}

type traversal[C any] struct {
	scm   *Schema
	visit visitFunc[C]
	seen  map[uintptr]struct{}
}

func (t *traversal[C]) walk(node Document, collection string, ctx C) error {
	if node == nil {
		return nil
	}
	p := reflect.ValueOf(node).Pointer()
	if _, dup := t.seen[p]; dup {
		return nil
	}
	t.seen[p] = struct{}{}

	ctx, err := t.visit(node, collection, ctx)
	if err != nil {
		return err
	}

	for _, f := range t.scm.Collection(collection).Fields() {
		childCol := childCollectionName(collection, f.Name)
		switch f.Kind {
		case Sequence:
			elems, _ := node[f.Name].([]any)
			for _, el := range elems {
				child, ok := el.(map[string]any)
				if !ok {
					continue
				}
				if err := t.walk(Document(child), childCol, ctx); err != nil {
					return err
				}
			}
		case Singleton:
			child, ok := node[f.Name].(map[string]any)
			if !ok {
				continue
			}
			if err := t.walk(Document(child), childCol, ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
