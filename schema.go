package docpack

import (
	"fmt"
	"strings"
)

// FieldKind tells whether an embedded field holds an ordered list of child
// documents or at most a single one.
type FieldKind int

const (
	Sequence FieldKind = iota
	Singleton
)

func (k FieldKind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// EmbeddedField describes one embedded-child field of a collection.
type EmbeddedField struct {
	Name string
	Kind FieldKind
}

// Seq declares an embedded field holding an ordered list of child documents.
func Seq(name string) EmbeddedField {
	return EmbeddedField{Name: name, Kind: Sequence}
}

// Single declares an embedded field holding at most one child document.
func Single(name string) EmbeddedField {
	return EmbeddedField{Name: name, Kind: Singleton}
}

// Collection describes one document collection: its dotted name and its
// embedded fields, in declaration order. Declaration order determines the
// order fields are traversed in, which matters for deterministic error
// attribution.
type Collection struct {
	name   string
	fields []EmbeddedField
}

func (c *Collection) Name() string {
	return c.name
}

// Fields returns the collection's embedded fields in declaration order.
// A nil receiver (unknown collection) has no embedded fields.
func (c *Collection) Fields() []EmbeddedField {
	if c == nil {
		return nil
	}
	return c.fields
}

// Schema is the registry of collection descriptors. It is built once and
// never mutated afterwards; lookups are safe from any goroutine.
type Schema struct {
	collectionsByName map[string]*Collection
}

func NewSchema() *Schema {
	return &Schema{
		collectionsByName: make(map[string]*Collection),
	}
}

// AddCollection registers a collection under its dotted name. An embedded
// field named f of collection c targets the collection named "c.f", which
// gets its own descriptor (or none, in which case traversal stops there).
func AddCollection(scm *Schema, name string, fields ...EmbeddedField) *Collection {
	if name == "" {
		panic("collection name must not be empty")
	}
	if scm.collectionsByName[name] != nil {
		panic(fmt.Errorf("collection %s is already defined", name))
	}
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || strings.Contains(f.Name, ".") {
			panic(fmt.Errorf("collection %s: invalid embedded field name %q", name, f.Name))
		}
		if names[f.Name] {
			panic(fmt.Errorf("collection %s: embedded field %s is already defined", name, f.Name))
		}
		names[f.Name] = true
	}
	c := &Collection{name: name, fields: fields}
	scm.collectionsByName[name] = c
	return c
}

// Collection looks up a descriptor by dotted name. Returns nil for unknown
// collections, which behave as having no embedded fields.
func (scm *Schema) Collection(name string) *Collection {
	return scm.collectionsByName[name]
}

// childCollectionName returns the dotted collection name of the documents
// embedded in field of collection.
func childCollectionName(collection, field string) string {
	return collection + "." + field
}

// DefaultSchema returns the registry for the default world-content layout.
// The embedded-collection graph is a DAG: no collection reaches itself.
func DefaultSchema() *Schema {
	scm := NewSchema()
	AddCollection(scm, "actors", Seq("items"), Seq("effects"))
	AddCollection(scm, "actors.items", Seq("effects"))
	AddCollection(scm, "items", Seq("effects"))
	AddCollection(scm, "cards", Seq("cards"))
	AddCollection(scm, "journal", Seq("pages"))
	AddCollection(scm, "tables", Seq("results"))
	AddCollection(scm, "regions", Seq("behaviors"))
	AddCollection(scm, "playlists", Seq("sounds"))
	return scm
}
