package docpack

import (
	"strings"
	"testing"
)

func TestSchemaLookup(t *testing.T) {
	scm := NewSchema()
	actors := AddCollection(scm, "actors", Seq("items"), Single("mount"))

	if got := scm.Collection("actors"); got != actors {
		t.Fatalf("Collection(actors) = %v, wanted the registered descriptor", got)
	}
	deepEqual(t, actors.Name(), "actors")
	deepEqual(t, actors.Fields(), []EmbeddedField{
		{Name: "items", Kind: Sequence},
		{Name: "mount", Kind: Singleton},
	})
}

func TestSchemaUnknownCollection(t *testing.T) {
	scm := NewSchema()
	c := scm.Collection("nope")
	if c != nil {
		t.Fatalf("Collection(nope) = %v, wanted nil", c)
	}
	// nil descriptors behave as empty schemas.
	deepEqual(t, len(c.Fields()), 0)
}

func TestSchemaRejectsBadDefinitions(t *testing.T) {
	mustPanic := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s did not panic", name)
			}
		}()
		f()
	}

	mustPanic("duplicate collection", func() {
		scm := NewSchema()
		AddCollection(scm, "actors")
		AddCollection(scm, "actors")
	})
	mustPanic("duplicate field", func() {
		AddCollection(NewSchema(), "actors", Seq("items"), Single("items"))
	})
	mustPanic("dotted field name", func() {
		AddCollection(NewSchema(), "actors", Seq("a.b"))
	})
	mustPanic("empty collection name", func() {
		AddCollection(NewSchema(), "")
	})
}

func TestFieldKindString(t *testing.T) {
	deepEqual(t, Sequence.String(), "sequence")
	deepEqual(t, Singleton.String(), "singleton")
	if got := FieldKind(7).String(); !strings.Contains(got, "7") {
		t.Fatalf("FieldKind(7).String() = %q", got)
	}
}

func TestDefaultSchemaIsAcyclic(t *testing.T) {
	scm := DefaultSchema()

	// Walk every declared collection's embedded-field graph; dotted child
	// names strictly grow, so any repeat of a name on the path is a cycle.
	var walk func(name string, path []string)
	walk = func(name string, path []string) {
		for _, p := range path {
			if p == name {
				t.Fatalf("cycle through %s: %v", name, path)
			}
		}
		for _, f := range scm.Collection(name).Fields() {
			walk(childCollectionName(name, f.Name), append(path, name))
		}
	}
	for name := range scm.collectionsByName {
		walk(name, nil)
	}

	if scm.Collection("actors.items") == nil {
		t.Fatalf("default schema is missing actors.items")
	}
}
