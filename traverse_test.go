package docpack

import (
	"errors"
	"testing"
)

func mustDecodeJSON(t testing.TB, data string) Document {
	t.Helper()
	return must(decodeDocument("test.json", []byte(data)))
}

func TestTraversePreOrder(t *testing.T) {
	doc := mustDecodeJSON(t, `{
		"key": "w!actors!A1",
		"items": [
			{"key": "w!actors.items!I1", "effects": [{"key": "w!actors.items.effects!E1"}]},
			{"key": "w!actors.items!I2"}
		],
		"effects": [{"key": "w!actors.effects!E2"}]
	}`)
	scm := NewSchema()
	AddCollection(scm, "actors", Seq("items"), Seq("effects"))
	AddCollection(scm, "actors.items", Seq("effects"))

	var keys, collections []string
	err := traverseDocument(scm, doc, "actors", 0, func(node Document, col string, depth int) (int, error) {
		keys = append(keys, node[keyField].(string))
		collections = append(collections, col)
		return depth + 1, nil
	})
	ensure(err)

	deepEqual(t, keys, []string{
		"w!actors!A1",
		"w!actors.items!I1",
		"w!actors.items.effects!E1",
		"w!actors.items!I2",
		"w!actors.effects!E2",
	})
	deepEqual(t, collections, []string{
		"actors",
		"actors.items",
		"actors.items.effects",
		"actors.items",
		"actors.effects",
	})
}

func TestTraverseThreadsContext(t *testing.T) {
	doc := mustDecodeJSON(t, `{
		"key": "w!actors!A1",
		"items": [{"key": "w!actors.items!I1", "effects": [{"key": "w!actors.items.effects!E1"}]}]
	}`)
	scm := NewSchema()
	AddCollection(scm, "actors", Seq("items"))
	AddCollection(scm, "actors.items", Seq("effects"))

	depths := make(map[string]int)
	ensure(traverseDocument(scm, doc, "actors", 0, func(node Document, col string, depth int) (int, error) {
		depths[node[keyField].(string)] = depth
		return depth + 1, nil
	}))

	deepEqual(t, depths, map[string]int{
		"w!actors!A1":               0,
		"w!actors.items!I1":         1,
		"w!actors.items.effects!E1": 2,
	})
}

func TestTraverseAbsentFields(t *testing.T) {
	doc := mustDecodeJSON(t, `{"key": "w!actors!A1"}`)
	scm := NewSchema()
	AddCollection(scm, "actors", Seq("items"), Single("mount"))

	var visits int
	ensure(traverseDocument(scm, doc, "actors", struct{}{}, func(node Document, col string, ctx struct{}) (struct{}, error) {
		visits++
		return ctx, nil
	}))
	if visits != 1 {
		t.Fatalf("visits = %d, wanted 1 (absent embedded fields must not recurse)", visits)
	}
}

func TestTraverseNullSingleton(t *testing.T) {
	doc := mustDecodeJSON(t, `{"key": "w!actors!A1", "mount": null}`)
	scm := NewSchema()
	AddCollection(scm, "actors", Single("mount"))

	var visits int
	ensure(traverseDocument(scm, doc, "actors", struct{}{}, func(node Document, col string, ctx struct{}) (struct{}, error) {
		visits++
		return ctx, nil
	}))
	if visits != 1 {
		t.Fatalf("visits = %d, wanted 1 (null singleton must not recurse)", visits)
	}
}

func TestTraverseUnknownCollectionStops(t *testing.T) {
	doc := mustDecodeJSON(t, `{
		"key": "w!mystery!M1",
		"items": [{"key": "w!mystery.items!I1"}]
	}`)

	var visits int
	ensure(traverseDocument(NewSchema(), doc, "mystery", struct{}{}, func(node Document, col string, ctx struct{}) (struct{}, error) {
		visits++
		return ctx, nil
	}))
	if visits != 1 {
		t.Fatalf("visits = %d, wanted 1 (unknown collection has no embedded fields)", visits)
	}
}

func TestTraverseAliasedNodeVisitedOnce(t *testing.T) {
	// A cyclic registry plus an aliased node would loop forever without
	// visited-node tracking.
	child := map[string]any{"key": "w!groups.members!M1", "id": "M1"}
	doc := Document{
		"key":     "w!groups!G1",
		"members": []any{child, child},
	}
	scm := NewSchema()
	AddCollection(scm, "groups", Seq("members"))
	AddCollection(scm, "groups.members", Seq("members"))

	var visits int
	ensure(traverseDocument(scm, doc, "groups", struct{}{}, func(node Document, col string, ctx struct{}) (struct{}, error) {
		visits++
		return ctx, nil
	}))
	if visits != 2 {
		t.Fatalf("visits = %d, wanted 2 (aliased node must be visited once)", visits)
	}
}

func TestTraverseStopsOnVisitError(t *testing.T) {
	doc := mustDecodeJSON(t, `{
		"key": "w!actors!A1",
		"items": [{"key": "w!actors.items!I1"}, {"key": "w!actors.items!I2"}]
	}`)
	scm := NewSchema()
	AddCollection(scm, "actors", Seq("items"))

	boom := errors.New("boom")
	var visits int
	err := traverseDocument(scm, doc, "actors", struct{}{}, func(node Document, col string, ctx struct{}) (struct{}, error) {
		visits++
		if node[keyField] == "w!actors.items!I1" {
			return ctx, boom
		}
		return ctx, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("traverse error = %v, wanted boom", err)
	}
	if visits != 2 {
		t.Fatalf("visits = %d, wanted 2 (traversal must stop at the first error)", visits)
	}
}
