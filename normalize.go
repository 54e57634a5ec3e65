package docpack

const (
	keyField = "key"
	idField  = "id"
)

// normalizeDocument produces the value persisted for one node: a shallow
// copy of doc with the "key" field removed and every embedded field replaced
// by child identifiers. Sequence fields always normalize to a list (empty if
// the source had no children); singleton fields always normalize to a single
// identifier or explicit nil. Embedded fields never survive as full nested
// content — descendants are persisted independently under their own keys.
func normalizeDocument(scm *Schema, doc Document, collection string) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == keyField {
			continue
		}
		out[k] = v
	}
	for _, f := range scm.Collection(collection).Fields() {
		switch f.Kind {
		case Sequence:
			elems, _ := doc[f.Name].([]any)
			ids := make([]any, 0, len(elems))
			for _, el := range elems {
				if child, ok := el.(map[string]any); ok {
					ids = append(ids, childIdentifier(child))
				}
			}
			out[f.Name] = ids
		case Singleton:
			var id any
			if child, ok := doc[f.Name].(map[string]any); ok {
				id = childIdentifier(child)
			}
			out[f.Name] = id
		}
	}
	return out
}

// childIdentifier is what a parent's normalized value references a child by.
func childIdentifier(child map[string]any) any {
	return child[idField]
}
