package docpack

import "strings"

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

func splitByte(s string, sep byte) (string, string, bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return s, "", false
	} else {
		return s[:i], s[i+1:], true
	}
}

// splitKey breaks a compound store key into its first segment, collection
// name (second segment) and remainder. ok is false when the key has fewer
// than two '!'-segments or an empty collection segment.
func splitKey(key string) (scope, collection, rest string, ok bool) {
	scope, tail, found := splitByte(key, '!')
	if !found {
		return key, "", "", false
	}
	collection, rest, _ = splitByte(tail, '!')
	if collection == "" {
		return scope, "", rest, false
	}
	return scope, collection, rest, true
}
