package docpack

import "fmt"

// DecodeError reports a source file whose contents are not valid JSON/YAML,
// or do not form a document object.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("docpack: decoding %s: %v", e.Path, e.Err)
}

// SchemaError reports a document whose "key" field is missing or cannot be
// split into at least two '!'-segments.
type SchemaError struct {
	Path string
	Key  string
	Msg  string
}

func (e *SchemaError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("docpack: %s: %s: key %q", e.Path, e.Msg, e.Key)
	}
	return fmt.Sprintf("docpack: %s: %s", e.Path, e.Msg)
}

// DuplicateKeyError reports two nodes of one run normalizing to the same
// store key. Detection is global across the run, not per file; FirstPath is
// the file that produced the key first.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstPath string
}

func (e *DuplicateKeyError) Error() string {
	if e.FirstPath == e.Path {
		return fmt.Sprintf("docpack: %s: duplicate key %q", e.Path, e.Key)
	}
	return fmt.Sprintf("docpack: %s: duplicate key %q, first produced by %s", e.Path, e.Key, e.FirstPath)
}

// StoreError reports a failure of the underlying key-value store.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("docpack: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("docpack: %s: %v", e.Op, e.Err)
}
