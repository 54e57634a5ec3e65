package docpack

import (
	"fmt"
	"log"
	"runtime"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// Options configures a compile run.
type Options struct {
	// Recursive descends into subdirectories when enumerating source files.
	Recursive bool

	// Verbose emits a notification per packed document and per pruned key.
	// Observational only.
	Verbose bool

	// Logf receives verbose notifications. Defaults to log.Printf.
	Logf func(format string, args ...any)

	// Filter, when set, is invoked with each raw top-level document; returning
	// false excludes the document and its whole subtree from this run: nothing
	// of it is written, and entries it produced in earlier runs are pruned.
	Filter func(doc Document) bool

	// IsTesting tunes the Bolt backend for fast transient stores.
	IsTesting bool
}

func (opt *Options) logf(format string, args ...any) {
	if opt.Logf != nil {
		opt.Logf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// Compile flattens every document hierarchy under srcDir into the pack at
// destPath. After a successful run the pack's key set equals exactly the set
// of keys produced by normalizing the current (non-excluded) source tree:
// no orphans, no missing entries, no duplicates.
//
// The run is all-or-nothing: entries are staged in memory and committed in a
// single batch at the end, so a failure at any point leaves the destination
// store exactly as it was. The store handle is released on every exit path.
func Compile(srcDir, destPath string, scm *Schema, opt Options) (err error) {
	if scm == nil {
		scm = DefaultSchema()
	}

	files, err := enumerateSources(srcDir, opt.Recursive)
	if err != nil {
		return fmt.Errorf("docpack: enumerating %s: %w", srcDir, err)
	}

	store, err := openBoltStorage(destPath, opt.IsTesting)
	if err != nil {
		return &StoreError{Op: "open", Path: destPath, Err: err}
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = &StoreError{Op: "close", Path: destPath, Err: cerr}
		}
	}()

	return compileInto(store, files, scm, &opt)
}

// packEntry is one staged put: a store key and the normalized document to
// persist under it. value is filled in by encodeEntries.
type packEntry struct {
	key   string
	doc   map[string]any
	value []byte
}

// compileRun is the accumulated state of one run: the keys produced so far
// (with the file that produced each, for duplicate attribution) and the
// staged batch. Documents are processed strictly one at a time, so both are
// only ever mutated by the sequential visit pass.
type compileRun struct {
	scm   *Schema
	opt   *Options
	seen  map[string]string // key -> source file that produced it
	batch []packEntry
}

// compileInto drives one run against an already-open store: stage every
// entry, prune stale keys, commit the batch atomically, compact.
func compileInto(store packStorage, files []string, scm *Schema, opt *Options) error {
	run := &compileRun{
		scm:  scm,
		opt:  opt,
		seen: make(map[string]string),
	}

	for _, file := range files {
		doc, err := decodeDocumentFile(file)
		if err != nil {
			return err
		}
		collection, err := documentCollection(file, doc)
		if err != nil {
			return err
		}
		if opt.Filter != nil && !opt.Filter(doc) {
			if opt.Verbose {
				opt.logf("docpack: excluding %s", file)
			}
			continue
		}
		if err := run.stageDocument(file, doc, collection); err != nil {
			return err
		}
	}

	// Diff against the existing store: any key the current source tree did
	// not produce is stale and gets a delete staged into the same batch.
	var stale []string
	err := store.View(func(b packBucket) error {
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if _, ok := run.seen[string(k)]; !ok {
				stale = append(stale, string(k))
			}
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "scan", Err: err}
	}

	err = store.Update(func(b packBucket) error {
		for _, e := range run.batch {
			if err := b.Put([]byte(e.key), e.value); err != nil {
				return err
			}
		}
		for _, k := range stale {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
			if opt.Verbose {
				opt.logf("docpack: pruning %s", k)
			}
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "commit", Err: err}
	}

	if err := store.Compact(); err != nil {
		return &StoreError{Op: "compact", Err: err}
	}
	return nil
}

// stageDocument flattens one top-level document and everything embedded in
// it into staged entries. The traversal visits parents before children, so a
// node's key is established (and checked against the whole run's seen set)
// before any of its descendants are processed.
func (run *compileRun) stageDocument(file string, doc Document, collection string) error {
	start := len(run.batch)
	err := traverseDocument(run.scm, doc, collection, file, run.visitNode)
	if err != nil {
		return err
	}
	if err := encodeEntries(run.batch[start:]); err != nil {
		return err
	}
	if run.opt.Verbose {
		run.opt.logf("docpack: packed %s (%d entries)", file, len(run.batch)-start)
	}
	return nil
}

func (run *compileRun) visitNode(node Document, collection string, src string) (string, error) {
	key, err := nodeKey(src, node)
	if err != nil {
		return "", err
	}
	if first, dup := run.seen[key]; dup {
		return "", &DuplicateKeyError{Key: key, Path: src, FirstPath: first}
	}
	run.seen[key] = src
	run.batch = append(run.batch, packEntry{key: key, doc: normalizeDocument(run.scm, node, collection)})
	return src, nil
}

// documentCollection derives a top-level document's collection from the
// second '!'-segment of its key.
func documentCollection(path string, doc Document) (string, error) {
	key, err := nodeKey(path, doc)
	if err != nil {
		return "", err
	}
	_, collection, _, ok := splitKey(key)
	if !ok {
		return "", &SchemaError{Path: path, Key: key, Msg: "malformed key"}
	}
	return collection, nil
}

func nodeKey(path string, node Document) (string, error) {
	key, ok := node[keyField].(string)
	if !ok || key == "" {
		return "", &SchemaError{Path: path, Msg: "document has no key"}
	}
	return key, nil
}

// encodeEntries fills in the msgpack values of one document's staged
// entries. Sibling nodes are mutually independent, so encoding fans out and
// is awaited before the next document is read.
func encodeEntries(entries []packEntry) error {
	if len(entries) == 0 {
		return nil
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range entries {
		e := &entries[i]
		g.Go(func() error {
			data, err := msgpack.Marshal(e.doc)
			if err != nil {
				return fmt.Errorf("docpack: encoding %s: %w", e.key, err)
			}
			e.value = data
			return nil
		})
	}
	return g.Wait()
}
