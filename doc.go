/*
Package docpack compiles a directory tree of human-edited structured documents
(JSON or YAML files, each holding one nested object graph) into a single
ordered key-value store file called a pack.

We implement:

1. A schema registry describing, per document collection, which fields embed
child documents and whether each holds an ordered sequence of children or at
most one child.

2. A generic pre-order traversal that walks a document tree according to the
registry, visiting parents before children.

3. A normalizer that replaces embedded children in a document's persisted
value with references to the children's own identifiers, so every node of
every hierarchy becomes an independent flat entry.

4. A pack writer that stages all entries of a run in memory, detects
duplicate keys across the whole run, prunes entries left over from earlier
runs, commits everything in one atomic batch, and compacts the store file.

# Technical Details

**Keys.**
Every document carries a compound "key" field delimited by '!'. The second
segment names the document's collection ("w!actors!A1" belongs to "actors");
embedded children use dotted collection names ("w!actors.items!I1"). Keys are
stored verbatim, so the pack's natural byte order groups entries by hierarchy.

**Values**: msgpack of the normalized document, i.e. the decoded document
with the "key" field stripped and every embedded field replaced by child
identifiers (an ordered list for sequence fields, a single identifier or nil
for singleton fields).

**Atomicity.**
A run never mutates the destination store until the very end: puts and prunes
accumulate in memory and are applied in a single storage transaction. A run
that fails at any point leaves the store byte-for-byte as it was.
*/
package docpack
