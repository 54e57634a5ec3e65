package docpack

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memStorage struct {
	mu     sync.Mutex
	items  []memKV // sorted by key
	closed bool
}

type memKV struct {
	key   []byte
	value []byte
}

// newMemStorage returns a transient in-memory packStorage intended for tests.
func newMemStorage() *memStorage {
	return &memStorage{}
}

// Update runs f against a deep copy of the items; the copy replaces the live
// slice only when f succeeds, which gives the same all-or-nothing batch
// semantics as a Bolt transaction.
func (s *memStorage) Update(f func(b packBucket) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage closed")
	}

	snap := &memBucket{items: cloneItems(s.items), writable: true}
	if err := f(snap); err != nil {
		return err
	}
	s.items = snap.items
	return nil
}

func (s *memStorage) View(f func(b packBucket) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage closed")
	}
	return f(&memBucket{items: s.items})
}

func (s *memStorage) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage closed")
	}
	return nil
}

func (s *memStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneItems(items []memKV) []memKV {
	out := make([]memKV, len(items))
	for i, kv := range items {
		out[i] = memKV{
			key:   slices.Clone(kv.key),
			value: slices.Clone(kv.value),
		}
	}
	return out
}

type memBucket struct {
	items    []memKV
	writable bool
}

func (b *memBucket) Get(key []byte) []byte {
	i, ok := b.find(key)
	if !ok {
		return nil
	}
	return b.items[i].value
}

func (b *memBucket) Put(key, value []byte) error {
	if !b.writable {
		return fmt.Errorf("bucket not writable")
	}
	key = slices.Clone(key)
	value = slices.Clone(value)

	i, ok := b.find(key)
	if ok {
		b.items[i].value = value
		return nil
	}
	b.items = slices.Insert(b.items, i, memKV{key: key, value: value})
	return nil
}

func (b *memBucket) Delete(key []byte) error {
	if !b.writable {
		return fmt.Errorf("bucket not writable")
	}
	i, ok := b.find(key)
	if !ok {
		return nil
	}
	b.items = slices.Delete(b.items, i, i+1)
	return nil
}

func (b *memBucket) Cursor() packCursor {
	return &memCursor{b: b, pos: -1}
}

func (b *memBucket) find(key []byte) (idx int, ok bool) {
	items := b.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}

type memCursor struct {
	b   *memBucket
	pos int
}

func (c *memCursor) First() ([]byte, []byte) {
	c.pos = 0
	if len(c.b.items) == 0 {
		return nil, nil
	}
	kv := c.b.items[c.pos]
	return kv.key, kv.value
}

func (c *memCursor) Next() ([]byte, []byte) {
	if c.pos < 0 {
		return c.First()
	}
	c.pos++
	if c.pos >= len(c.b.items) {
		return nil, nil
	}
	kv := c.b.items[c.pos]
	return kv.key, kv.value
}
