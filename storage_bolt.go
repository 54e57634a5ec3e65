package docpack

import (
	"os"
	"time"

	"go.etcd.io/bbolt"
)

var entriesBucket = []byte("entries")

type boltStorage struct {
	path    string
	bdb     *bbolt.DB
	testing bool
}

// openBoltStorage opens (creating if absent) the pack file at path and
// ensures the entries bucket exists.
func openBoltStorage(path string, isTesting bool) (*boltStorage, error) {
	bdb, err := bbolt.Open(path, 0666, boltOptions(isTesting))
	if err != nil {
		return nil, err
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}
	return &boltStorage{path: path, bdb: bdb, testing: isTesting}, nil
}

func boltOptions(isTesting bool) *bbolt.Options {
	bopt := new(bbolt.Options)
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if isTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 64
		bopt.FreelistType = bbolt.FreelistMapType
	}
	return bopt
}

func (s *boltStorage) Update(f func(b packBucket) error) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return f(boltBucket{b: btx.Bucket(entriesBucket)})
	})
}

func (s *boltStorage) View(f func(b packBucket) error) error {
	return s.bdb.View(func(btx *bbolt.Tx) error {
		return f(boltBucket{b: btx.Bucket(entriesBucket)})
	})
}

// Compact rewrites the pack into a sibling temp file via bbolt.Compact and
// renames it into place, then reopens the handle so Close remains valid.
// Bolt compaction is whole-file; with a single bucket that equals compacting
// the full key range.
func (s *boltStorage) Compact() error {
	var empty bool
	err := s.View(func(b packBucket) error {
		k, _ := b.Cursor().First()
		empty = (k == nil)
		return nil
	})
	if err != nil {
		return err
	}
	if empty {
		return nil
	}

	tmpPath := s.path + ".compact"
	dst, err := bbolt.Open(tmpPath, 0666, boltOptions(false))
	if err != nil {
		return err
	}
	err = bbolt.Compact(dst, s.bdb, 0)
	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return err
	}
	err = dst.Close()
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	err = s.bdb.Close()
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	err = os.Rename(tmpPath, s.path)
	if err != nil {
		os.Remove(tmpPath)
		// Reopen the original so the deferred Close still has a live handle.
		s.bdb, _ = bbolt.Open(s.path, 0666, boltOptions(s.testing))
		return err
	}

	s.bdb, err = bbolt.Open(s.path, 0666, boltOptions(s.testing))
	return err
}

func (s *boltStorage) Close() error {
	if s.bdb == nil {
		return nil
	}
	return s.bdb.Close()
}

type boltBucket struct {
	b *bbolt.Bucket
}

func (b boltBucket) Get(key []byte) []byte { return b.b.Get(key) }

func (b boltBucket) Put(key, value []byte) error { return b.b.Put(key, value) }

func (b boltBucket) Delete(key []byte) error { return b.b.Delete(key) }

func (b boltBucket) Cursor() packCursor { return boltCursor{c: b.b.Cursor()} }

type boltCursor struct {
	c *bbolt.Cursor
}

func (c boltCursor) First() ([]byte, []byte) { return c.c.First() }

func (c boltCursor) Next() ([]byte, []byte) { return c.c.Next() }
