package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultBatch = 50

// Store persists task writes in BoltDB while the task store is unreachable.
//
// Items live in the queue bucket under "<priority>_<nanos>_<id>" so a cursor
// walk yields replay order. A second bucket maps item id to queue key, which
// keeps Remove and Requeue off the scan path.
type Store struct {
	db    *bolt.DB
	queue []byte
	index []byte
}

// Open creates the file (and its directory) and both buckets.
func Open(path string, name string) (*Store, error) {
	if name == "" {
		name = "buffer"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, queue: []byte(name), index: []byte(name + "_ids")}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{s.queue, s.index} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Enqueue stores item, replacing any earlier entry with the same id.
func (s *Store) Enqueue(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	item.normalize()
	key := []byte(queueKey(item))

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := s.unlink(tx, item.ID); err != nil {
			return err
		}
		if err := tx.Bucket(s.queue).Put(key, payload); err != nil {
			return err
		}
		return tx.Bucket(s.index).Put([]byte(item.ID), key)
	})
}

// GetBatch returns up to limit items in replay order without removing them.
// Entries that no longer decode are skipped; Cleanup drops them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultBatch
	}

	items := make([]Item, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.queue).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if json.Unmarshal(v, &item) != nil {
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove drops the item with the given id. Unknown ids are a no-op.
func (s *Store) Remove(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	if item.ID == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.unlink(tx, item.ID)
	})
}

// Requeue records item's retry count without moving it, so a failed write
// keeps its place ahead of later writes to the same task. Timestamp stays the
// original enqueue time and retention counts from it. An item no longer
// queued is enqueued again under its original key.
func (s *Store) Requeue(item Item) error {
	if err := s.ready(); err != nil {
		return err
	}
	item.normalize()
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(s.index)
		key := index.Get([]byte(item.ID))
		if key == nil {
			key = []byte(queueKey(item))
			if err := index.Put([]byte(item.ID), key); err != nil {
				return err
			}
		}
		return tx.Bucket(s.queue).Put(key, payload)
	})
}

// Purge removes every queued item match accepts and returns them in replay
// order.
func (s *Store) Purge(match func(Item) bool) ([]Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var purged []Item
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.queue).Cursor()
		var keys [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item Item
			if json.Unmarshal(v, &item) != nil || !match(item) {
				continue
			}
			keys = append(keys, append([]byte(nil), k...))
			purged = append(purged, item)
		}
		queue, index := tx.Bucket(s.queue), tx.Bucket(s.index)
		for i, k := range keys {
			if err := queue.Delete(k); err != nil {
				return err
			}
			if err := index.Delete([]byte(purged[i].ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purged, nil
}

// Contains reports whether any queued item satisfies match.
func (s *Store) Contains(match func(Item) bool) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.queue).Cursor()
		for k, v := c.First(); k != nil && !found; k, v = c.Next() {
			var item Item
			found = json.Unmarshal(v, &item) == nil && match(item)
		}
		return nil
	})
	return found, err
}

// Size reports how many items are queued.
func (s *Store) Size() (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(s.queue).Stats().KeyN
		return nil
	})
	return n, err
}

// Cleanup drops items enqueued before olderThan, plus undecodable entries,
// and reports how many went.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	dropped := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		queue, index := tx.Bucket(s.queue), tx.Bucket(s.index)
		c := queue.Cursor()
		for k, v := c.First(); k != nil; {
			var item Item
			if json.Unmarshal(v, &item) == nil && !item.Timestamp.Before(olderThan) {
				k, v = c.Next()
				continue
			}
			seek := append([]byte(nil), k...)
			if item.ID != "" {
				if err := index.Delete([]byte(item.ID)); err != nil {
					return err
				}
			}
			if err := c.Delete(); err != nil {
				return err
			}
			dropped++
			// Delete leaves the cursor between keys; reseek past the removed one.
			k, v = c.Seek(seek)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return dropped, nil
}

// Close releases the file lock. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return nil
}

// unlink removes id from both buckets inside tx.
func (s *Store) unlink(tx *bolt.Tx, id string) error {
	index := tx.Bucket(s.index)
	key := index.Get([]byte(id))
	if key == nil {
		return nil
	}
	if err := tx.Bucket(s.queue).Delete(key); err != nil {
		return err
	}
	return index.Delete([]byte(id))
}

func queueKey(item Item) string {
	return fmt.Sprintf("%d_%020d_%s", item.Priority, item.Timestamp.UnixNano(), item.ID)
}
