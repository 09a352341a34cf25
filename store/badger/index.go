package badger

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Secondary indexes map an application-defined key to a record id. They are
// maintained by the repositories that need them (slug lookups, reference
// back-pointers); the store only provides the primitives.

// SetIndex writes the index entry name/key -> id, replacing any existing
// entry.
func (g *Graph) SetIndex(name string, key []byte, id string) error {
	err := g.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeIndexKey(name, key), []byte(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return mapTxError(err)
}

// SetIndexIfAbsent writes the entry only when the key is unclaimed. Returns
// the id now stored under the key and whether this call stored it. Check and
// write share one transaction, which makes the claim atomic.
func (g *Graph) SetIndexIfAbsent(name string, key []byte, id string) (string, bool, error) {
	winner := id
	claimed := false
	err := g.WithTx(func(tx *badger.Txn) error {
		indexKey := makeIndexKey(name, key)
		item, err := tx.Get(indexKey)
		if err == nil {
			return item.Value(func(val []byte) error {
				winner = string(val)
				return nil
			})
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(indexKey, []byte(id)); err != nil {
			return err
		}
		claimed = true
		return tx.Commit()
	}, true)
	if err != nil {
		return "", false, mapTxError(err)
	}
	return winner, claimed, nil
}

// DeleteIndex removes an index entry. No-op if absent.
func (g *Graph) DeleteIndex(name string, key []byte) error {
	err := g.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeIndexKey(name, key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return mapTxError(err)
}

// LookupIndex reads an index entry.
func (g *Graph) LookupIndex(name string, key []byte) (string, bool, error) {
	var id string
	found := false
	err := g.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexKey(name, key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	}, false)
	return id, found, err
}

// ScanIndex visits index entries under a key prefix.
func (g *Graph) ScanIndex(name string, prefix []byte, fn func(key []byte, id string) error) error {
	return g.WithTx(func(tx *badger.Txn) error {
		fullPrefix := makeIndexKey(name, prefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = fullPrefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		baseLen := len(makeIndexKey(name, nil))
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := append([]byte(nil), item.Key()[baseLen:]...)
			err := item.Value(func(val []byte) error {
				return fn(key, string(val))
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
}
