package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// Insert writes a new record, assigning its id and initial version.
func (g *Graph) Insert(rec *store.Record) error {
	cluster, err := g.cluster(rec.Class)
	if err != nil {
		return err
	}

	pos, err := g.nextPosition(cluster)
	if err != nil {
		return err
	}

	value, err := store.MarshalRecordValue(1, rec.Fields)
	if err != nil {
		return err
	}

	err = g.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRecordKey(cluster, pos), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return mapTxError(err)
	}

	rec.ID = core.FormatID(cluster, pos)
	rec.Version = 1
	return nil
}

// Load reads a record by id. Returns (nil, nil) if no record exists behind a
// well-formed id; malformed ids fail with core.ErrInvalidIdentifier.
func (g *Graph) Load(id string) (*store.Record, error) {
	cluster, pos, err := core.ParseID(id)
	if err != nil {
		return nil, err
	}
	class, ok := g.byCluster[cluster]
	if !ok {
		// well-formed id outside the schema: treated as nonexistent
		return nil, nil
	}

	var rec *store.Record
	err = g.WithTx(func(tx *badger.Txn) error {
		var err error
		rec, err = readRecord(tx, makeRecordKey(cluster, pos), id, class)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update rewrites a record if its version still matches the stored one.
func (g *Graph) Update(rec *store.Record) error {
	if rec.ID == "" {
		return store.ErrNotPersisted
	}
	cluster, pos, err := core.ParseID(rec.ID)
	if err != nil {
		return err
	}
	if name, ok := g.byCluster[cluster]; !ok || name != rec.Class {
		return fmt.Errorf("%w: id %s is not a %s", store.ErrClassMismatch, rec.ID, rec.Class)
	}

	key := makeRecordKey(cluster, pos)
	value, err := store.MarshalRecordValue(rec.Version+1, rec.Fields)
	if err != nil {
		return err
	}

	err = g.WithTx(func(tx *badger.Txn) error {
		current, err := readRecord(tx, key, rec.ID, rec.Class)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: %s", store.ErrNotPersisted, rec.ID)
		}
		if current.Version != rec.Version {
			return fmt.Errorf("%w: %s is at version %d, update carries %d",
				store.ErrConflict, rec.ID, current.Version, rec.Version)
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return mapTxError(err)
	}

	rec.Version++
	return nil
}

// DeleteRecord removes a record. No-op if absent.
func (g *Graph) DeleteRecord(id string) error {
	cluster, pos, err := core.ParseID(id)
	if err != nil {
		return err
	}
	if _, ok := g.byCluster[cluster]; !ok {
		return nil
	}

	err = g.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeRecordKey(cluster, pos)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return mapTxError(err)
}

// Scan visits every record of a class in id order.
func (g *Graph) Scan(class string, fn func(rec *store.Record) error) error {
	cluster, err := g.cluster(class)
	if err != nil {
		return err
	}

	return g.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordClassPrefix(cluster)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefixLen := len(recordPrefix) + 1
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			keyCluster, keyPos := unpackVertex(item.Key()[prefixLen:])
			id := core.FormatID(keyCluster, keyPos)

			var rec *store.Record
			err := item.Value(func(val []byte) error {
				version, fields, err := store.UnmarshalRecordValue(val)
				if err != nil {
					return err
				}
				rec = &store.Record{ID: id, Class: class, Version: version, Fields: fields}
				return nil
			})
			if err != nil {
				return err
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Count returns the number of records of a class.
func (g *Graph) Count(class string) (int64, error) {
	cluster, err := g.cluster(class)
	if err != nil {
		return 0, err
	}

	var count int64
	err = g.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordClassPrefix(cluster)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readRecord reads and decodes one record within a transaction.
// Returns (nil, nil) if the key is absent.
func readRecord(tx *badger.Txn, key []byte, id, class string) (*store.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rec *store.Record
	err = item.Value(func(val []byte) error {
		version, fields, err := store.UnmarshalRecordValue(val)
		if err != nil {
			return err
		}
		rec = &store.Record{ID: id, Class: class, Version: version, Fields: fields}
		return nil
	})
	return rec, err
}

// mapTxError converts badger transaction conflicts to the store sentinel.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %w", store.ErrConflict, err)
	}
	return err
}
